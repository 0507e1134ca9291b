package constants

import "fmt"

const (
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
	RoleOwner   = "owner"
)

// Template pesan error role
const (
	ErrOnlyStaffCanAccess  = "❌ Hanya teacher, admin, atau owner yang boleh mengakses fitur %s."
	ErrOnlyAdminsCanAccess = "❌ Hanya admin atau owner yang boleh mengakses fitur %s."
)

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	// boleh buka/tutup sesi & menampilkan QR
	StaffRoles = []string{
		RoleTeacher,
		RoleAdmin,
		RoleOwner,
	}

	// boleh kelola secret harian
	AdminRoles = []string{
		RoleAdmin,
		RoleOwner,
	}
)
