// file: internals/helpers/auth/token_locals.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Nama locals yang diisi middleware AuthJWT
const (
	LocRole        = "role"         // legacy single role
	LocUserID      = "user_id"      // string | uuid
	LocStudentID   = "student_id"   // string | uuid
	LocTeacherID   = "teacher_id"   // string | uuid
	LocRolesGlobal = "roles_global" // []string
	LocIsOwner     = "is_owner"     // bool
)

func parseUUIDLocal(c *fiber.Ctx, key, label string) (uuid.UUID, error) {
	v := c.Locals(key)
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, label+" tidak ditemukan pada token")
	}

	var s string
	switch t := v.(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, label+" tidak ditemukan pada token")
		}
		return t, nil
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, label+" pada token tidak valid")
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, label+" tidak ditemukan pada token")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, label+" pada token tidak valid")
	}
	return id, nil
}

// GetUserIDFromToken: 401 kalau belum login, 400 kalau formatnya tidak valid.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	return parseUUIDLocal(c, LocUserID, "user_id")
}

// GetStudentIDFromToken: subject untuk scan presensi.
func GetStudentIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := parseUUIDLocal(c, LocStudentID, "student_id")
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok && fe.Code == fiber.StatusUnauthorized {
			return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "Hanya siswa yang bisa melakukan scan presensi")
		}
		return uuid.Nil, err
	}
	return id, nil
}

// GetRoles menggabungkan roles_global + role legacy (lowercase, tanpa duplikat).
func GetRoles(c *fiber.Ctx) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, 4)
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	switch t := c.Locals(LocRolesGlobal).(type) {
	case []string:
		for _, r := range t {
			add(r)
		}
	case []any:
		for _, it := range t {
			if r, ok := it.(string); ok {
				add(r)
			}
		}
	case string:
		add(t)
	}
	if r, ok := c.Locals(LocRole).(string); ok {
		add(r)
	}
	if b, ok := c.Locals(LocIsOwner).(bool); ok && b {
		add("owner")
	}
	return out
}

func HasAnyRole(c *fiber.Ctx, roles ...string) bool {
	have := GetRoles(c)
	for _, want := range roles {
		want = strings.ToLower(strings.TrimSpace(want))
		for _, h := range have {
			if h == want {
				return true
			}
		}
	}
	return false
}
