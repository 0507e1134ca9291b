// file: internals/features/attendance/scans/route/student_route.go
package route

import (
	scanCtrl "presensi_backend/internals/features/attendance/scans/controller"

	"github.com/gofiber/fiber/v2"
)

// ScanStudentRoutes: r sudah lewat AuthJWT; limiter dipasang khusus di endpoint scan.
func ScanStudentRoutes(r fiber.Router, ctl *scanCtrl.ScanController, scanLimiter fiber.Handler) {
	g := r.Group("/attendance")
	if scanLimiter != nil {
		g.Post("/scan", scanLimiter, ctl.Submit)
	} else {
		g.Post("/scan", ctl.Submit)
	}
	g.Get("/scans/me", ctl.MyHistory)
}

// ScanStaffRoutes: riwayat scan per sesi untuk guru/admin.
func ScanStaffRoutes(r fiber.Router, ctl *scanCtrl.ScanController) {
	r.Get("/attendance/sessions/:id/scans", ctl.SessionHistory)
}
