// file: internals/features/attendance/sessions/route/teacher_route.go
package route

import (
	sessionCtrl "presensi_backend/internals/features/attendance/sessions/controller"

	"github.com/gofiber/fiber/v2"
)

// AttendanceSessionsStaffRoutes: r sudah lewat AuthJWT + guard staff.
func AttendanceSessionsStaffRoutes(r fiber.Router, ctl *sessionCtrl.AttendanceSessionController) {
	g := r.Group("/attendance/sessions")
	g.Post("/", ctl.Create)
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.GetByID)
	g.Post("/:id/close", ctl.Close)
	g.Get("/:id/token", ctl.Token)
	g.Get("/:id/qr.png", ctl.QR)
}
