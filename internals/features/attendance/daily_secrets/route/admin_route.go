// file: internals/features/attendance/daily_secrets/route/admin_route.go
package route

import (
	dailyCtrl "presensi_backend/internals/features/attendance/daily_secrets/controller"
	authMiddleware "presensi_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
)

// DailyTokenStaffRoutes: r sudah lewat AuthJWT + guard staff.
func DailyTokenStaffRoutes(r fiber.Router, ctl *dailyCtrl.DailyTokenController) {
	r.Get("/attendance/daily/token", ctl.IssueToken)

	// kelola secret hanya admin/owner
	secrets := r.Group("/attendance/daily-secrets", authMiddleware.OnlyAdmins("secret presensi harian"))
	secrets.Get("/", ctl.ListStatus)
	secrets.Put("/:day", ctl.Upsert)
	secrets.Delete("/:day", ctl.Delete)
}
