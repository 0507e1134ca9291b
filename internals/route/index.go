// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"presensi_backend/internals/configs"
	authMiddleware "presensi_backend/internals/middlewares/auth"
	routeDetails "presensi_backend/internals/route/details"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, svc *routeDetails.AttendanceServices, cfg configs.AttendanceConfig) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, db)

	jwt := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	})

	// ===================== PRIVATE (USER) =====================
	log.Println("[INFO] Setting up PRIVATE (user) group...")
	user := app.Group("/api/u", jwt)

	// ===================== STAFF (teacher/admin/owner) =====================
	log.Println("[INFO] Setting up STAFF group (Auth + RoleCheck)...")
	staff := app.Group("/api/a", jwt, authMiddleware.OnlyStaff("presensi"))

	// ===================== MOUNT ROUTES =====================
	routeDetails.AttendanceUserRoutes(user, svc, cfg)
	routeDetails.AttendanceStaffRoutes(staff, svc)
}
