// file: internals/route/details/attendance_routes.go
package details

import (
	"log"

	"presensi_backend/internals/configs"
	dailyCtrl "presensi_backend/internals/features/attendance/daily_secrets/controller"
	dailyRepo "presensi_backend/internals/features/attendance/daily_secrets/repository"
	dailyRoute "presensi_backend/internals/features/attendance/daily_secrets/route"
	dailySvc "presensi_backend/internals/features/attendance/daily_secrets/service"
	scanCtrl "presensi_backend/internals/features/attendance/scans/controller"
	scanRepo "presensi_backend/internals/features/attendance/scans/repository"
	scanRoute "presensi_backend/internals/features/attendance/scans/route"
	scanSvc "presensi_backend/internals/features/attendance/scans/service"
	sessionCtrl "presensi_backend/internals/features/attendance/sessions/controller"
	sessionRepo "presensi_backend/internals/features/attendance/sessions/repository"
	sessionRoute "presensi_backend/internals/features/attendance/sessions/route"
	sessionSvc "presensi_backend/internals/features/attendance/sessions/service"
	"presensi_backend/internals/middlewares"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AttendanceServices: satu set service presensi yang dibagi route & scheduler.
type AttendanceServices struct {
	Sessions *sessionSvc.SessionService
	Daily    *dailySvc.DailyTokenService
	Scans    *scanSvc.ScanService

	DailyEnv   *dailySvc.EnvSource
	DailyStore *dailyRepo.DailySecretRepository
}

func NewAttendanceServices(db *gorm.DB, cfg configs.AttendanceConfig) *AttendanceServices {
	sessions := sessionSvc.NewSessionService(sessionRepo.NewAttendanceSessionRepository(db), cfg)

	// urutan resolusi secret harian: env dulu, lalu tabel settings
	env := dailySvc.NewEnvSource()
	store := dailyRepo.NewDailySecretRepository(db)
	daily := dailySvc.NewDailyTokenService(dailySvc.NewResolver(env, &dailySvc.SettingsSource{Store: store}), cfg.Location)

	scans := scanSvc.NewScanService(
		sessions,
		daily,
		scanRepo.NewScanRecordRepository(db),
		scanRepo.NewStudentDirectory(db),
	)

	return &AttendanceServices{
		Sessions:   sessions,
		Daily:      daily,
		Scans:      scans,
		DailyEnv:   env,
		DailyStore: store,
	}
}

// AttendanceStaffRoutes: /api/a (AuthJWT + teacher/admin/owner)
func AttendanceStaffRoutes(staff fiber.Router, svc *AttendanceServices) {
	log.Println("[INFO] Mounting attendance staff routes...")
	sessionRoute.AttendanceSessionsStaffRoutes(staff, sessionCtrl.NewAttendanceSessionController(svc.Sessions))
	scanRoute.ScanStaffRoutes(staff, scanCtrl.NewScanController(svc.Scans))
	dailyRoute.DailyTokenStaffRoutes(staff, dailyCtrl.NewDailyTokenController(svc.Daily, svc.DailyStore, svc.DailyEnv))
}

// AttendanceUserRoutes: /api/u (AuthJWT, subject dari claim student_id)
func AttendanceUserRoutes(user fiber.Router, svc *AttendanceServices, cfg configs.AttendanceConfig) {
	log.Println("[INFO] Mounting attendance user routes...")
	scanRoute.ScanStudentRoutes(user, scanCtrl.NewScanController(svc.Scans), middlewares.ScanRateLimiter(cfg, nil))
}
