package middlewares

import (
	"strings"
	"time"

	"presensi_backend/internals/configs"
	helper "presensi_backend/internals/helpers"
	helperAuth "presensi_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// ScanPath: endpoint scan siswa, dibatasi ScanRateLimiter (per siswa), bukan limiter global.
const ScanPath = "/api/u/attendance/scan"

// Global limiter: untuk semua endpoint biasa. Satu kelas scan dari NAT yang sama,
// jadi endpoint scan dilewati di sini.
func GlobalRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next:       isScanRequest,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, "❌ Terlalu banyak permintaan. Silakan coba lagi nanti.")
		},
	})
}

// ScanRateLimiter: per identitas pemanggil (student_id → user_id → IP), bukan per IP saja,
// karena satu kelas biasanya scan dari wifi yang sama.
// storage nil → memory bawaan fiber; isi dengan fiber.Storage bersama kalau jalan multi-instance.
func ScanRateLimiter(cfg configs.AttendanceConfig, storage fiber.Storage) fiber.Handler {
	limit := cfg.ScanRateMax
	if limit <= 0 {
		limit = 10
	}
	window := cfg.ScanRateWindow
	if window <= 0 {
		window = time.Minute
	}
	return limiter.New(limiter.Config{
		Max:          limit,
		Expiration:   window,
		Storage:      storage,
		KeyGenerator: scanLimiterKey,
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, "❌ Terlalu banyak percobaan scan. Tunggu sebentar lalu coba lagi.")
		},
	})
}

func scanLimiterKey(c *fiber.Ctx) string {
	if id, err := helperAuth.GetStudentIDFromToken(c); err == nil {
		return "scan:s:" + id.String()
	}
	if id, err := helperAuth.GetUserIDFromToken(c); err == nil {
		return "scan:u:" + id.String()
	}
	return "scan:ip:" + c.IP()
}

func isScanRequest(c *fiber.Ctx) bool {
	return c.Method() == fiber.MethodPost && strings.TrimRight(c.Path(), "/") == ScanPath
}
