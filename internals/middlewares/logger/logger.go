package logger

import (
	"presensi_backend/internals/configs"
	"presensi_backend/internals/helpers/dbtime"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// LoggerMiddleware untuk mencatat semua request (query string tidak dicatat, token bisa ada di sana)
func LoggerMiddleware() fiber.Handler {
	return logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   configs.GetEnv("ATTENDANCE_TIMEZONE", dbtime.DefaultTimezone),
		Format:     "[${time}] ${locals:reqid} ${ip} - ${method} ${path} - ${status} - ${latency}\n",
	})
}
