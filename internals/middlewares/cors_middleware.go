// middlewares/cors.go

package middlewares

import (
	"strings"

	"presensi_backend/internals/configs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

var defaultOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5500",
}

// CorsMiddleware: origin tambahan lewat CORS_ORIGINS (pisah koma), mis. layar QR kelas & app siswa.
func CorsMiddleware() fiber.Handler {
	origins := append([]string{}, defaultOrigins...)
	for _, o := range strings.Split(configs.GetEnv("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ", "),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders:    "X-Request-ID, X-Token-Valid-For",
		AllowCredentials: true,
	})
}
