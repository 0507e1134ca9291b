// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"strings"

	helperAuth "presensi_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool // pakai cookie access_token jika tidak ada Bearer
}

// AuthJWT memverifikasi access token (HS256) lalu mengisi locals yang dibaca helpers/auth.
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret wajib diisi")
	}

	return func(c *fiber.Ctx) error {
		// 1) Ambil token: Authorization: Bearer xxx (atau cookie jika diizinkan)
		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		} else if o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		// 2) Parse + verifikasi algoritma
		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}

		// === HYDRATE LOCALS ===
		if v, ok := claims["roles_global"]; ok {
			c.Locals(helperAuth.LocRolesGlobal, v)
		}
		if r := strClaim(claims, "role"); r != "" {
			c.Locals(helperAuth.LocRole, r)
		}
		if v, ok := claims["is_owner"]; ok {
			switch t := v.(type) {
			case bool:
				c.Locals(helperAuth.LocIsOwner, t)
			case string:
				s := strings.ToLower(strings.TrimSpace(t))
				c.Locals(helperAuth.LocIsOwner, s == "true" || s == "1" || s == "yes")
			}
		}
		if tid := strClaim(claims, "teacher_id"); tid != "" {
			c.Locals(helperAuth.LocTeacherID, tid)
		}
		if sid := strClaim(claims, "student_id"); sid != "" {
			c.Locals(helperAuth.LocStudentID, sid)
		}

		// user_id: id/sub/user_id dalam urutan preferensi
		uid := strClaim(claims, "id")
		if uid == "" {
			uid = strClaim(claims, "sub")
		}
		if uid == "" {
			uid = strClaim(claims, "user_id")
		}
		if uid == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "user_id tidak ditemukan pada token")
		}
		if _, err := uuid.Parse(uid); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "user_id tidak valid")
		}
		c.Locals(helperAuth.LocUserID, uid)

		return c.Next()
	}
}

// util kecil untuk ambil string claim
func strClaim(m jwt.MapClaims, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
