package auth

import (
	"log"

	"presensi_backend/internals/constants"
	helper "presensi_backend/internals/helpers"
	helperAuth "presensi_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
)

// RoleMiddlewareWithCustomError validasi role + custom error message
func RoleMiddlewareWithCustomError(allowedRoles []string, customForbiddenMessage string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if helperAuth.HasAnyRole(c, allowedRoles...) {
			return c.Next()
		}

		log.Printf("[DEBUG] akses ditolak %s %s roles=%v", c.Method(), c.Path(), helperAuth.GetRoles(c))
		if customForbiddenMessage == "" {
			customForbiddenMessage = "Forbidden: you are not authorized to access this resource"
		}
		return helper.JsonError(c, fiber.StatusForbidden, customForbiddenMessage)
	}
}

// Shortcut biar lebih clean pemakaian
func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	return RoleMiddlewareWithCustomError(roles, customMessage)
}

func OnlyStaff(feature string) fiber.Handler {
	return OnlyRoles(constants.RoleErrorStaff(feature), constants.StaffRoles...)
}

func OnlyAdmins(feature string) fiber.Handler {
	return OnlyRoles(constants.RoleErrorAdmin(feature), constants.AdminRoles...)
}
