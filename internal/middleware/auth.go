package middleware

import (
	"workshop-management-backend/internal/config"
	"workshop-management-backend/internal/services"
	"workshop-management-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(cfg.JWTSecret),
		ContextKey:   "user",
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			user := c.Locals("user").(*jwt.Token)
			claims := user.Claims.(jwt.MapClaims)
			c.Locals("user_id", claims["user_id"])
			c.Locals("user_role", claims["role"])
			return c.Next()
		},
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	return utils.Error(c, "Unauthorized", fiber.StatusUnauthorized)
}

// RequirePermission gates a route by its registered name through the
// role allow list. Named routes keep the permission table stable across
// path changes.
func RequirePermission(perms *services.RolePermissionService, routeName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := GetUserIDFromContext(c)
		if err != nil {
			return utils.Error(c, "Unauthorized", fiber.StatusUnauthorized)
		}

		allowed, err := perms.Can(userID, routeName)
		if err != nil {
			return utils.Error(c, "Failed to check permissions", fiber.StatusInternalServerError)
		}
		if !allowed {
			return utils.Error(c, "Access denied", fiber.StatusForbidden)
		}
		return c.Next()
	}
}

func AdminOnly(c *fiber.Ctx) error {
	userRole, ok := c.Locals("user_role").(string)
	if !ok || userRole != "admin" {
		return utils.Error(c, "Admin access required", fiber.StatusForbidden)
	}
	return c.Next()
}

func GetUserIDFromContext(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "User not authenticated")
	}
	return userID, nil
}
