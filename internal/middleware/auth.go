package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/cookiverse/cookiverse/internal/config"
	"github.com/cookiverse/cookiverse/internal/dto"
	"github.com/cookiverse/cookiverse/internal/models"
	"github.com/cookiverse/cookiverse/internal/services"
)

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtConfig(cfg, nil))
}

// OptionalJWT verifies a bearer token when one is sent and lets anonymous
// requests through.
func OptionalJWT(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtConfig(cfg, func(c *fiber.Ctx) bool {
		return c.Get(fiber.HeaderAuthorization) == ""
	}))
}

func jwtConfig(cfg *config.Config, filter func(*fiber.Ctx) bool) jwtware.Config {
	return jwtware.Config{
		Filter:     filter,
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	}
}

// CurrentUser returns the user carried by the verified token, or nil for an
// anonymous request.
func CurrentUser(c *fiber.Ctx) *models.User {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	return services.UserFromClaims(claims)
}
