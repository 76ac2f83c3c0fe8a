package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/cookiverse/cookiverse/internal/auth"
	"github.com/cookiverse/cookiverse/internal/dto"
	"github.com/cookiverse/cookiverse/internal/middleware"
	"github.com/cookiverse/cookiverse/internal/services"
)

// AuthHandler exchanges a provider identity for an API access token.
type AuthHandler struct {
	provider auth.Provider
	tokens   *services.TokenService
}

func NewAuthHandler(provider auth.Provider, tokens *services.TokenService) *AuthHandler {
	return &AuthHandler{provider: provider, tokens: tokens}
}

func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	user, err := h.provider.SignIn(c.UserContext(), auth.Credential{IDToken: req.IDToken})
	if err != nil {
		code := auth.CodeOf(err)
		slog.Warn("sign-in rejected", "provider", h.provider.Name(), "code", code, "error", err)
		return c.Status(fiber.StatusUnauthorized).JSON(dto.SignInErrorResponse{
			Error: true, Code: code, Message: auth.SignInMessage(code),
		})
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		slog.Error("failed to issue access token", "user_id", user.UID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(dto.AuthResponse{AccessToken: token, User: user})
}

// SignOut ends the provider session. The client discards its token whether
// or not the provider call succeeds.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	if err := h.provider.SignOut(c.UserContext(), user); err != nil {
		slog.Warn("provider sign-out failed", "provider", h.provider.Name(), "user_id", user.UID, "error", err)
	}
	return c.JSON(dto.MessageResponse{Message: "Signed out successfully"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	return c.JSON(user)
}
