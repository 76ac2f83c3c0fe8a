package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cookiverse/cookiverse/internal/dto"
	"github.com/cookiverse/cookiverse/internal/services"
)

// TextGenerator is what the proxy needs from the generation service.
type TextGenerator interface {
	Configured() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiHandler serves POST /api/gemini. The request and response bodies
// follow the Gemini generateContent shape whichever upstream answers.
type GeminiHandler struct {
	gen TextGenerator
}

func NewGeminiHandler(gen TextGenerator) *GeminiHandler {
	return &GeminiHandler{gen: gen}
}

func (h *GeminiHandler) Generate(c *fiber.Ctx) error {
	var req dto.GeminiRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.GeminiErrorResponse{
			Error: "Invalid request body", Details: err.Error(),
		})
	}
	prompt := strings.TrimSpace(req.Prompt())
	if prompt == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.GeminiErrorResponse{
			Error: "Prompt text is required",
		})
	}

	if !h.gen.Configured() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.GeminiErrorResponse{
			Error: "Generation API key not configured",
		})
	}

	start := time.Now()
	text, err := h.gen.Generate(c.UserContext(), prompt)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		slog.Error("generation proxy failed",
			"action", "gemini_proxy",
			"request_id", requestID(c),
			"latency_ms", latency,
			"error", err,
		)
		return proxyError(c, err)
	}

	slog.Info("generation proxy succeeded",
		"action", "gemini_proxy",
		"request_id", requestID(c),
		"latency_ms", latency,
		"prompt_chars", len(prompt),
	)
	return c.JSON(dto.NewGeminiResponse(text))
}

func proxyError(c *fiber.Ctx, err error) error {
	var up *services.UpstreamError
	switch {
	case errors.As(err, &up):
		status := up.Status
		if status < 400 || status > 599 {
			status = fiber.StatusBadGateway
		}
		return c.Status(status).JSON(dto.GeminiErrorResponse{
			Error: "Gemini API error", Details: up.Message,
		})
	case errors.Is(err, services.ErrInvalidUpstreamResponse):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.GeminiErrorResponse{
			Error: "Invalid response from Gemini API", Details: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.GeminiErrorResponse{
			Error: "Failed to fetch from Gemini API", Details: err.Error(),
		})
	}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
