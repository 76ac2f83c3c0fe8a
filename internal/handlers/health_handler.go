package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/cookiverse/cookiverse/internal/database"
	"github.com/cookiverse/cookiverse/internal/dto"
)

type HealthHandler struct {
	mode string
	db   *gorm.DB
	gen  TextGenerator
}

func NewHealthHandler(mode string, db *gorm.DB, gen TextGenerator) *HealthHandler {
	return &HealthHandler{mode: mode, db: db, gen: gen}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(h.db); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Mode:      h.mode,
		DB:        dbStatus,
		Generator: h.gen.Configured(),
	})
}
