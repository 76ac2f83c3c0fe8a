package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookiverse/cookiverse/internal/config"
	"github.com/cookiverse/cookiverse/internal/models"
	"github.com/cookiverse/cookiverse/internal/services"
)

var chef = &models.User{UID: "u1", DisplayName: "Alice", Email: "alice@example.com"}

func newTestApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	whoami := func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil {
			return c.JSON(fiber.Map{"uid": ""})
		}
		return c.JSON(fiber.Map{"uid": u.UID, "name": u.DisplayName})
	}
	app.Get("/protected", JWTProtected(cfg), whoami)
	app.Get("/optional", OptionalJWT(cfg), whoami)
	return app
}

func call(t *testing.T, app *fiber.App, path, token string) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := map[string]string{}
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	}
	return resp.StatusCode, body
}

func TestIssuedTokenIdentifiesUser(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	app := newTestApp(cfg)
	token, err := services.NewTokenService(cfg.JWTSecret, time.Hour).Issue(chef)
	require.NoError(t, err)

	for _, path := range []string{"/protected", "/optional"} {
		status, body := call(t, app, path, token)
		assert.Equal(t, http.StatusOK, status, path)
		assert.Equal(t, "u1", body["uid"], path)
		assert.Equal(t, "Alice", body["name"], path)
	}
}

func TestRejectedTokens(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	app := newTestApp(cfg)

	forged, err := services.NewTokenService("other", time.Hour).Issue(chef)
	require.NoError(t, err)
	expired, err := services.NewTokenService(cfg.JWTSecret, -time.Minute).Issue(chef)
	require.NoError(t, err)

	tests := []struct {
		name  string
		path  string
		token string
	}{
		{"missing", "/protected", ""},
		{"wrong secret", "/protected", forged},
		{"expired", "/protected", expired},
		{"garbage", "/protected", "not-a-token"},
		{"wrong secret on optional route", "/optional", forged},
		{"expired on optional route", "/optional", expired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := call(t, app, tt.path, tt.token)
			assert.Equal(t, http.StatusUnauthorized, status)
		})
	}
}

func TestOptionalJWTAllowsAnonymous(t *testing.T) {
	app := newTestApp(&config.Config{JWTSecret: "secret"})
	status, body := call(t, app, "/optional", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["uid"])
}
