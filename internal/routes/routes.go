package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/cookiverse/cookiverse/internal/config"
	"github.com/cookiverse/cookiverse/internal/handlers"
	"github.com/cookiverse/cookiverse/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	recipeHandler *handlers.RecipeHandler,
	geminiHandler *handlers.GeminiHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/signin", authHandler.SignIn)
	auth.Post("/signout", middleware.JWTProtected(cfg), authHandler.SignOut)
	auth.Get("/me", middleware.JWTProtected(cfg), authHandler.Me)

	// Generation: stricter limit, upstream calls are slow and metered
	generate := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	api.Post("/gemini", generate, geminiHandler.Generate)

	optional := middleware.OptionalJWT(cfg)
	protected := middleware.JWTProtected(cfg)

	recipes := api.Group("/recipes")
	recipes.Get("/", optional, recipeHandler.List)
	recipes.Get("/mine", protected, recipeHandler.Mine)
	recipes.Post("/", protected, recipeHandler.Create)
	recipes.Post("/generate", generate, optional, recipeHandler.Generate)
	recipes.Get("/:id", optional, recipeHandler.Get)
	recipes.Patch("/:id", protected, recipeHandler.Update)
	recipes.Delete("/:id", protected, recipeHandler.Delete)
	recipes.Put("/:id/bookmark", protected, recipeHandler.SetBookmark)
	recipes.Post("/:id/healthify", generate, recipeHandler.Healthify)

	api.Get("/bookmarks", protected, recipeHandler.Bookmarks)
	api.Post("/mealplan", generate, recipeHandler.MealPlan)
}
