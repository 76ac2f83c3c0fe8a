package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/cookiverse/cookiverse/internal/dto"
	"github.com/cookiverse/cookiverse/internal/middleware"
	"github.com/cookiverse/cookiverse/internal/models"
	"github.com/cookiverse/cookiverse/internal/services"
)

type RecipeHandler struct {
	recipes *services.RecipeService
	kitchen *services.KitchenService
}

func NewRecipeHandler(recipes *services.RecipeService, kitchen *services.KitchenService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, kitchen: kitchen}
}

// List returns the public feed, filtered by ?q= when given.
func (h *RecipeHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	var (
		recipes []models.Recipe
		err     error
	)
	if q := c.Query("q"); q != "" {
		recipes, err = h.recipes.SearchRecipes(ctx, q)
	} else {
		recipes, err = h.recipes.ListPublicRecipes(ctx)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.decorate(c, recipes))
}

func (h *RecipeHandler) Get(c *fiber.Ctx) error {
	r, err := h.recipes.GetRecipe(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	bookmarked, err := h.recipes.IsBookmarked(c.UserContext(), middleware.CurrentUser(c), r.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewRecipeResponse(*r, bookmarked))
}

func (h *RecipeHandler) Mine(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Please sign in to continue.",
		})
	}
	recipes, err := h.recipes.ListRecipesByAuthor(c.UserContext(), user.UID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.decorate(c, recipes))
}

func (h *RecipeHandler) Create(c *fiber.Ctx) error {
	var in models.RecipeInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	r, err := h.recipes.CreateRecipe(c.UserContext(), middleware.CurrentUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewRecipeResponse(*r, false))
}

func (h *RecipeHandler) Update(c *fiber.Ctx) error {
	var patch models.RecipePatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if patch.Empty() {
		return badRequest(c, "Nothing to update")
	}
	if err := patch.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	r, err := h.recipes.UpdateRecipe(c.UserContext(), middleware.CurrentUser(c), c.Params("id"), patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewRecipeResponse(*r, false))
}

func (h *RecipeHandler) Delete(c *fiber.Ctx) error {
	if err := h.recipes.DeleteRecipe(c.UserContext(), middleware.CurrentUser(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Recipe deleted successfully"})
}

func (h *RecipeHandler) SetBookmark(c *fiber.Ctx) error {
	var req dto.BookmarkRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	id := c.Params("id")
	if err := h.recipes.SetBookmark(c.UserContext(), middleware.CurrentUser(c), id, req.Bookmarked); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.BookmarkResponse{RecipeID: id, Bookmarked: req.Bookmarked})
}

func (h *RecipeHandler) Bookmarks(c *fiber.Ctx) error {
	recipes, err := h.recipes.ListBookmarkedRecipes(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	out := dto.RecipeListResponse{Recipes: make([]dto.RecipeResponse, len(recipes))}
	for i, r := range recipes {
		out.Recipes[i] = dto.NewRecipeResponse(r, true)
	}
	return c.JSON(out)
}

// Generate creates and saves a recipe from a list of ingredients.
func (h *RecipeHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	r, err := h.kitchen.GenerateRecipe(c.UserContext(), middleware.CurrentUser(c), req.Ingredients)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewRecipeResponse(*r, false))
}

func (h *RecipeHandler) Healthify(c *fiber.Ctx) error {
	in, err := h.kitchen.Healthify(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.HealthifyResponse{Recipe: in})
}

func (h *RecipeHandler) MealPlan(c *fiber.Ctx) error {
	plan, err := h.kitchen.MealPlan(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MealPlanResponse{Plan: plan})
}

// decorate attaches the caller's bookmark flags. A failed bookmark lookup
// degrades to unflagged results.
func (h *RecipeHandler) decorate(c *fiber.Ctx, recipes []models.Recipe) dto.RecipeListResponse {
	marked := map[string]bool{}
	if user := middleware.CurrentUser(c); user != nil {
		saved, err := h.recipes.ListBookmarkedRecipes(c.UserContext(), user)
		if err != nil {
			slog.Warn("bookmark flags unavailable", "user_id", user.UID, "error", err)
		}
		for _, r := range saved {
			marked[r.ID] = true
		}
	}

	out := dto.RecipeListResponse{Recipes: make([]dto.RecipeResponse, len(recipes))}
	for i, r := range recipes {
		out.Recipes[i] = dto.NewRecipeResponse(r, marked[r.ID])
	}
	return out
}
