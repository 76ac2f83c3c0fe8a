package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/cookiverse/cookiverse/internal/models"
	"github.com/cookiverse/cookiverse/internal/prompts"
)

// TextGenerator is the part of GenerationService the kitchen needs.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// KitchenService runs the generated-content features: recipes from
// ingredients, healthier rewrites and meal plans.
type KitchenService struct {
	gen     TextGenerator
	recipes *RecipeService
}

func NewKitchenService(gen TextGenerator, recipes *RecipeService) *KitchenService {
	return &KitchenService{gen: gen, recipes: recipes}
}

// GenerateRecipe creates a recipe from ingredients and saves it. Without a
// user the recipe is attributed to the AI Chef.
func (s *KitchenService) GenerateRecipe(ctx context.Context, user *models.User, ingredients []string) (*models.Recipe, error) {
	ingredients = trimAll(ingredients)
	if len(ingredients) == 0 {
		return nil, newError(ErrValidation, "Please enter at least one ingredient.", nil)
	}

	in, err := s.generateRecipe(ctx, prompts.RecipeFromIngredients(ingredients))
	if err != nil {
		return nil, err
	}
	if in.Title == prompts.DefaultTitle {
		return nil, newError(ErrBackendUnavailable, "Failed to generate a valid recipe. Please try again.", nil)
	}
	return s.recipes.CreateGeneratedRecipe(ctx, user, in)
}

// Healthify returns a lighter version of a stored recipe. The result is not
// saved.
func (s *KitchenService) Healthify(ctx context.Context, recipeID string) (models.RecipeInput, error) {
	r, err := s.recipes.GetRecipe(ctx, recipeID)
	if err != nil {
		return models.RecipeInput{}, err
	}

	in, err := s.generateRecipe(ctx, prompts.Healthify(r))
	if err != nil {
		return models.RecipeInput{}, newError(ErrBackendUnavailable, "Failed to create healthier version. Please try again.", err)
	}
	in.Title += " (Healthier Version)"
	return in, nil
}

// MealPlan generates a three day meal plan.
func (s *KitchenService) MealPlan(ctx context.Context) (prompts.Plan, error) {
	answer, err := s.gen.Generate(ctx, prompts.MealPlan())
	if err != nil {
		slog.ErrorContext(ctx, "meal plan generation failed", "action", "meal_plan", "error", err)
		return prompts.Plan{}, newError(ErrBackendUnavailable, "Failed to generate meal plan. Please try again.", err)
	}
	return prompts.ParseMealPlan(answer), nil
}

func (s *KitchenService) generateRecipe(ctx context.Context, prompt string) (models.RecipeInput, error) {
	answer, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		slog.ErrorContext(ctx, "recipe generation failed", "action", "generate_recipe", "error", err)
		return models.RecipeInput{}, newError(ErrBackendUnavailable, msgGenerateAgain, err)
	}

	in, err := prompts.ParseRecipe(answer)
	if errors.Is(err, prompts.ErrNoIngredients) || errors.Is(err, prompts.ErrNoInstructions) {
		slog.WarnContext(ctx, "generated recipe incomplete", "action", "generate_recipe", "error", err)
		return models.RecipeInput{}, newError(ErrBackendUnavailable, "Generated recipe is incomplete. Please try again.", err)
	}
	return in, err
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
