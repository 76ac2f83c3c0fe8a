package dto

import (
	"encoding/json"

	"github.com/cookiverse/cookiverse/internal/models"
	"github.com/cookiverse/cookiverse/internal/prompts"
)

// RecipeResponse is a recipe plus the caller's bookmark flag. It has its own
// codec because models.Recipe's would otherwise be promoted and drop the flag.
type RecipeResponse struct {
	models.Recipe
	Bookmarked bool `json:"bookmarked"`
}

func NewRecipeResponse(r models.Recipe, bookmarked bool) RecipeResponse {
	return RecipeResponse{Recipe: r, Bookmarked: bookmarked}
}

func (r RecipeResponse) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(r.Recipe)
	if err != nil {
		return nil, err
	}
	flag, _ := json.Marshal(r.Bookmarked)
	out := append(b[:len(b)-1], `,"bookmarked":`...)
	out = append(out, flag...)
	return append(out, '}'), nil
}

func (r *RecipeResponse) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &r.Recipe); err != nil {
		return err
	}
	var flag struct {
		Bookmarked bool `json:"bookmarked"`
	}
	if err := json.Unmarshal(data, &flag); err != nil {
		return err
	}
	r.Bookmarked = flag.Bookmarked
	delete(r.Recipe.Extra, "bookmarked")
	return nil
}

type RecipeListResponse struct {
	Recipes []RecipeResponse `json:"recipes"`
}

type BookmarkRequest struct {
	Bookmarked bool `json:"bookmarked"`
}

type BookmarkResponse struct {
	RecipeID   string `json:"recipeId"`
	Bookmarked bool   `json:"bookmarked"`
}

type GenerateRequest struct {
	Ingredients []string `json:"ingredients"`
}

type HealthifyResponse struct {
	Recipe models.RecipeInput `json:"recipe"`
}

type MealPlanResponse struct {
	Plan prompts.Plan `json:"plan"`
}
