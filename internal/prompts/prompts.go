// Package prompts builds the text-generation prompts used by the kitchen
// features and parses the line-oriented answers they ask for.
package prompts

import (
	"fmt"
	"strings"

	"github.com/cookiverse/cookiverse/internal/models"
)

// RecipeFromIngredients asks for a complete recipe built around ingredients.
func RecipeFromIngredients(ingredients []string) string {
	return fmt.Sprintf(`Create a detailed recipe using these ingredients: %s.

Please format your response EXACTLY as follows (including the exact headers and dashes):
TITLE: [Recipe name]
COOK_TIME: [Cooking time in minutes]
TAGS: [3-5 comma-separated tags like healthy, quick, vegetarian]
INGREDIENTS:
- [First ingredient with exact quantity]
- [Second ingredient with exact quantity]
- [Continue for all ingredients]
INSTRUCTIONS:
1. [First step with specific details]
2. [Second step with specific details]
3. [Continue with all steps]

Requirements:
1. Use EXACT quantities for ingredients (e.g., "2 cups", "300g", "3 tablespoons")
2. Include temperature and timing in instructions where needed
3. Make the recipe practical and achievable
4. If only one ingredient is provided, suggest complementary ingredients
5. Include all provided ingredients in the recipe`, strings.Join(ingredients, ", "))
}

// Healthify asks for a lighter rewrite of r.
func Healthify(r *models.Recipe) string {
	ingredients := "Not specified"
	if len(r.Ingredients) > 0 {
		ingredients = strings.Join(r.Ingredients, ", ")
	}
	instructions := "Not specified"
	if len(r.Instructions) > 0 {
		instructions = strings.Join(r.Instructions, " ")
	}

	return fmt.Sprintf(`Please rewrite this recipe to make it healthier (lower calorie, less fat, more nutritious):

Original Recipe:
Title: %s
Ingredients: %s
Instructions: %s

Please format your response as follows:
TITLE: [Healthier recipe name]
COOK_TIME: [Cooking time]
TAGS: [Comma-separated tags including 'healthy']
INGREDIENTS:
- [List each healthier ingredient with quantity]
INSTRUCTIONS:
1. [Step by step instructions for healthier version]

Focus on reducing calories, saturated fats, and adding more vegetables, lean proteins, and whole grains.`, r.Title, ingredients, instructions)
}

// MealPlan asks for a three day plan with three meals a day.
func MealPlan() string {
	return `Create a 3-day meal plan (3 meals per day).

Please format your response as follows:
DAY_1:
BREAKFAST: [Meal name] - [Brief description]
LUNCH: [Meal name] - [Brief description]
DINNER: [Meal name] - [Brief description]

DAY_2:
BREAKFAST: [Meal name] - [Brief description]
LUNCH: [Meal name] - [Brief description]
DINNER: [Meal name] - [Brief description]

DAY_3:
BREAKFAST: [Meal name] - [Brief description]
LUNCH: [Meal name] - [Brief description]
DINNER: [Meal name] - [Brief description]

Make the meals balanced, practical, and use common ingredients.`
}
