package prompts

import (
	"errors"
	"regexp"
	"strings"

	"github.com/cookiverse/cookiverse/internal/models"
)

// DefaultTitle is the title of a parsed recipe whose answer had no TITLE line.
const DefaultTitle = "Generated Recipe"

var (
	ErrNoIngredients  = errors.New("no ingredients found in the generated recipe")
	ErrNoInstructions = errors.New("no instructions found in the generated recipe")
)

var stepPrefix = regexp.MustCompile(`^\d+\.\s*`)

// ParseRecipe reads an answer in the TITLE/COOK_TIME/TAGS/INGREDIENTS/
// INSTRUCTIONS layout requested by RecipeFromIngredients and Healthify.
func ParseRecipe(answer string) (models.RecipeInput, error) {
	in := models.RecipeInput{
		Title:    DefaultTitle,
		CookTime: models.DefaultCookTime,
		Tags:     []string{},
	}

	section := ""
	for _, line := range strings.Split(answer, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "TITLE:"):
			if title := strings.TrimSpace(strings.TrimPrefix(line, "TITLE:")); title != "" {
				in.Title = title
			}
		case strings.HasPrefix(line, "COOK_TIME:"):
			if cook := strings.TrimSpace(strings.TrimPrefix(line, "COOK_TIME:")); cook != "" {
				in.CookTime = cook
			}
		case strings.HasPrefix(line, "TAGS:"):
			in.Tags = splitList(strings.TrimPrefix(line, "TAGS:"))
			if len(in.Tags) == 0 {
				in.Tags = []string{"Generated"}
			}
		case line == "INGREDIENTS:":
			section = "ingredients"
		case line == "INSTRUCTIONS:":
			section = "instructions"
		case section == "ingredients" && strings.HasPrefix(line, "-"):
			if item := strings.TrimSpace(strings.TrimPrefix(line, "-")); item != "" {
				in.Ingredients = append(in.Ingredients, item)
			}
		case section == "instructions" && stepPrefix.MatchString(line):
			if step := strings.TrimSpace(stepPrefix.ReplaceAllString(line, "")); step != "" {
				in.Instructions = append(in.Instructions, step)
			}
		}
	}

	if len(in.Ingredients) == 0 {
		return in, ErrNoIngredients
	}
	if len(in.Instructions) == 0 {
		return in, ErrNoInstructions
	}
	return in, nil
}

// Meal is one entry of a meal plan, split on the first " - ".
type Meal struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type DayPlan struct {
	Breakfast Meal `json:"breakfast"`
	Lunch     Meal `json:"lunch"`
	Dinner    Meal `json:"dinner"`
}

// Plan is a parsed three day meal plan.
type Plan struct {
	Days [3]DayPlan `json:"days"`
}

// ParseMealPlan reads an answer in the DAY_n/BREAKFAST/LUNCH/DINNER layout
// requested by MealPlan. Missing meals are left blank.
func ParseMealPlan(answer string) Plan {
	var plan Plan
	day := -1
	for _, line := range strings.Split(answer, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.Contains(line, "DAY_1") || strings.Contains(line, "Day 1"):
			day = 0
		case strings.Contains(line, "DAY_2") || strings.Contains(line, "Day 2"):
			day = 1
		case strings.Contains(line, "DAY_3") || strings.Contains(line, "Day 3"):
			day = 2
		case day < 0:
		case strings.HasPrefix(line, "BREAKFAST:"):
			plan.Days[day].Breakfast = parseMeal(strings.TrimPrefix(line, "BREAKFAST:"))
		case strings.HasPrefix(line, "LUNCH:"):
			plan.Days[day].Lunch = parseMeal(strings.TrimPrefix(line, "LUNCH:"))
		case strings.HasPrefix(line, "DINNER:"):
			plan.Days[day].Dinner = parseMeal(strings.TrimPrefix(line, "DINNER:"))
		}
	}
	return plan
}

func parseMeal(text string) Meal {
	text = strings.TrimSpace(text)
	if text == "" {
		return Meal{Title: "Not specified"}
	}
	title, desc, _ := strings.Cut(text, " - ")
	if title == "" {
		title = text
	}
	return Meal{Title: strings.TrimSpace(title), Description: strings.TrimSpace(desc)}
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
