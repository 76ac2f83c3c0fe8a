package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cookiverse/cookiverse/internal/models"
	"github.com/cookiverse/cookiverse/internal/prompts"
)

func printRecipeLine(w io.Writer, r *models.Recipe, bookmarked bool) {
	mark := " "
	if bookmarked {
		mark = "*"
	}
	fmt.Fprintf(w, "%s %-24s %s  (%s, by %s)\n", mark, r.ID, r.Title, r.CookTime, r.AuthorName)
}

func printRecipeList(w io.Writer, recipes []models.Recipe, bookmarked map[string]bool, empty string) {
	if len(recipes) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	for i := range recipes {
		printRecipeLine(w, &recipes[i], bookmarked[recipes[i].ID])
	}
}

func printRecipe(w io.Writer, r *models.Recipe, bookmarked bool) {
	fmt.Fprintf(w, "%s\n", r.Title)
	fmt.Fprintf(w, "id: %s\n", r.ID)
	fmt.Fprintf(w, "by %s, %s\n", r.AuthorName, r.CreatedAt.Local().Format("Jan 2, 2006"))
	printRecipeBody(w, models.RecipeInput{
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		CookTime:     r.CookTime,
		Tags:         r.Tags,
	})
	if bookmarked {
		fmt.Fprintln(w, "bookmarked")
	}
}

func printRecipeBody(w io.Writer, in models.RecipeInput) {
	fmt.Fprintf(w, "cook time: %s\n", in.CookTime)
	if len(in.Tags) > 0 {
		fmt.Fprintf(w, "tags: %s\n", strings.Join(in.Tags, ", "))
	}
	fmt.Fprintln(w, "\ningredients:")
	for _, ing := range in.Ingredients {
		fmt.Fprintf(w, "  - %s\n", ing)
	}
	fmt.Fprintln(w, "\ninstructions:")
	for i, step := range in.Instructions {
		fmt.Fprintf(w, "  %d. %s\n", i+1, step)
	}
}

func printMealPlan(w io.Writer, plan prompts.Plan) {
	for i, day := range plan.Days {
		fmt.Fprintf(w, "Day %d\n", i+1)
		printMeal(w, "Breakfast", day.Breakfast)
		printMeal(w, "Lunch", day.Lunch)
		printMeal(w, "Dinner", day.Dinner)
	}
}

func printMeal(w io.Writer, label string, m prompts.Meal) {
	if m.Description != "" {
		fmt.Fprintf(w, "  %-9s %s - %s\n", label+":", m.Title, m.Description)
		return
	}
	fmt.Fprintf(w, "  %-9s %s\n", label+":", m.Title)
}
