package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGenerateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <ingredient>...",
		Short: "Generate and share a recipe from ingredients",
		Long: `Generate a recipe from the ingredients you have and add it to the feed.
Signed-out users' recipes are credited to the AI Chef.`,
		Example: `  cookiverse generate chicken rice "bell pepper"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.opContext(cmd)
			defer cancel()

			r, err := c.app.kitchen.GenerateRecipe(ctx, c.app.session.Current(), args)
			if err != nil {
				return err
			}
			printRecipe(cmd.OutOrStdout(), r, false)
			return nil
		},
	}
}

func newHealthifyCmd(c *cli) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "healthify <recipe-id>",
		Short: "Suggest a healthier version of a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if save {
				if _, err := c.app.user(); err != nil {
					return err
				}
			}
			ctx, cancel := c.opContext(cmd)
			defer cancel()

			in, err := c.app.kitchen.Healthify(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, in.Title)
			printRecipeBody(out, in)

			if !save {
				return nil
			}
			r, err := c.app.recipes.CreateRecipe(ctx, c.app.session.Current(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nShared %q (%s)\n", r.Title, r.ID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Share the healthier version as your own recipe")
	return cmd
}

func newMealPlanCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "mealplan",
		Short: "Generate a three day meal plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.opContext(cmd)
			defer cancel()

			plan, err := c.app.kitchen.MealPlan(ctx)
			if err != nil {
				return err
			}
			printMealPlan(cmd.OutOrStdout(), plan)
			return nil
		},
	}
}
