package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cookiverse/cookiverse/internal/feed"
	"github.com/cookiverse/cookiverse/internal/models"
)

func newFeedCmd(c *cli) *cobra.Command {
	var (
		search   string
		watch    bool
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "List public recipes, newest first",
		Long: `List public recipes, newest first. Bookmarked recipes are marked with *.

With --watch the feed is fetched again every --interval until interrupted.
A refresh still in flight when the next one is due is not doubled up.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ctx, cancel := c.opContext(cmd)
			recipes, marked, err := c.loadFeed(ctx, search)
			cancel()
			if err != nil {
				return err
			}
			printRecipeList(out, recipes, marked, "No recipes yet. Share the first one with 'cookiverse share'.")

			if !watch {
				return nil
			}
			return c.watchFeed(cmd.Context(), out, search, interval)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by title, tag or ingredient")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep refreshing the feed")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Refresh interval for --watch (default FEED_REFRESH_INTERVAL)")
	return cmd
}

// loadFeed fetches the feed and the caller's bookmarks concurrently.
func (c *cli) loadFeed(ctx context.Context, search string) ([]models.Recipe, map[string]bool, error) {
	var (
		recipes []models.Recipe
		saved   []models.Recipe
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if search != "" {
			recipes, err = c.app.recipes.SearchRecipes(gctx, search)
		} else {
			recipes, err = c.app.recipes.ListPublicRecipes(gctx)
		}
		return err
	})
	if user := c.app.session.Current(); user != nil {
		g.Go(func() error {
			var err error
			saved, err = c.app.recipes.ListBookmarkedRecipes(gctx, user)
			if err != nil {
				slog.Warn("bookmark flags unavailable", "user_id", user.UID, "error", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	marked := make(map[string]bool, len(saved))
	for _, r := range saved {
		marked[r.ID] = true
	}
	return recipes, marked, nil
}

func (c *cli) watchFeed(ctx context.Context, out io.Writer, search string, interval time.Duration) error {
	if interval <= 0 {
		interval = c.cfg.FeedRefreshInterval
	}

	r := feed.NewRefresher(interval,
		func(ctx context.Context) ([]models.Recipe, error) {
			recipes, _, err := c.loadFeed(ctx, search)
			return recipes, err
		},
		func(recipes []models.Recipe, err error) {
			if err != nil {
				fmt.Fprintf(out, "refresh failed: %v\n", err)
				return
			}
			fmt.Fprintf(out, "\n-- %s --\n", time.Now().Format("15:04:05"))
			printRecipeList(out, recipes, nil, "No recipes yet.")
		})

	stopOnSignOut := r.StopOnSignOut(c.app.session)
	defer stopOnSignOut()

	r.Start(ctx)
	defer r.Stop()

	<-ctx.Done()
	return nil
}

func newShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <recipe-id>",
		Short: "Show one recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.opContext(cmd)
			defer cancel()

			r, err := c.app.recipes.GetRecipe(ctx, args[0])
			if err != nil {
				return err
			}
			bookmarked, err := c.app.recipes.IsBookmarked(ctx, c.app.session.Current(), r.ID)
			if err != nil {
				return err
			}
			printRecipe(cmd.OutOrStdout(), r, bookmarked)
			return nil
		},
	}
}

func newMineCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List the recipes you shared",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.app.user()
			if err != nil {
				return err
			}
			ctx, cancel := c.opContext(cmd)
			defer cancel()

			recipes, err := c.app.recipes.ListRecipesByAuthor(ctx, user.UID)
			if err != nil {
				return err
			}
			printRecipeList(cmd.OutOrStdout(), recipes, nil, "You have not shared any recipes yet.")
			return nil
		},
	}
}

func newBookmarksCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "bookmarks",
		Short: "List your bookmarked recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.opContext(cmd)
			defer cancel()

			recipes, err := c.app.recipes.ListBookmarkedRecipes(ctx, c.app.session.Current())
			if err != nil {
				return err
			}
			marked := make(map[string]bool, len(recipes))
			for _, r := range recipes {
				marked[r.ID] = true
			}
			printRecipeList(cmd.OutOrStdout(), recipes, marked, "No bookmarked recipes yet.")
			return nil
		},
	}
}

func newShareCmd(c *cli) *cobra.Command {
	var in models.RecipeInput
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Share a new recipe",
		Example: `  cookiverse share --title "Tomato Soup" \
    --ingredient "2 tomatoes" --ingredient "1 onion" \
    --step Boil --step Blend --cook-time "25 minutes" --tag soup`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.app.user()
			if err != nil {
				return err
			}
			in = in.Normalize()
			if err := in.Validate(); err != nil {
				return err
			}

			ctx, cancel := c.opContext(cmd)
			defer cancel()

			r, err := c.app.recipes.CreateRecipe(ctx, user, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Shared %q (%s)\n", r.Title, r.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "Recipe title")
	cmd.Flags().StringArrayVar(&in.Ingredients, "ingredient", nil, "Ingredient (repeatable)")
	cmd.Flags().StringArrayVar(&in.Instructions, "step", nil, "Instruction step (repeatable)")
	cmd.Flags().StringVar(&in.CookTime, "cook-time", "", "Cook time, e.g. \"30 minutes\"")
	cmd.Flags().StringArrayVar(&in.Tags, "tag", nil, "Tag (repeatable)")
	return cmd
}

func newUpdateCmd(c *cli) *cobra.Command {
	var (
		title, cookTime          string
		ingredients, steps, tags []string
	)
	cmd := &cobra.Command{
		Use:   "update <recipe-id>",
		Short: "Change a recipe you shared",
		Long:  `Change a recipe you shared. Only the flags you pass are changed; list flags replace the whole list.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var patch models.RecipePatch
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("ingredient") {
				patch.Ingredients = &ingredients
			}
			if flags.Changed("step") {
				patch.Instructions = &steps
			}
			if flags.Changed("cook-time") {
				patch.CookTime = &cookTime
			}
			if flags.Changed("tag") {
				patch.Tags = &tags
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to update, pass at least one field flag")
			}
			if err := patch.Validate(); err != nil {
				return err
			}

			ctx, cancel := c.opContext(cmd)
			defer cancel()

			r, err := c.app.recipes.UpdateRecipe(ctx, c.app.session.Current(), args[0], patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %q\n", r.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringArrayVar(&ingredients, "ingredient", nil, "Ingredient (repeatable)")
	cmd.Flags().StringArrayVar(&steps, "step", nil, "Instruction step (repeatable)")
	cmd.Flags().StringVar(&cookTime, "cook-time", "", "New cook time")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Tag (repeatable)")
	return cmd
}

func newDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <recipe-id>",
		Short: "Delete a recipe you shared, with its bookmarks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.opContext(cmd)
			defer cancel()

			if err := c.app.recipes.DeleteRecipe(ctx, c.app.session.Current(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Recipe deleted")
			return nil
		},
	}
}

func newBookmarkCmd(c *cli, bookmarked bool) *cobra.Command {
	use, short, done := "bookmark", "Bookmark a recipe", "Bookmarked"
	if !bookmarked {
		use, short, done = "unbookmark", "Remove a bookmark", "Bookmark removed"
	}
	return &cobra.Command{
		Use:   use + " <recipe-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.opContext(cmd)
			defer cancel()

			if err := c.app.recipes.SetBookmark(ctx, c.app.session.Current(), args[0], bookmarked); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), done)
			return nil
		},
	}
}
