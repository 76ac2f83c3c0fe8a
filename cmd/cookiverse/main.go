// Command cookiverse is the terminal client: share, browse and bookmark
// recipes, and generate new ones through the proxy endpoint.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cookiverse/cookiverse/internal/config"
	"github.com/cookiverse/cookiverse/internal/logging"
)

// cli carries the flags and the lazily opened app for one invocation.
type cli struct {
	cfg     *config.Config
	verbose bool
	mode    string
	timeout time.Duration

	app *app
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "cookiverse",
		Short: "CookiVerse - share, discover and generate recipes",
		Long: `CookiVerse keeps a shared recipe feed in Firestore, or in a local
database when no remote backend is configured or reachable.

The storage mode is chosen once at start-up (STORAGE_MODE=auto|remote|local)
and the signed-in user is remembered between runs.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupText(cmd.ErrOrStderr(), c.verbose)
			if c.mode != "" {
				c.cfg.StorageMode = c.mode
			}
			a, err := openApp(cmd.Context(), c.cfg)
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVar(&c.mode, "mode", "", "Storage mode override: auto, remote or local")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 2*time.Minute, "Operation timeout")

	root.AddCommand(
		newSignInCmd(c),
		newSignOutCmd(c),
		newWhoAmICmd(c),
		newFeedCmd(c),
		newShowCmd(c),
		newMineCmd(c),
		newBookmarksCmd(c),
		newShareCmd(c),
		newUpdateCmd(c),
		newDeleteCmd(c),
		newBookmarkCmd(c, true),
		newBookmarkCmd(c, false),
		newGenerateCmd(c),
		newHealthifyCmd(c),
		newMealPlanCmd(c),
	)
	return root
}

// execute runs one command line and releases the app afterwards.
func execute(ctx context.Context, cfg *config.Config, args []string, out, errOut io.Writer) error {
	c := &cli{cfg: cfg}
	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if c.app != nil {
		if cerr := c.app.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// opContext bounds a single operation by --timeout.
func (c *cli) opContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), c.timeout)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, config.Load(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}
