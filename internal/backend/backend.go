// Package backend selects the storage mode once at start-up and wires the
// matching store and identity provider.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	"github.com/cookiverse/cookiverse/internal/auth"
	"github.com/cookiverse/cookiverse/internal/config"
	"github.com/cookiverse/cookiverse/internal/database"
	"github.com/cookiverse/cookiverse/internal/store"
)

type Mode string

const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

// Backend is the storage and identity wiring for one process. Mode never
// changes after Open returns.
type Backend struct {
	Mode     Mode
	Store    store.Store
	Local    *store.Local
	Remote   *store.Remote
	Provider auth.Provider
	DB       *gorm.DB

	firestore *firestore.Client
}

// Cache returns the local store to use as a fallback for remote reads, or
// nil in local mode.
func (b *Backend) Cache() *store.Local {
	if b.Mode == ModeRemote {
		return b.Local
	}
	return nil
}

// Open connects the local database, then tries the remote backend according
// to cfg.StorageMode. In auto mode a remote failure falls back to local.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	b := &Backend{DB: db}

	switch cfg.StorageMode {
	case config.StorageModeLocal:
		b.useLocal(db)
	case config.StorageModeRemote:
		if err := b.openRemote(ctx, cfg, db); err != nil {
			_ = database.Close(db)
			return nil, err
		}
	case config.StorageModeAuto, "":
		if !cfg.RemoteConfigured() {
			slog.Info("remote backend not configured, using local storage")
			b.useLocal(db)
			break
		}
		if err := b.openRemote(ctx, cfg, db); err != nil {
			slog.Warn("remote backend unavailable, using local storage", "error", err)
			b.useLocal(db)
		}
	default:
		_ = database.Close(db)
		return nil, fmt.Errorf("unknown STORAGE_MODE %q", cfg.StorageMode)
	}

	slog.Info("storage backend selected", "mode", string(b.Mode), "provider", b.Provider.Name())
	return b, nil
}

func (b *Backend) useLocal(db *gorm.DB) {
	b.Mode = ModeLocal
	b.Local = store.NewLocal(store.NewDBArea(db))
	b.Store = b.Local
	b.Provider = auth.NewDemoProvider()
}

func (b *Backend) openRemote(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if !cfg.RemoteConfigured() {
		return errors.New("FIREBASE_PROJECT_ID is required for remote storage")
	}

	var opts []option.ClientOption
	if cfg.FirebaseCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
	if err != nil {
		return fmt.Errorf("create firebase app: %w", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		return fmt.Errorf("create firebase auth client: %w", err)
	}
	fs, err := app.Firestore(ctx)
	if err != nil {
		return fmt.Errorf("create firestore client: %w", err)
	}

	remote := store.NewRemote(fs)
	if err := pingWithRetry(ctx, cfg, remote); err != nil {
		_ = fs.Close()
		return err
	}

	b.Mode = ModeRemote
	b.Remote = remote
	b.Store = remote
	b.firestore = fs
	// The feed cache has its own keys in the shared area and never seeds.
	b.Local = store.NewLocal(store.NewDBArea(db), store.WithNamespace(store.CacheNamespace), store.WithoutSeed())
	b.Provider = auth.NewFirebaseProvider(authClient, remote)
	return nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

func pingWithRetry(ctx context.Context, cfg *config.Config, p pinger) error {
	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		pctx, cancel := context.WithTimeout(ctx, cfg.RemoteInitTimeout)
		defer cancel()
		if err := p.Ping(pctx); err != nil {
			slog.Warn("remote backend ping failed", "attempt", attempt, "error", err)
			return struct{}{}, err
		}
		return struct{}{}, nil
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(cfg.RemoteInitAttempts)),
	)
	if err != nil {
		return fmt.Errorf("remote backend unreachable after %d attempts: %w", attempt, err)
	}
	return nil
}

// Close releases the remote client and the database concurrently.
func (b *Backend) Close() error {
	var g errgroup.Group
	if b.firestore != nil {
		g.Go(b.firestore.Close)
	}
	if b.DB != nil {
		g.Go(func() error { return database.Close(b.DB) })
	}
	return g.Wait()
}
