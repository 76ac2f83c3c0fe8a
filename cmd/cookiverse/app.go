package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cookiverse/cookiverse/internal/auth"
	"github.com/cookiverse/cookiverse/internal/backend"
	"github.com/cookiverse/cookiverse/internal/config"
	"github.com/cookiverse/cookiverse/internal/generation"
	"github.com/cookiverse/cookiverse/internal/models"
	"github.com/cookiverse/cookiverse/internal/services"
	"github.com/cookiverse/cookiverse/internal/store"
)

// app is the process-wide context every command works through: one storage
// backend, one session and the services over them.
type app struct {
	cfg     *config.Config
	backend *backend.Backend
	session *auth.Session
	recipes *services.RecipeService
	kitchen *services.KitchenService

	stopPersist func()
}

func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	b, err := backend.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	session := auth.NewSession(b.Provider)
	stopPersist, err := auth.Persist(ctx, session, store.NewDBArea(b.DB))
	if err != nil {
		_ = b.Close()
		return nil, err
	}

	var opts []services.RecipeServiceOption
	if cache := b.Cache(); cache != nil {
		opts = append(opts, services.WithCache(cache))
	}
	recipes := services.NewRecipeService(b.Store, opts...)
	gen := generation.NewClient(cfg.GeminiProxyURL, cfg.AITimeout)

	slog.Debug("cookiverse ready", "mode", string(b.Mode), "signed_in", session.Current() != nil)
	return &app{
		cfg:         cfg,
		backend:     b,
		session:     session,
		recipes:     recipes,
		kitchen:     services.NewKitchenService(gen, recipes),
		stopPersist: stopPersist,
	}, nil
}

func (a *app) Close() error {
	a.stopPersist()
	return a.backend.Close()
}

// user returns the signed-in user or an error asking to sign in.
func (a *app) user() (*models.User, error) {
	u := a.session.Current()
	if u == nil {
		return nil, errNotSignedIn
	}
	return u, nil
}

var errNotSignedIn = errors.New("not signed in, run 'cookiverse signin' first")
