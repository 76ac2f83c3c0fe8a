package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/cookiverse/cookiverse/internal/models"
)

// SessionKey is the storage key holding the signed-in user between runs.
const SessionKey = "cookiverse-session"

// KeyValue is the storage the session is saved to.
type KeyValue interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItems(ctx context.Context, items map[string]string) error
	RemoveItem(ctx context.Context, key string) error
}

// savedSession is the stored form of a signed-in session.
type savedSession struct {
	Provider string       `json:"provider"`
	User     *models.User `json:"user"`
}

// Persist restores a previously saved user into s and keeps kv in step with
// every later transition. The returned function stops the syncing.
//
// A user saved by a different provider is discarded, so a demo identity
// never carries over into a remote run.
func Persist(ctx context.Context, s *Session, kv KeyValue) (func(), error) {
	provider := s.Provider().Name()
	raw, ok, err := kv.GetItem(ctx, SessionKey)
	if err != nil {
		return nil, fmt.Errorf("reading saved session: %w", err)
	}
	if ok {
		var saved savedSession
		err := json.Unmarshal([]byte(raw), &saved)
		switch {
		case err != nil || saved.User == nil || saved.User.UID == "":
			slog.Warn("discarding unreadable saved session", "error", err)
			discard(ctx, kv)
		case saved.Provider != provider:
			slog.Info("discarding session saved by another provider", "saved", saved.Provider, "provider", provider)
			discard(ctx, kv)
		default:
			s.Restore(saved.User)
		}
	}

	return s.Subscribe(func(st State) {
		if err := save(context.WithoutCancel(ctx), kv, provider, st.User); err != nil {
			slog.Error("failed to save session", "error", err)
		}
	}), nil
}

func discard(ctx context.Context, kv KeyValue) {
	if err := kv.RemoveItem(ctx, SessionKey); err != nil {
		slog.Warn("failed to remove saved session", "error", err)
	}
}

func save(ctx context.Context, kv KeyValue, provider string, u *models.User) error {
	if u == nil {
		return kv.RemoveItem(ctx, SessionKey)
	}
	b, err := json.Marshal(savedSession{Provider: provider, User: u})
	if err != nil {
		return err
	}
	return kv.SetItems(ctx, map[string]string{SessionKey: string(b)})
}
