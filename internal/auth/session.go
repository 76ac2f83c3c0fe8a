// Package auth holds the signed-in state of one client and the identity
// providers that move it between anonymous and authenticated.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/cookiverse/cookiverse/internal/models"
)

// State is a snapshot of the session. A nil User means anonymous.
type State struct {
	User *models.User
}

func (s State) Authenticated() bool {
	return s.User != nil
}

// Credential is what a provider needs to establish an identity.
type Credential struct {
	IDToken string
}

// Provider establishes and ends identities.
type Provider interface {
	Name() string
	SignIn(ctx context.Context, cred Credential) (*models.User, error)
	SignOut(ctx context.Context, user *models.User) error
}

// Listener receives state changes. Listeners must not call SignIn, SignOut,
// Restore or Subscribe on the session that notifies them.
type Listener func(State)

// Session is a two-state machine (anonymous, authenticated) with an
// observer registry. New subscribers are called once with the current state,
// then once per transition.
type Session struct {
	provider Provider

	// transition serializes state changes, notifications and subscriptions
	// so every listener sees transitions in order exactly once.
	transition sync.Mutex

	mu        sync.RWMutex
	user      *models.User
	listeners map[uint64]Listener
	nextID    uint64
}

func NewSession(provider Provider) *Session {
	return &Session{
		provider:  provider,
		listeners: make(map[uint64]Listener),
	}
}

// Provider returns the identity provider backing the session.
func (s *Session) Provider() Provider {
	return s.provider
}

// Current returns the signed-in user, or nil.
func (s *Session) Current() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) State() State {
	return State{User: s.Current()}
}

// SignIn asks the provider for an identity. On failure the session keeps its
// state and the error is a *SignInError.
func (s *Session) SignIn(ctx context.Context, cred Credential) (*models.User, error) {
	user, err := s.provider.SignIn(ctx, cred)
	if err != nil {
		code := CodeOf(err)
		slog.WarnContext(ctx, "sign-in failed", "provider", s.provider.Name(), "code", code, "error", err)
		var signInErr *SignInError
		if !errors.As(err, &signInErr) {
			err = NewSignInError(code, err)
		}
		return nil, err
	}

	s.setUser(user)
	slog.InfoContext(ctx, "signed in", "provider", s.provider.Name(), "user_id", user.UID)
	return user, nil
}

// Restore puts a previously signed-in user back into the session without
// contacting the provider.
func (s *Session) Restore(user *models.User) {
	if user != nil {
		s.setUser(user)
	}
}

// SignOut clears the session. Local state is always cleared; a provider
// failure is logged and otherwise ignored.
func (s *Session) SignOut(ctx context.Context) {
	user := s.Current()
	if user == nil {
		return
	}
	s.setUser(nil)

	if err := s.provider.SignOut(ctx, user); err != nil {
		slog.WarnContext(ctx, "provider sign-out failed", "provider", s.provider.Name(), "user_id", user.UID, "error", err)
		return
	}
	slog.InfoContext(ctx, "signed out", "provider", s.provider.Name(), "user_id", user.UID)
}

// Subscribe registers l and calls it immediately with the current state.
// The returned function unsubscribes and may be called any number of times.
func (s *Session) Subscribe(l Listener) func() {
	s.transition.Lock()
	defer s.transition.Unlock()

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	current := State{User: s.user}
	s.mu.Unlock()

	l(current)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// setUser applies a transition and notifies listeners. Replacing a user with
// an identical identity is not a transition.
func (s *Session) setUser(user *models.User) {
	s.transition.Lock()
	defer s.transition.Unlock()

	s.mu.Lock()
	if sameUser(s.user, user) {
		s.user = user
		s.mu.Unlock()
		return
	}
	s.user = user
	ids := make([]uint64, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	slices.Sort(ids)

	state := State{User: user}
	for _, id := range ids {
		s.mu.RLock()
		l, ok := s.listeners[id]
		s.mu.RUnlock()
		if ok {
			l(state)
		}
	}
}

func sameUser(a, b *models.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.UID == b.UID
}
