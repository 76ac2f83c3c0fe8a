// Package feed re-fetches the public recipe feed on a fixed interval while a
// feed view is open.
package feed

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cookiverse/cookiverse/internal/auth"
	"github.com/cookiverse/cookiverse/internal/models"
)

// Fetcher loads the feed. It must honor ctx cancellation.
type Fetcher func(ctx context.Context) ([]models.Recipe, error)

// Handler receives each completed fetch. It is not called for fetches that
// were cancelled by Stop.
type Handler func(recipes []models.Recipe, err error)

// Refresher runs Fetcher every interval. A tick that arrives while a fetch
// is still in flight is skipped, so fetches never overlap.
type Refresher struct {
	interval time.Duration
	fetch    Fetcher
	handle   Handler

	inFlight atomic.Bool

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

func NewRefresher(interval time.Duration, fetch Fetcher, handle Handler) *Refresher {
	return &Refresher{interval: interval, fetch: fetch, handle: handle}
}

// Start begins refreshing. It is a no-op if already running.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.stopped = make(chan struct{})
	go r.loop(ctx, r.stopped)
}

// Stop cancels the in-flight fetch, if any, and waits for the refresher to
// wind down. It is safe to call when not running.
func (r *Refresher) Stop() {
	r.mu.Lock()
	cancel, stopped := r.cancel, r.stopped
	r.cancel, r.stopped = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-stopped
}

func (r *Refresher) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

// StopOnSignOut stops the refresher when session goes from authenticated to
// anonymous. The returned function detaches it.
func (r *Refresher) StopOnSignOut(session *auth.Session) func() {
	var wasAuthenticated bool
	return session.Subscribe(func(st auth.State) {
		if wasAuthenticated && !st.Authenticated() {
			slog.Debug("signed out, stopping feed refresh")
			r.Stop()
		}
		wasAuthenticated = st.Authenticated()
	})
}

func (r *Refresher) loop(ctx context.Context, stopped chan struct{}) {
	var wg sync.WaitGroup
	defer func() {
		wg.Wait()
		close(stopped)
	}()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !r.inFlight.CompareAndSwap(false, true) {
				slog.Debug("feed refresh still in flight, skipping tick")
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer r.inFlight.Store(false)

				recipes, err := r.fetch(ctx)
				if ctx.Err() != nil {
					return
				}
				r.handle(recipes, err)
			}()
		}
	}
}
