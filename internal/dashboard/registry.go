package dashboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"storefront-web/internal/logging"
)

// Registry keeps one Dashboard per session id.
type Registry struct {
	opts   Options
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	boards map[string]*entry
}

type entry struct {
	board    *Dashboard
	lastSeen time.Time
}

// NewRegistry builds an empty registry whose dashboards use opts.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		opts:   opts,
		logger: logging.OrNop(opts.Logger),
		now:    time.Now,
		boards: make(map[string]*entry),
	}
}

// Open returns the session's dashboard, creating it on first use. A new
// dashboard starts on the orders panel with its load in flight.
func (r *Registry) Open(ctx context.Context, sessionID string, session Session, api API) *Dashboard {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.boards[sessionID]; ok {
		e.lastSeen = r.now()
		return e.board
	}
	d := New(ctx, session, api, r.opts)
	r.boards[sessionID] = &entry{board: d, lastSeen: r.now()}
	r.logger.Debug("dashboard opened", zap.String("session_id", sessionID))
	return d
}

// Get returns the session's dashboard if one is open.
func (r *Registry) Get(sessionID string) (*Dashboard, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.boards[sessionID]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.board, true
}

// Drop forgets the session's dashboard.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.boards, sessionID)
}

// Sweep drops dashboards untouched for longer than maxIdle and returns
// how many were dropped.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.boards {
		if e.lastSeen.Before(cutoff) {
			delete(r.boards, id)
			n++
		}
	}
	return n
}

// Len is the number of open dashboards.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.boards)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval, maxIdle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(maxIdle); n > 0 {
				r.logger.Info("idle dashboards dropped", zap.Int("count", n))
			}
		}
	}
}
