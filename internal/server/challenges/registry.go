// Package challenges tracks the challenges the server has issued and not yet
// seen answered. Every auth_id resolves to a username at most once and
// only until its deadline.
package challenges

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/zkpauth/internal/common"
	"github.com/dmitrijs2005/zkpauth/internal/logging"
)

const DefaultTTL = 2 * time.Minute

type pending struct {
	username  string
	expiresAt time.Time
}

type Registry struct {
	mu      sync.Mutex
	pending map[string]pending

	ttl    time.Duration
	now    func() time.Time
	logger logging.Logger
}

type Option func(*Registry)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(r *Registry) { r.logger = l.With("module", "challenges") }
}

// NewRegistry returns an empty registry. A non-positive ttl selects
// DefaultTTL.
func NewRegistry(ttl time.Duration, opts ...Option) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	r := &Registry{
		pending: make(map[string]pending),
		ttl:     ttl,
		now:     time.Now,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) TTL() time.Duration {
	return r.ttl
}

// Issue records that authID was handed out for username. Reusing an authID
// replaces the previous entry.
func (r *Registry) Issue(authID, username string) {
	expiresAt := r.now().Add(r.ttl)

	r.mu.Lock()
	r.pending[authID] = pending{username: username, expiresAt: expiresAt}
	r.mu.Unlock()
}

// Consume removes authID and returns the username it was issued for.
// Unknown, already consumed and expired ids all yield common.ErrorNotFound.
func (r *Registry) Consume(authID string) (string, error) {
	now := r.now()

	r.mu.Lock()
	p, ok := r.pending[authID]
	delete(r.pending, authID)
	r.mu.Unlock()

	if !ok {
		return "", fmt.Errorf("auth_id: %w", common.ErrorNotFound)
	}
	if !now.Before(p.expiresAt) {
		return "", fmt.Errorf("auth_id expired: %w", common.ErrorNotFound)
	}
	return p.username, nil
}

// Sweep drops expired entries and reports how many were removed.
func (r *Registry) Sweep() int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, p := range r.pending {
		if !now.Before(p.expiresAt) {
			delete(r.pending, id)
			removed++
		}
	}
	return removed
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Run sweeps every interval until ctx is done. A non-positive interval
// defaults to half the TTL.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = r.ttl / 2
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Debug(ctx, "expired challenges removed", "count", n, "pending", r.Len())
			}
		}
	}
}
