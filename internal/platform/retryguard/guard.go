// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package retryguard remembers mutating requests that failed on a transient
backing-store error, so that a resubmission of the same form is answered with
"your original request is being retried" instead of a second failure notice.

# Scope

The guard only decides which message the client sees. It never replays or
deduplicates the underlying write.

# Lifecycle

A [Guard] is created once in main, started with the server context and
stopped during shutdown. The fingerprint map and the sweep goroutine share a
single mutex; the critical section covers map access only.
*/
package retryguard

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Outcome is the result of observing a fingerprint.
type Outcome int

const (
	// Recorded means the fingerprint was new and is now tracked.
	Recorded Outcome = iota + 1

	// AlreadyRetrying means the fingerprint was already tracked; nothing changed.
	AlreadyRetrying
)

func (o Outcome) String() string {
	switch o {
	case Recorded:
		return "recorded"
	case AlreadyRetrying:
		return "already_retrying"
	default:
		return "unknown"
	}
}

// Defaults mirror the retention used by the web frontend's resubmit window.
const (
	DefaultRetention     = time.Hour
	DefaultSweepInterval = time.Hour
)

// Options configures a [Guard]. Zero values fall back to the defaults.
type Options struct {
	Retention     time.Duration
	SweepInterval time.Duration
	Now           func() time.Time
	Logger        *slog.Logger
}

// Guard is a time-bounded set of failed request fingerprints.
type Guard struct {
	mu      sync.Mutex
	entries map[string]time.Time

	retention time.Duration
	interval  time.Duration
	now       func() time.Time
	logger    *slog.Logger

	lifecycle sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
}

// New constructs a stopped [Guard].
func New(opts Options) *Guard {
	if opts.Retention <= 0 {
		opts.Retention = DefaultRetention
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = DefaultSweepInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Guard{
		entries:   make(map[string]time.Time),
		retention: opts.Retention,
		interval:  opts.SweepInterval,
		now:       opts.Now,
		logger:    opts.Logger,
	}
}

// # Lifecycle

// Start launches the background sweep. Calling Start on a running guard is a no-op.
// The sweep stops when ctx is cancelled or [Guard.Stop] is called.
func (g *Guard) Start(ctx context.Context) {
	g.lifecycle.Lock()
	defer g.lifecycle.Unlock()

	if g.cancel != nil {
		return
	}

	sweepCtx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.done = make(chan struct{})

	go g.run(sweepCtx, g.done)

	g.logger.Info("retry_guard_started",
		slog.Duration("retention", g.retention),
		slog.Duration("sweep_interval", g.interval),
	)
}

// Stop cancels the sweep and waits for it to exit. Safe to call more than once.
func (g *Guard) Stop() {
	g.lifecycle.Lock()
	defer g.lifecycle.Unlock()

	if g.cancel == nil {
		return
	}

	g.cancel()
	<-g.done
	g.cancel = nil
	g.done = nil

	g.logger.Info("retry_guard_stopped")
}

func (g *Guard) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if evicted := g.Sweep(); evicted > 0 {
				g.logger.Info("retry_guard_swept", slog.Int("evicted", evicted), slog.Int("remaining", g.Len()))
			}
		case <-ctx.Done():
			return
		}
	}
}

// # Operations

// Observe records fp if it is unknown. A known fingerprint is left untouched.
func (g *Guard) Observe(fingerprint string) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, found := g.entries[fingerprint]; found {
		return AlreadyRetrying
	}

	g.entries[fingerprint] = g.now()
	return Recorded
}

// Seen reports whether fp is currently tracked.
func (g *Guard) Seen(fingerprint string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, found := g.entries[fingerprint]
	return found
}

// Sweep evicts entries older than the retention window and returns how many were removed.
func (g *Guard) Sweep() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	cutoff := g.now().Add(-g.retention)
	evicted := 0

	for fingerprint, firstSeen := range g.entries {
		if firstSeen.Before(cutoff) {
			delete(g.entries, fingerprint)
			evicted++
		}
	}

	return evicted
}

// Len returns the number of tracked fingerprints.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}
