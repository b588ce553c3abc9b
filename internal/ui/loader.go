// Package ui holds the page-side controllers shared by every dashboard
// page: the three-state fetch lifecycle, sortable table views, and the
// create/edit/delete mutation flows.
package ui

import (
	"context"
	"sync"
	"time"
)

// LoadState is the lifecycle phase of a Loader.
type LoadState int

const (
	// Loading is the initial state, and the state during a refresh when
	// no prior data exists.
	Loading LoadState = iota
	// Loaded means Data holds the last successful fetch result.
	Loaded
	// Errored means the last fetch failed. Stale data from an earlier
	// success stays available.
	Errored
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// Loader drives one page's data: Loading -> Loaded | Errored,
// re-enterable via Refresh or a poll timer. At most one fetch runs at
// a time; a tick that fires mid-fetch is skipped, not queued. Close is
// advisory: it does not abort an in-flight request, it only stops its
// result from being applied.
type Loader[T any] struct {
	fetch func(context.Context) (T, error)

	mu       sync.Mutex
	state    LoadState
	data     T
	hasData  bool
	err      error
	inflight bool
	closed   bool
}

// NewLoader creates a loader in the Loading state.
func NewLoader[T any](fetch func(context.Context) (T, error)) *Loader[T] {
	return &Loader[T]{fetch: fetch}
}

// Refresh runs one fetch and applies the result. It returns false when
// the call was skipped because another fetch is in flight or the loader
// is closed. Prior data is kept visible during the refresh and after a
// failure.
func (l *Loader[T]) Refresh(ctx context.Context) bool {
	l.mu.Lock()
	if l.inflight || l.closed {
		l.mu.Unlock()
		return false
	}
	l.inflight = true
	if !l.hasData {
		l.state = Loading
	}
	l.mu.Unlock()

	data, err := l.fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.inflight = false
	if l.closed {
		return false
	}
	if err != nil {
		l.state = Errored
		l.err = err
		return true
	}
	l.state = Loaded
	l.data = data
	l.hasData = true
	l.err = nil
	return true
}

// State returns the current lifecycle phase.
func (l *Loader[T]) State() LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Data returns the last successfully fetched value and whether one
// exists. It remains available while Errored so pages can keep stale
// rows on screen.
func (l *Loader[T]) Data() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.data, l.hasData
}

// Err returns the last fetch error, or nil.
func (l *Loader[T]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Apply replaces the loaded data in place. Used by mutation flows that
// patch local state, such as optimistic alert dismissal.
func (l *Loader[T]) Apply(fn func(T) T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || !l.hasData {
		return
	}
	l.data = fn(l.data)
}

// StartPolling refreshes immediately and then on every tick until ctx
// is done or the loader is closed. It blocks, so run it in a goroutine.
func (l *Loader[T]) StartPolling(ctx context.Context, interval time.Duration) {
	l.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.mu.Lock()
			closed := l.closed
			l.mu.Unlock()
			if closed {
				return
			}
			l.Refresh(ctx)
		}
	}
}

// Close marks the loader dead. Any fetch already in flight completes
// but its result is discarded.
func (l *Loader[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}
