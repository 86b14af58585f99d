// Package feed accumulates paginated TMDB listings with "show more" semantics.
//
// A Feed never advances on its own: each LoadNext fetches exactly one page,
// appends it, and records whether more pages exist. Only one request per feed
// is in flight at a time; overlapping calls are dropped.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lepinkainen/cinefeed/internal/tmdb"
)

// ErrClosed is returned by operations on a closed Feed.
var ErrClosed = errors.New("feed: closed")

// PageSource fetches one page of a listing. Category, discover and landing
// feeds differ only in the PageSource they are given.
type PageSource func(ctx context.Context, page int) (tmdb.Page, error)

// State is a snapshot of a feed.
type State struct {
	Items   []tmdb.MediaItem `json:"items"`
	Page    int              `json:"page"` // next page to request
	HasMore bool             `json:"has_more"`
	Loading bool             `json:"loading"`
	Err     string           `json:"error,omitempty"`
	Started bool             `json:"started"`
}

// Feed is the per-view accumulator for one listing identity.
type Feed struct {
	mu         sync.Mutex
	key        string
	source     PageSource
	state      State
	generation uint64
	closed     bool
	cancel     context.CancelFunc

	dedup  bool
	seen   map[int]struct{}
	logger *slog.Logger
}

// Option configures a Feed.
type Option func(*Feed)

// WithDedup drops items whose id already appeared on an earlier page.
func WithDedup() Option {
	return func(f *Feed) {
		f.dedup = true
	}
}

// WithLogger sets the logger used for discarded responses and load failures.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Feed) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates an idle feed for the listing identified by key.
func New(key string, source PageSource, opts ...Option) *Feed {
	f := &Feed{
		key:    key,
		source: source,
		state:  initialState(),
		seen:   make(map[int]struct{}),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func initialState() State {
	return State{Page: 1, HasMore: true}
}

// Key returns the current listing identity.
func (f *Feed) Key() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.key
}

// State returns a snapshot of the feed. The returned Items slice is a copy.
func (f *Feed) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}

func (f *Feed) snapshot() State {
	s := f.state
	s.Items = append([]tmdb.MediaItem(nil), f.state.Items...)
	return s
}

// Start performs the first load when the feed has never been started.
// Later calls return the current snapshot.
func (f *Feed) Start(ctx context.Context) (State, error) {
	f.mu.Lock()
	started := f.state.Started
	f.mu.Unlock()

	if started {
		return f.State(), nil
	}
	return f.LoadNext(ctx)
}

// LoadNext fetches the next page and appends it.
//
// It is a no-op returning the current snapshot while a request is in flight
// or once a completed load reported no further pages. On failure the items are
// left untouched, State.Err carries the message, and the next call retries the
// same page.
func (f *Feed) LoadNext(ctx context.Context) (State, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return State{}, ErrClosed
	}
	if f.state.Loading || !f.state.HasMore {
		s := f.snapshot()
		f.mu.Unlock()
		return s, nil
	}

	page := f.state.Page
	gen := f.generation
	source := f.source
	key := f.key

	f.state.Loading = true
	f.state.Started = true
	f.state.Err = ""

	reqCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.mu.Unlock()

	result, err := source(reqCtx, page)
	cancel()

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		f.logger.Debug("Discarding response for closed feed", "feed", key, "page", page)
		return State{}, ErrClosed
	}
	if gen != f.generation {
		f.logger.Debug("Discarding stale feed response", "feed", key, "page", page, "current", f.key)
		return f.snapshot(), nil
	}

	f.cancel = nil
	f.state.Loading = false

	if err != nil {
		f.state.Err = err.Error()
		f.logger.Warn("Feed page load failed", "feed", key, "page", page, "error", err)
		return f.snapshot(), fmt.Errorf("feed %s: load page %d: %w", key, page, err)
	}

	f.appendItems(result.Results)

	current := result.Page
	if current <= 0 {
		current = page
	}
	f.state.HasMore = current < result.TotalPages
	f.state.Page = page + 1

	f.logger.Debug("Feed page loaded", "feed", key, "page", page, "items", len(f.state.Items), "has_more", f.state.HasMore)
	return f.snapshot(), nil
}

func (f *Feed) appendItems(items []tmdb.MediaItem) {
	if !f.dedup {
		f.state.Items = append(f.state.Items, items...)
		return
	}
	for _, item := range items {
		if _, dup := f.seen[item.ID]; dup {
			continue
		}
		f.seen[item.ID] = struct{}{}
		f.state.Items = append(f.state.Items, item)
	}
}

// Reset switches the feed to a new listing identity, clearing accumulated
// items. It returns false, leaving the feed untouched, when key is unchanged.
// A response still in flight for the previous identity is discarded.
func (f *Feed) Reset(key string, source PageSource) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || key == f.key {
		return false
	}

	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.generation++
	f.key = key
	f.source = source
	f.state = initialState()
	f.seen = make(map[int]struct{})
	return true
}

// Close marks the feed dead. In-flight responses are discarded and their
// request context is cancelled.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}
