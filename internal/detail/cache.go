// Package detail implements the session-scoped detail fetch cache that
// deduplicates in-flight and completed fetches across the UI.
//
// Every key moves through at most one fetch for the lifetime of the
// process: absent keys become pending before any network call is issued,
// then settle as resolved or failed and never move again. A failed key is
// remembered as permanently empty rather than retried, and is observably
// identical to a never-requested key through Details. That conflation is
// deliberate and matches the behavior callers were built against.
package detail

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kantodex/kantodex/internal/api"
)

// Fetcher retrieves the detail payload for one entity key.
// *api.Client satisfies this via its Get method.
type Fetcher interface {
	Get(ctx context.Context, nameOrURL string) (*api.Pokemon, error)
}

// state tracks the lifecycle of one cache entry. Absent keys have no entry.
type state int

const (
	statePending state = iota
	stateResolved
	stateFailed
)

// entry is the per-key record. value is non-nil only when resolved.
type entry struct {
	state state
	value *api.Pokemon
}

// Cache memoizes detail fetches by normalized entity key. It is safe for
// concurrent use; the original design ran on a single-threaded event loop,
// but Go callers may invoke it from any goroutine.
type Cache struct {
	fetcher Fetcher
	notify  func([]string) // fired once per settled batch; may be nil

	mu      sync.Mutex
	entries map[string]*entry
}

// Option configures a Cache.
type Option func(*Cache)

// WithNotify registers a callback fired once after each RequestMany batch
// fully settles, with the normalized keys that were actually fetched.
// It is not called for batches that issue no fetches.
func WithNotify(fn func(keys []string)) Option {
	return func(c *Cache) {
		c.notify = fn
	}
}

// NewCache creates an empty cache backed by the given fetcher.
func NewCache(fetcher Fetcher, opts ...Option) *Cache {
	c := &Cache{
		fetcher: fetcher,
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Normalize canonicalizes an entity key: trimmed and lower-cased.
// A short name and a full resource URL are both valid keys.
func Normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// RequestMany ensures every key in the batch has been fetched at most once.
// Keys that are already pending, resolved, or failed are skipped. Novel keys
// are marked pending synchronously, before this method does any network
// work, so an overlapping call never issues a duplicate fetch.
//
// The method blocks until the whole batch settles; run it from a goroutine
// (or a tea.Cmd) when the caller must not wait. Fetches within a batch run
// concurrently with no ordering guarantee. A failure for one key is
// recorded against that key alone and never aborts its siblings, so
// RequestMany itself has no error to return.
func (c *Cache) RequestMany(ctx context.Context, keys []string) {
	c.mu.Lock()
	novel := make([]string, 0, len(keys))
	for _, raw := range keys {
		key := Normalize(raw)
		if key == "" {
			continue
		}
		if _, ok := c.entries[key]; ok {
			continue
		}
		c.entries[key] = &entry{state: statePending}
		novel = append(novel, key)
	}
	c.mu.Unlock()

	if len(novel) == 0 {
		return
	}

	var g errgroup.Group
	for _, key := range novel {
		g.Go(func() error {
			value, err := c.fetcher.Get(ctx, key)
			c.settle(key, value, err)
			return nil
		})
	}
	// Errors are recorded per key in settle; Wait only synchronizes.
	_ = g.Wait()

	if c.notify != nil {
		c.notify(novel)
	}
}

// settle records the terminal state for a pending key.
func (c *Cache) settle(key string, value *api.Pokemon, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entries[key]
	if e == nil || e.state != statePending {
		// Terminal states never regress.
		return
	}
	if err != nil || value == nil {
		e.state = stateFailed
		e.value = nil
		return
	}
	e.state = stateResolved
	e.value = value
}

// Details returns the resolved payload for key, or nil for keys that are
// absent, still pending, or failed. Callers cannot distinguish "failed"
// from "never requested" through this method; see the package comment.
func (c *Cache) Details(key string) *api.Pokemon {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entries[Normalize(key)]
	if e == nil || e.state != stateResolved {
		return nil
	}
	return e.value
}

// Loading reports whether key currently has a fetch in flight.
func (c *Cache) Loading(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entries[Normalize(key)]
	return e != nil && e.state == statePending
}
