// Package dashboard implements the interactive catalog TUI: a pageable
// creature list with search, type filter, and sort, plus a detail overlay
// for the selected creature.
package dashboard

import (
	"context"

	"github.com/kantodex/kantodex/internal/api"
	"github.com/kantodex/kantodex/internal/catalog"
)

// Mode represents the current dashboard view mode.
type Mode int

const (
	ModeList   Mode = iota // Browsing the catalog list.
	ModeDetail             // Detail overlay for the selected creature.
)

// --- Consumer-side interfaces ---

// CatalogLoader fetches the catalog entries and type labels once per session.
type CatalogLoader interface {
	Load(ctx context.Context) (entries []catalog.Entry, types []string, err error)
}

// DetailCache is the slice of the detail fetch cache the dashboard consumes.
type DetailCache interface {
	RequestMany(ctx context.Context, keys []string)
	Details(key string) *api.Pokemon
	Loading(key string) bool
}

// --- tea.Msg types ---

// CatalogMsg carries the result of a CatalogLoader.Load() call.
type CatalogMsg struct {
	Entries []catalog.Entry
	Types   []string
	Err     error
}

// BatchSettledMsg signals that a RequestMany batch has fully settled.
// Its only purpose is to trigger a re-render; per-key progressive reveal
// is not supported by the cache's batch-granular notification.
type BatchSettledMsg struct {
	Keys []string
}
