// Package catalog holds the session-scoped list state and the pure
// list-shaping operations the views share: search, type filtering,
// sorting, and pagination.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kantodex/kantodex/internal/api"
	"github.com/kantodex/kantodex/internal/detail"
)

// Entry is one catalog row: the creature name, its detail resource URL,
// and the catalog number parsed from that URL.
type Entry struct {
	Number int
	Name   string
	URL    string
}

// Loader fetches the catalog list and type labels.
// *api.Client satisfies this.
type Loader interface {
	List(ctx context.Context, limit int) ([]api.PageItem, error)
	Types(ctx context.Context) ([]api.NamedResource, error)
}

// Session is the process-wide catalog state: the fetched entry list, the
// type labels, and the detail cache. It is created once on startup and
// lives until the process exits; there is no teardown.
type Session struct {
	loader Loader
	cache  *detail.Cache

	entries []Entry
	types   []string
}

// NewSession creates an unloaded Session over the given loader and cache.
func NewSession(loader Loader, cache *detail.Cache) *Session {
	return &Session{loader: loader, cache: cache}
}

// Load fetches the catalog list and type labels. It is called once per
// session; the dataset is fixed, so there is no refresh path.
func (s *Session) Load(ctx context.Context, limit int) error {
	items, err := s.loader.List(ctx, limit)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	entries := make([]Entry, len(items))
	for i, item := range items {
		entries[i] = Entry{
			Number: numberFromURL(item.URL),
			Name:   item.Name,
			URL:    item.URL,
		}
	}

	labels, err := s.loader.Types(ctx)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	types := make([]string, len(labels))
	for i, l := range labels {
		types[i] = l.Name
	}

	s.entries = entries
	s.types = types
	return nil
}

// Entries returns the loaded catalog rows.
func (s *Session) Entries() []Entry {
	return s.entries
}

// TypeNames returns the loaded type labels.
func (s *Session) TypeNames() []string {
	return s.types
}

// Cache returns the session's detail cache.
func (s *Session) Cache() *detail.Cache {
	return s.cache
}

// numberFromURL extracts the trailing numeric path segment of a detail
// resource URL ("…/pokemon/25/" → 25), or 0 if none is present.
func numberFromURL(u string) int {
	parts := strings.Split(strings.TrimRight(u, "/"), "/")
	if len(parts) == 0 {
		return 0
	}
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0
	}
	return n
}

// SortField selects the column the catalog is ordered by.
type SortField int

const (
	SortByNumber SortField = iota
	SortByName
)

// String returns the display label for the sort field.
func (f SortField) String() string {
	if f == SortByName {
		return "name"
	}
	return "number"
}

// Search returns the entries whose name contains query, case-insensitively.
// An empty query returns the input unchanged.
func Search(entries []Entry, query string) []Entry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return entries
	}
	var out []Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), query) {
			out = append(out, e)
		}
	}
	return out
}

// FilterByType returns the entries whose resolved details carry the given
// type label. Entries whose details are not yet resolved are excluded;
// they appear once their fetch settles and the view reshapes. An empty
// typeName returns the input unchanged.
func FilterByType(entries []Entry, typeName string, details func(key string) *api.Pokemon) []Entry {
	typeName = strings.ToLower(strings.TrimSpace(typeName))
	if typeName == "" {
		return entries
	}
	var out []Entry
	for _, e := range entries {
		p := details(e.Name)
		if p == nil {
			continue
		}
		for _, ts := range p.Types {
			if ts.Type.Name == typeName {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// Sort returns a copy of entries ordered by the given field and direction.
func Sort(entries []Entry, field SortField, descending bool) []Entry {
	out := append([]Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if descending {
			a, b = b, a
		}
		if field == SortByName {
			return a.Name < b.Name
		}
		return a.Number < b.Number
	})
	return out
}

// PageCount returns the number of pages needed for n entries at the given
// page size. An empty catalog still has one (empty) page.
func PageCount(n, pageSize int) int {
	if pageSize <= 0 || n <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// Page returns the entries on the given zero-based page. Out-of-range
// pages return an empty slice.
func Page(entries []Entry, page, pageSize int) []Entry {
	if pageSize <= 0 || page < 0 {
		return nil
	}
	start := page * pageSize
	if start >= len(entries) {
		return nil
	}
	end := start + pageSize
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end]
}
