package dashboard

import (
	"fmt"
	"strings"

	"github.com/kantodex/kantodex/internal/api"
	"github.com/kantodex/kantodex/internal/catalog"
)

// listState manages the catalog list: the loaded entries, the shaping
// parameters (search, type filter, sort), and page/cursor position.
type listState struct {
	entries []catalog.Entry
	types   []string

	loading bool
	err     error

	query     string
	typeIdx   int // 0 = all types; i > 0 selects types[i-1]
	sortField catalog.SortField
	sortDesc  bool

	page     int
	pageSize int
	cursor   int // position within the visible page
}

// newListState returns a listState in the loading state.
func newListState(pageSize int) listState {
	return listState{loading: true, pageSize: pageSize}
}

// applyCatalog applies the fetched catalog (or error) to the list state,
// clearing the loading indicator and resetting position.
func (ls listState) applyCatalog(entries []catalog.Entry, types []string, err error) listState {
	ls.loading = false
	if err != nil {
		ls.err = err
		ls.entries = nil
		ls.types = nil
		return ls
	}
	ls.err = nil
	ls.entries = append([]catalog.Entry(nil), entries...)
	ls.types = append([]string(nil), types...)
	ls.page = 0
	ls.cursor = 0
	return ls
}

// typeFilterName returns the active type filter label, or "" for all types.
func (ls listState) typeFilterName() string {
	if ls.typeIdx <= 0 || ls.typeIdx > len(ls.types) {
		return ""
	}
	return ls.types[ls.typeIdx-1]
}

// shaped returns the full entry list after search, type filter, and sort.
func (ls listState) shaped(details func(string) *api.Pokemon) []catalog.Entry {
	out := catalog.Search(ls.entries, ls.query)
	out = catalog.FilterByType(out, ls.typeFilterName(), details)
	return catalog.Sort(out, ls.sortField, ls.sortDesc)
}

// visible returns the entries on the current page of the shaped list.
func (ls listState) visible(details func(string) *api.Pokemon) []catalog.Entry {
	return catalog.Page(ls.shaped(details), ls.page, ls.pageSize)
}

// pageCount returns the page count of the shaped list.
func (ls listState) pageCount(details func(string) *api.Pokemon) int {
	return catalog.PageCount(len(ls.shaped(details)), ls.pageSize)
}

// clamp pulls page and cursor back into range after the shaped list changed.
func (ls listState) clamp(details func(string) *api.Pokemon) listState {
	last := ls.pageCount(details) - 1
	if ls.page > last {
		ls.page = last
	}
	if ls.page < 0 {
		ls.page = 0
	}
	vis := len(ls.visible(details))
	if ls.cursor >= vis {
		ls.cursor = vis - 1
	}
	if ls.cursor < 0 {
		ls.cursor = 0
	}
	return ls
}

// selected returns the entry under the cursor, or false if the page is empty.
func (ls listState) selected(details func(string) *api.Pokemon) (catalog.Entry, bool) {
	vis := ls.visible(details)
	if len(vis) == 0 || ls.cursor < 0 || ls.cursor >= len(vis) {
		return catalog.Entry{}, false
	}
	return vis[ls.cursor], true
}

// moveCursor moves the cursor within the page, wrapping at the edges.
func (ls listState) moveCursor(delta int, details func(string) *api.Pokemon) listState {
	vis := len(ls.visible(details))
	if vis == 0 {
		return ls
	}
	ls.cursor = (ls.cursor + delta + vis) % vis
	return ls
}

// movePage switches pages, wrapping at the edges, and resets the cursor.
func (ls listState) movePage(delta int, details func(string) *api.Pokemon) listState {
	n := ls.pageCount(details)
	if n <= 1 {
		return ls
	}
	ls.page = (ls.page + delta + n) % n
	ls.cursor = 0
	return ls
}

// cycleType advances the type filter: all → types[0] → … → all.
func (ls listState) cycleType(details func(string) *api.Pokemon) listState {
	ls.typeIdx++
	if ls.typeIdx > len(ls.types) {
		ls.typeIdx = 0
	}
	ls.page = 0
	ls.cursor = 0
	return ls.clamp(details)
}

// toggleSortField flips between number and name ordering.
func (ls listState) toggleSortField(details func(string) *api.Pokemon) listState {
	if ls.sortField == catalog.SortByNumber {
		ls.sortField = catalog.SortByName
	} else {
		ls.sortField = catalog.SortByNumber
	}
	return ls.clamp(details)
}

// toggleSortOrder flips ascending/descending.
func (ls listState) toggleSortOrder(details func(string) *api.Pokemon) listState {
	ls.sortDesc = !ls.sortDesc
	return ls.clamp(details)
}

// setQuery applies a new search query and resets position.
func (ls listState) setQuery(q string, details func(string) *api.Pokemon) listState {
	ls.query = q
	ls.page = 0
	ls.cursor = 0
	return ls.clamp(details)
}

// statusLine summarizes the active shaping: match count, filter, sort, page.
func (ls listState) statusLine(details func(string) *api.Pokemon) string {
	parts := []string{fmt.Sprintf("%d entries", len(ls.shaped(details)))}
	if ls.query != "" {
		parts = append(parts, fmt.Sprintf("search %q", ls.query))
	}
	if name := ls.typeFilterName(); name != "" {
		parts = append(parts, "type "+name)
	}
	order := "asc"
	if ls.sortDesc {
		order = "desc"
	}
	parts = append(parts, fmt.Sprintf("sort %s %s", ls.sortField, order))
	parts = append(parts, fmt.Sprintf("page %d/%d", ls.page+1, ls.pageCount(details)))
	return strings.Join(parts, " · ")
}

// View renders the list rows for the current page. spinnerView is the
// current spinner frame (empty when the spinner is inactive); details and
// loadingFn come from the detail cache.
func (ls listState) View(spinnerView string, details func(string) *api.Pokemon, loadingFn func(string) bool) string {
	if ls.loading {
		return fmt.Sprintf("%s Loading catalog...", spinnerView)
	}

	if ls.err != nil {
		return fmt.Sprintf("Error: %s\n\nPress q to quit", ls.err)
	}

	vis := ls.visible(details)
	if len(vis) == 0 {
		if name := ls.typeFilterName(); name != "" {
			return "No resolved entries of type " + name + " yet"
		}
		return "No matching entries"
	}

	var b strings.Builder
	for i, e := range vis {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i == ls.cursor {
			b.WriteString(CursorMarker)
		} else {
			b.WriteString("  ")
		}

		b.WriteString(fmt.Sprintf("#%03d %-12s ", e.Number, e.Name))

		switch p := details(e.Name); {
		case p != nil:
			names := make([]string, len(p.Types))
			for j, ts := range p.Types {
				names[j] = ts.Type.Name
			}
			b.WriteString(TypeBadges(names))
		case loadingFn(e.Name):
			b.WriteString(mutedText.Render(PendingMarker))
		default:
			// Failed or never requested: the cache does not distinguish.
			b.WriteString(mutedText.Render("–"))
		}
	}
	return b.String()
}
