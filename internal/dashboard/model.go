package dashboard

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kantodex/kantodex/internal/api"
	"github.com/kantodex/kantodex/internal/catalog"
)

// helpBarHeight is the number of lines reserved for the help bar at the bottom.
const helpBarHeight = 1

// borderChrome is the number of lines consumed by top + bottom borders.
const borderChrome = 2

// defaultPageSize is used when no page size option is given.
const defaultPageSize = 20

// Model is the root Bubble Tea model for the catalog dashboard.
type Model struct {
	loader CatalogLoader
	cache  DetailCache

	mode   Mode
	width  int
	height int

	list        listState
	searching   bool
	detailEntry catalog.Entry

	searchInput textinput.Model
	spinner     spinner.Model
	paginator   paginator.Model
	viewport    viewport.Model
	help        help.Model
}

// Option configures a Model.
type Option func(*Model)

// WithCatalogLoader sets the catalog loader dependency.
func WithCatalogLoader(l CatalogLoader) Option {
	return func(m *Model) {
		m.loader = l
	}
}

// WithDetailCache sets the detail cache dependency.
func WithDetailCache(c DetailCache) Option {
	return func(m *Model) {
		m.cache = c
	}
}

// WithPageSize overrides the list page size.
func WithPageSize(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.list.pageSize = n
		}
	}
}

// NewModel creates a dashboard Model in list mode, loading state.
func NewModel(opts ...Option) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	ti := textinput.New()
	ti.Placeholder = "name..."
	ti.Prompt = "/ "
	ti.CharLimit = 40

	pg := paginator.New()
	pg.Type = paginator.Dots

	m := Model{
		mode:        ModeList,
		list:        newListState(defaultPageSize),
		searchInput: ti,
		spinner:     s,
		paginator:   pg,
		viewport:    viewport.New(0, 0),
		help:        help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts the spinner and kicks off the catalog load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadCatalog(m.loader))
}

// loadCatalog returns a tea.Cmd that loads the catalog asynchronously
// and wraps the result in a CatalogMsg.
func loadCatalog(loader CatalogLoader) tea.Cmd {
	return func() tea.Msg {
		if loader == nil {
			return CatalogMsg{Err: fmt.Errorf("dashboard: no catalog loader configured")}
		}
		entries, types, err := loader.Load(context.Background())
		return CatalogMsg{Entries: entries, Types: types, Err: err}
	}
}

// details is the cache lookup passed to list shaping. Nil-safe for tests
// constructed without a cache.
func (m Model) details(key string) *api.Pokemon {
	if m.cache == nil {
		return nil
	}
	return m.cache.Details(key)
}

// loadingKey reports whether a key's fetch is in flight.
func (m Model) loadingKey(key string) bool {
	if m.cache == nil {
		return false
	}
	return m.cache.Loading(key)
}

// requestVisible returns a tea.Cmd that requests details for the rows on
// the current page. The cache deduplicates, so re-issuing on every
// navigation is harmless; one BatchSettledMsg comes back per batch.
func (m Model) requestVisible() tea.Cmd {
	return m.requestKeys(entryNames(m.list.visible(m.details)))
}

// requestKeys returns a tea.Cmd that runs one RequestMany batch.
func (m Model) requestKeys(keys []string) tea.Cmd {
	if m.cache == nil || len(keys) == 0 {
		return nil
	}
	cache := m.cache
	return func() tea.Msg {
		// An issued fetch always runs to completion; there is no
		// cancellation path, so the background context is fine here.
		cache.RequestMany(context.Background(), keys)
		return BatchSettledMsg{Keys: keys}
	}
}

// entryNames extracts the names from a slice of entries.
func entryNames(entries []catalog.Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = max(msg.Width-borderChrome-2, 0)
		m.viewport.Height = max(msg.Height-borderChrome-helpBarHeight-1, 1)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case CatalogMsg:
		m.list = m.list.applyCatalog(msg.Entries, msg.Types, msg.Err)
		return m, m.requestVisible()

	case BatchSettledMsg:
		// Settled fetches can change a type-filtered view; re-clamp and,
		// if the overlay is open, refresh its content.
		m.list = m.list.clamp(m.details)
		if m.mode == ModeDetail {
			m.syncDetailViewport()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey routes key messages by mode and search focus.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.mode == ModeDetail {
		return m.handleDetailKey(msg)
	}
	return m.handleListKey(msg)
}

// handleSearchKey updates the search input and applies the query live.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.list = m.list.setQuery("", m.details)
		return m, m.requestVisible()
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.list = m.list.setQuery(m.searchInput.Value(), m.details)
	return m, tea.Batch(cmd, m.requestVisible())
}

// handleDetailKey handles the detail overlay: scroll and dismiss.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.mode = ModeList
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleListKey handles list mode navigation and shaping keys.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.loading {
		if s := msg.String(); s == "q" || s == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "/":
		m.searching = true
		return m, m.searchInput.Focus()

	case "up", "k":
		m.list = m.list.moveCursor(-1, m.details)
		return m, nil

	case "down", "j":
		m.list = m.list.moveCursor(1, m.details)
		return m, nil

	case "left", "h", "[":
		m.list = m.list.movePage(-1, m.details)
		return m, m.requestVisible()

	case "right", "l", "]":
		m.list = m.list.movePage(1, m.details)
		return m, m.requestVisible()

	case "t":
		m.list = m.list.cycleType(m.details)
		return m, m.requestVisible()

	case "s":
		m.list = m.list.toggleSortField(m.details)
		return m, m.requestVisible()

	case "o":
		m.list = m.list.toggleSortOrder(m.details)
		return m, m.requestVisible()

	case "enter":
		e, ok := m.list.selected(m.details)
		if !ok {
			return m, nil
		}
		m.mode = ModeDetail
		m.detailEntry = e
		m.syncDetailViewport()
		// Usually already resolved from the list batch; a fresh request
		// is deduplicated away if so.
		return m, m.requestKeys([]string{e.Name})
	}

	return m, nil
}

// syncDetailViewport refreshes the overlay content for the selected entry.
func (m *Model) syncDetailViewport() {
	e := m.detailEntry
	m.viewport.SetContent(renderDetail(e, m.details(e.Name), m.loadingKey(e.Name)))
}

// View renders the current mode.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	if m.mode == ModeDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

// viewList renders the catalog list with header, paginator, and help bar.
func (m Model) viewList() string {
	title := titleStyle.Render("kantodex") + statusStyle.Render(" · first-generation catalog")

	search := ""
	if m.searching {
		search = m.searchInput.View()
	} else if m.list.query != "" {
		search = mutedText.Render("/" + m.list.query)
	}

	status := ""
	pages := ""
	if !m.list.loading && m.list.err == nil {
		status = statusStyle.Render(m.list.statusLine(m.details))
		pg := m.paginator
		pg.SetTotalPages(m.list.pageCount(m.details))
		pg.Page = m.list.page
		pages = pg.View()
	}

	body := m.list.View(m.spinner.View(), m.details, m.loadingKey)
	helpView := m.help.View(HelpBindings(m.mode))

	return lipgloss.JoinVertical(lipgloss.Left, title, search, status, body, pages, helpView)
}

// viewDetail renders the detail overlay in a bordered box.
func (m Model) viewDetail() string {
	box := overlayBorder.
		Width(max(m.width-borderChrome, 0)).
		Render(m.viewport.View())
	helpView := m.help.View(HelpBindings(m.mode))
	return lipgloss.JoinVertical(lipgloss.Left, box, helpView)
}
