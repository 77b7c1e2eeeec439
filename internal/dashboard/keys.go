package dashboard

import "github.com/charmbracelet/bubbles/key"

// listKeys holds key bindings for list mode.
type listKeys struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Search key.Binding
	Filter key.Binding
	Sort   key.Binding
	Order  key.Binding
	Prev   key.Binding
	Next   key.Binding
	Quit   key.Binding
}

// ShortHelp returns the list mode bindings for the help bar.
func (k listKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Search, k.Filter, k.Sort, k.Quit}
}

// FullHelp returns the list mode bindings grouped for expanded help.
func (k listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Search},
		{k.Filter, k.Sort, k.Order},
		{k.Prev, k.Next, k.Quit},
	}
}

// detailKeys holds key bindings for the detail overlay.
type detailKeys struct {
	Up   key.Binding
	Down key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns the detail mode bindings for the help bar.
func (k detailKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
}

// FullHelp returns the detail mode bindings grouped for expanded help.
func (k detailKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Back, k.Quit},
	}
}

// ListKeyMap returns the key bindings for list mode.
func ListKeyMap() listKeys {
	return listKeys{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "detail"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "type filter"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort field"),
		),
		Order: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "sort order"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h", "["),
			key.WithHelp("←/h", "prev page"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l", "]"),
			key.WithHelp("→/l", "next page"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// DetailKeyMap returns the key bindings for the detail overlay.
func DetailKeyMap() detailKeys {
	return detailKeys{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
