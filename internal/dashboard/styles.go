package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// CursorMarker is the prefix shown on the selected list row.
const CursorMarker = "▸ "

// PendingMarker is shown in place of type badges while a row's detail
// fetch is still in flight.
const PendingMarker = "⋯"

// typeColors maps type labels to terminal colors, roughly matching the
// conventional palette for each type.
var typeColors = map[string]lipgloss.AdaptiveColor{
	"normal":   {Light: "240", Dark: "250"},
	"fire":     {Light: "166", Dark: "208"},
	"water":    {Light: "4", Dark: "39"},
	"grass":    {Light: "2", Dark: "40"},
	"electric": {Light: "3", Dark: "226"},
	"ice":      {Light: "6", Dark: "51"},
	"fighting": {Light: "1", Dark: "160"},
	"poison":   {Light: "5", Dark: "129"},
	"ground":   {Light: "94", Dark: "178"},
	"flying":   {Light: "60", Dark: "111"},
	"psychic":  {Light: "162", Dark: "206"},
	"bug":      {Light: "64", Dark: "112"},
	"rock":     {Light: "137", Dark: "137"},
	"ghost":    {Light: "54", Dark: "99"},
	"dragon":   {Light: "57", Dark: "63"},
	"dark":     {Light: "235", Dark: "246"},
	"steel":    {Light: "66", Dark: "103"},
	"fairy":    {Light: "13", Dark: "212"},
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})

	mutedText = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})

	overlayBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})
)

// TypeBadge returns the type label styled in its conventional color.
// Unknown labels fall back to muted gray.
func TypeBadge(name string) string {
	color, ok := typeColors[strings.ToLower(name)]
	if !ok {
		color = lipgloss.AdaptiveColor{Light: "240", Dark: "245"}
	}
	return lipgloss.NewStyle().Foreground(color).Render(name)
}

// TypeBadges renders a space-joined badge row for a creature's types.
func TypeBadges(names []string) string {
	badges := make([]string, len(names))
	for i, n := range names {
		badges[i] = TypeBadge(n)
	}
	return strings.Join(badges, " ")
}
