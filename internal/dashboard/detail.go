package dashboard

import (
	"fmt"
	"strings"

	"github.com/kantodex/kantodex/internal/api"
	"github.com/kantodex/kantodex/internal/catalog"
)

// maxBaseStat is the upstream ceiling for a single base stat, used to
// scale the stat bars.
const maxBaseStat = 255

// statBarWidth is the character width of a fully filled stat bar.
const statBarWidth = 20

// renderDetail builds the detail overlay content for one creature.
// A nil payload means the fetch is pending, failed, or never happened;
// the cache does not let us distinguish those, so the overlay says only
// that no data is available yet.
func renderDetail(e catalog.Entry, p *api.Pokemon, loading bool) string {
	var b strings.Builder

	title := fmt.Sprintf("#%03d %s", e.Number, e.Name)
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	if p == nil {
		if loading {
			b.WriteString("Loading details...")
		} else {
			b.WriteString("No data available")
		}
		return b.String()
	}

	names := make([]string, len(p.Types))
	for i, ts := range p.Types {
		names[i] = ts.Type.Name
	}
	b.WriteString(TypeBadges(names))
	b.WriteString("\n\n")

	// Upstream units are decimetres and hectograms.
	b.WriteString(fmt.Sprintf("Height: %.1f m    Weight: %.1f kg    Base XP: %d\n\n",
		float64(p.Height)/10, float64(p.Weight)/10, p.BaseExperience))

	b.WriteString(titleStyle.Render("Stats"))
	b.WriteByte('\n')
	for _, st := range p.Stats {
		b.WriteString(fmt.Sprintf("%-16s %3d %s\n", st.Stat.Name, st.BaseStat, statBar(st.BaseStat)))
	}
	b.WriteByte('\n')

	b.WriteString(titleStyle.Render("Abilities"))
	b.WriteByte('\n')
	for _, ab := range p.Abilities {
		line := "  " + ab.Ability.Name
		if ab.IsHidden {
			line += mutedText.Render(" (hidden)")
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	b.WriteString(mutedText.Render(fmt.Sprintf("%d moves", len(p.Moves))))
	b.WriteByte('\n')

	if p.Sprites.FrontDefault != "" {
		b.WriteString(mutedText.Render("sprite: " + p.Sprites.FrontDefault))
		b.WriteByte('\n')
	}

	return b.String()
}

// statBar renders a proportional bar for a base stat value.
func statBar(value int) string {
	if value < 0 {
		value = 0
	}
	if value > maxBaseStat {
		value = maxBaseStat
	}
	filled := value * statBarWidth / maxBaseStat
	return strings.Repeat("█", filled) + mutedText.Render(strings.Repeat("░", statBarWidth-filled))
}
