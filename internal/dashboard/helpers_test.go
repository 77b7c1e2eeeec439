package dashboard

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kantodex/kantodex/internal/api"
	"github.com/kantodex/kantodex/internal/catalog"
	"github.com/kantodex/kantodex/internal/detail"
)

// stripANSI removes ANSI escape sequences from a string.
func stripANSI(s string) string {
	var out []byte
	i := 0
	for i < len(s) {
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] < 'A' || s[j] > 'Z') && (s[j] < 'a' || s[j] > 'z') {
				j++
			}
			if j < len(s) {
				j++
			}
			i = j
		} else {
			out = append(out, s[i])
			i++
		}
	}
	return string(out)
}

// containsPlainText checks if s contains sub after stripping ANSI escapes.
func containsPlainText(s, sub string) bool {
	return strings.Contains(stripANSI(s), sub)
}

// execBatch executes a tea.Cmd, handling both single commands and batch
// commands. It returns all resulting messages. Spinner ticks are skipped
// to avoid infinite recursion.
func execBatch(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			if c != nil {
				result := c()
				// Skip spinner ticks to avoid recursion.
				if _, isTick := result.(spinner.TickMsg); !isTick {
					msgs = append(msgs, result)
				}
			}
		}
		return msgs
	}
	return []tea.Msg{msg}
}

// keyMsg builds a tea.KeyMsg for a key name or single rune.
func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// --- Fixtures ---

// sampleEntries is a five-row catalog slice used across dashboard tests.
func sampleEntries() []catalog.Entry {
	return []catalog.Entry{
		{Number: 1, Name: "bulbasaur", URL: "https://pokeapi.co/api/v2/pokemon/1/"},
		{Number: 4, Name: "charmander", URL: "https://pokeapi.co/api/v2/pokemon/4/"},
		{Number: 7, Name: "squirtle", URL: "https://pokeapi.co/api/v2/pokemon/7/"},
		{Number: 25, Name: "pikachu", URL: "https://pokeapi.co/api/v2/pokemon/25/"},
		{Number: 26, Name: "raichu", URL: "https://pokeapi.co/api/v2/pokemon/26/"},
	}
}

func sampleTypes() []string {
	return []string{"grass", "fire", "water", "electric"}
}

// samplePayloads maps entry names to detail payloads; squirtle is left
// out so tests can exercise the failed/absent path.
func samplePayloads() map[string]*api.Pokemon {
	mk := func(id int, name, typ string) *api.Pokemon {
		return &api.Pokemon{
			ID: id, Name: name, Height: 7, Weight: 69,
			Types: []api.TypeSlot{{Slot: 1, Type: api.NamedResource{Name: typ}}},
			Stats: []api.StatSlot{{BaseStat: 45, Stat: api.NamedResource{Name: "hp"}}},
		}
	}
	return map[string]*api.Pokemon{
		"bulbasaur":  mk(1, "bulbasaur", "grass"),
		"charmander": mk(4, "charmander", "fire"),
		"pikachu":    mk(25, "pikachu", "electric"),
		"raichu":     mk(26, "raichu", "electric"),
	}
}

// sampleHiddenAbility returns a hidden ability slot for detail tests.
func sampleHiddenAbility() api.AbilitySlot {
	return api.AbilitySlot{IsHidden: true, Slot: 3, Ability: api.NamedResource{Name: "lightning-rod"}}
}

// stubLoader implements CatalogLoader.
type stubLoader struct {
	entries []catalog.Entry
	types   []string
	err     error
}

func (s *stubLoader) Load(ctx context.Context) ([]catalog.Entry, []string, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.entries, s.types, nil
}

// stubFetcher implements detail.Fetcher over samplePayloads.
type stubFetcher struct {
	payloads map[string]*api.Pokemon
}

func (s *stubFetcher) Get(ctx context.Context, key string) (*api.Pokemon, error) {
	if p := s.payloads[key]; p != nil {
		return p, nil
	}
	return nil, errors.New("not found")
}

// newTestCache builds a real detail cache over the sample payloads.
func newTestCache() *detail.Cache {
	return detail.NewCache(&stubFetcher{payloads: samplePayloads()})
}

// detailsFromPayloads adapts samplePayloads to the list shaping callback,
// as if every sample entry had already resolved.
func detailsFromPayloads(payloads map[string]*api.Pokemon) func(string) *api.Pokemon {
	return func(key string) *api.Pokemon {
		return payloads[detail.Normalize(key)]
	}
}

// noDetails is a shaping callback where nothing has resolved.
func noDetails(string) *api.Pokemon { return nil }

// notLoading is a loading callback where nothing is in flight.
func notLoading(string) bool { return false }
