package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kantodex/kantodex/internal/api"
	"github.com/kantodex/kantodex/internal/catalog"
	"github.com/kantodex/kantodex/internal/detail"
)

// stubFetcher implements detail.Fetcher with canned payloads.
type stubFetcher struct {
	payloads map[string]*api.Pokemon
}

func (s *stubFetcher) Get(ctx context.Context, key string) (*api.Pokemon, error) {
	if p := s.payloads[key]; p != nil {
		return p, nil
	}
	return nil, api.ErrNotFound
}

// stubLoader implements catalog.Loader with fixed items.
type stubLoader struct {
	items []api.PageItem
	types []api.NamedResource
}

func (s *stubLoader) List(ctx context.Context, limit int) ([]api.PageItem, error) {
	return s.items, nil
}

func (s *stubLoader) Types(ctx context.Context) ([]api.NamedResource, error) {
	return s.types, nil
}

func testPayloads() map[string]*api.Pokemon {
	return map[string]*api.Pokemon{
		"pikachu": {
			ID: 25, Name: "pikachu", Height: 4, Weight: 60, BaseExperience: 112,
			Types:     []api.TypeSlot{{Slot: 1, Type: api.NamedResource{Name: "electric"}}},
			Stats:     []api.StatSlot{{BaseStat: 35, Stat: api.NamedResource{Name: "hp"}}},
			Abilities: []api.AbilitySlot{{Ability: api.NamedResource{Name: "static"}}},
		},
		"bulbasaur": {
			ID: 1, Name: "bulbasaur", Height: 7, Weight: 69,
			Types: []api.TypeSlot{
				{Slot: 1, Type: api.NamedResource{Name: "grass"}},
				{Slot: 2, Type: api.NamedResource{Name: "poison"}},
			},
		},
	}
}

func testSession(t *testing.T) *catalog.Session {
	t.Helper()
	loader := &stubLoader{
		items: []api.PageItem{
			{Name: "bulbasaur", URL: "https://pokeapi.co/api/v2/pokemon/1/"},
			{Name: "pikachu", URL: "https://pokeapi.co/api/v2/pokemon/25/"},
			{Name: "missingno", URL: "https://pokeapi.co/api/v2/pokemon/0/"},
		},
	}
	cache := detail.NewCache(&stubFetcher{payloads: testPayloads()})
	session := catalog.NewSession(loader, cache)
	if err := session.Load(context.Background(), 151); err != nil {
		t.Fatalf("session load: %v", err)
	}
	return session
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, exitSuccess},
		{"upstream failure", upstream(errors.New("api down")), exitUpstream},
		{"wrapped upstream failure", fmt.Errorf("show: %w", upstream(errors.New("404"))), exitUpstream},
		{"setup failure", errors.New("config: bad yaml"), exitSetup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestShowCmd_Run(t *testing.T) {
	cache := detail.NewCache(&stubFetcher{payloads: testPayloads()})
	cmd := &ShowCmd{Name: "Pikachu"}

	var buf bytes.Buffer
	if err := cmd.run(context.Background(), &buf, cache); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"#025 pikachu", "electric", "hp", "static"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShowCmd_NoData(t *testing.T) {
	cache := detail.NewCache(&stubFetcher{payloads: testPayloads()})
	cmd := &ShowCmd{Name: "missingno123"}

	var buf bytes.Buffer
	err := cmd.run(context.Background(), &buf, cache)
	if err == nil {
		t.Fatal("run() should fail for unavailable data")
	}
	if exitCode(err) != exitUpstream {
		t.Errorf("exit code = %d, want %d", exitCode(err), exitUpstream)
	}
}

func TestListCmd_Run(t *testing.T) {
	cmd := &ListCmd{Sort: "number"}

	var buf bytes.Buffer
	if err := cmd.run(context.Background(), &buf, testSession(t)); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("output lines = %d, want header + 3 rows:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "NAME") {
		t.Errorf("missing header:\n%s", out)
	}
	// Without a type filter no details are fetched; types show the placeholder.
	if !strings.Contains(out, "-") {
		t.Errorf("unfetched rows should show the type placeholder:\n%s", out)
	}
}

func TestListCmd_TypeFilter(t *testing.T) {
	cmd := &ListCmd{Sort: "number", Type: "grass"}

	var buf bytes.Buffer
	if err := cmd.run(context.Background(), &buf, testSession(t)); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "bulbasaur") {
		t.Errorf("grass filter should keep bulbasaur:\n%s", out)
	}
	if strings.Contains(out, "pikachu") || strings.Contains(out, "missingno") {
		t.Errorf("grass filter should drop non-grass and failed rows:\n%s", out)
	}
	if !strings.Contains(out, "grass, poison") {
		t.Errorf("filtered rows have resolved details and show full types:\n%s", out)
	}
}

func TestListCmd_SearchAndSort(t *testing.T) {
	cmd := &ListCmd{Sort: "name", Desc: true, Search: "a"}

	var buf bytes.Buffer
	if err := cmd.run(context.Background(), &buf, testSession(t)); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// All three sample names contain "a"; descending name order.
	if len(lines) != 4 {
		t.Fatalf("output lines = %d, want 4", len(lines))
	}
	if !strings.Contains(lines[1], "pikachu") {
		t.Errorf("first data row = %q, want pikachu (desc by name)", lines[1])
	}
	if !strings.Contains(lines[3], "bulbasaur") {
		t.Errorf("last data row = %q, want bulbasaur", lines[3])
	}
}

func TestExportCmd_Run(t *testing.T) {
	cmd := &ExportCmd{BatchSize: 2}

	var out, progress bytes.Buffer
	if err := cmd.run(context.Background(), &out, &progress, testSession(t)); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if !strings.Contains(out.String(), "pikachu") {
		t.Errorf("export output missing pikachu:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "missing:") {
		t.Errorf("export output should list missing entries:\n%s", out.String())
	}
	if !strings.Contains(progress.String(), "done: 2 resolved, 1 missing") {
		t.Errorf("progress output missing done line:\n%s", progress.String())
	}
}

// stubTeaRunner implements teaRunner without a terminal.
type stubTeaRunner struct {
	ran bool
	err error
}

func (s *stubTeaRunner) Run() (tea.Model, error) {
	s.ran = true
	return nil, s.err
}

func TestBrowseCmd_RequiresTTY(t *testing.T) {
	cmd := &BrowseCmd{}
	runner := &stubTeaRunner{}

	if err := cmd.run(false, runner); err == nil {
		t.Fatal("run(isTTY=false) should fail")
	}
	if runner.ran {
		t.Error("program must not run without a TTY")
	}
}

func TestBrowseCmd_RunsProgram(t *testing.T) {
	cmd := &BrowseCmd{}
	runner := &stubTeaRunner{}

	if err := cmd.run(true, runner); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !runner.ran {
		t.Error("program should run with a TTY")
	}
}
