package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/kantodex/kantodex/internal/api"
	"github.com/kantodex/kantodex/internal/catalog"
	"github.com/kantodex/kantodex/internal/config"
	"github.com/kantodex/kantodex/internal/dashboard"
	"github.com/kantodex/kantodex/internal/detail"
	"github.com/kantodex/kantodex/internal/export"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// CLI is the top-level command structure for kantodex.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Browse  BrowseCmd        `cmd:"" help:"Open the interactive catalog TUI."`
	List    ListCmd          `cmd:"" help:"Print the catalog as a table."`
	Show    ShowCmd          `cmd:"" help:"Print the detail of one creature."`
	Types   TypesCmd         `cmd:"" help:"Print the available type labels."`
	Export  ExportCmd        `cmd:"" help:"Prefetch the full catalog and write a YAML summary."`
}

// loadConfig loads layered config from user and project paths with env overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/kantodex/config.yaml"),
		".kantodex.yaml",
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newSession builds the API client, detail cache, and catalog session for
// one process run. The session lives until the process exits.
func newSession(cfg *config.Config) *catalog.Session {
	client := api.NewClient(
		api.WithBaseURL(cfg.API.BaseURL),
		api.WithTimeout(cfg.API.Timeout),
	)
	cache := detail.NewCache(client)
	return catalog.NewSession(client, cache)
}

// dataError marks failures caused by the upstream API or missing data,
// as opposed to setup problems. It selects the exit code.
type dataError struct {
	err error
}

func (e *dataError) Error() string { return e.err.Error() }
func (e *dataError) Unwrap() error { return e.err }

// upstream wraps err as a dataError.
func upstream(err error) error {
	return &dataError{err: err}
}

// --- Browse command ---

// BrowseCmd opens the interactive catalog TUI.
type BrowseCmd struct {
	PageSize int `help:"Rows per page." default:"0"`
}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// sessionLoaderAdapter wraps *catalog.Session to implement dashboard.CatalogLoader.
type sessionLoaderAdapter struct {
	session *catalog.Session
	limit   int
}

func (a *sessionLoaderAdapter) Load(ctx context.Context) ([]catalog.Entry, []string, error) {
	if err := a.session.Load(ctx, a.limit); err != nil {
		return nil, nil, err
	}
	return a.session.Entries(), a.session.TypeNames(), nil
}

// Run builds real dependencies and launches the dashboard TUI.
func (b *BrowseCmd) Run() error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("browse: requires a terminal (TTY)")
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}

	session := newSession(cfg)
	pageSize := cfg.UI.PageSize
	if b.PageSize > 0 {
		pageSize = b.PageSize
	}

	m := dashboard.NewModel(
		dashboard.WithCatalogLoader(&sessionLoaderAdapter{session: session, limit: cfg.Catalog.Limit}),
		dashboard.WithDetailCache(session.Cache()),
		dashboard.WithPageSize(pageSize),
	)

	prog := tea.NewProgram(m, tea.WithAltScreen())
	return b.run(true, prog)
}

// run executes the tea program, enabling testable wiring.
func (b *BrowseCmd) run(isTTY bool, prog teaRunner) error {
	if !isTTY {
		return fmt.Errorf("browse: requires a terminal (TTY)")
	}
	_, err := prog.Run()
	return err
}

// --- List command ---

// ListCmd prints the catalog as a plain table.
type ListCmd struct {
	Search string `help:"Filter by name substring."`
	Type   string `help:"Filter by type label (forces a detail fetch per entry)."`
	Sort   string `help:"Sort field: number or name." default:"number" enum:"number,name"`
	Desc   bool   `help:"Sort descending."`
	Limit  int    `help:"Override the catalog entry limit." default:"0"`
}

// Run executes the list command.
func (l *ListCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	if l.Limit > 0 {
		cfg.Catalog.Limit = l.Limit
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	session := newSession(cfg)
	if err := session.Load(ctx, cfg.Catalog.Limit); err != nil {
		return upstream(fmt.Errorf("list: %w", err))
	}

	return l.run(ctx, os.Stdout, session)
}

// run shapes and prints the table, enabling testable wiring.
func (l *ListCmd) run(ctx context.Context, w io.Writer, session *catalog.Session) error {
	cache := session.Cache()
	entries := catalog.Search(session.Entries(), l.Search)

	// A type filter needs resolved details for every candidate row.
	if l.Type != "" {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name
		}
		cache.RequestMany(ctx, names)
		entries = catalog.FilterByType(entries, l.Type, cache.Details)
	}

	field := catalog.SortByNumber
	if l.Sort == "name" {
		field = catalog.SortByName
	}
	entries = catalog.Sort(entries, field, l.Desc)

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NO.\tNAME\tTYPES")
	for _, e := range entries {
		types := "-"
		if p := cache.Details(e.Name); p != nil {
			names := make([]string, len(p.Types))
			for i, ts := range p.Types {
				names[i] = ts.Type.Name
			}
			types = strings.Join(names, ", ")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", e.Number, e.Name, types)
	}
	return tw.Flush()
}

// --- Show command ---

// ShowCmd prints the detail of a single creature.
type ShowCmd struct {
	Name string `arg:"" help:"Creature name or catalog number."`
}

// Run executes the show command.
func (s *ShowCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	session := newSession(cfg)
	return s.run(ctx, os.Stdout, session.Cache())
}

// run fetches through the cache and prints, enabling testable wiring.
func (s *ShowCmd) run(ctx context.Context, w io.Writer, cache *detail.Cache) error {
	cache.RequestMany(ctx, []string{s.Name})

	p := cache.Details(s.Name)
	if p == nil {
		// Failed and never-resolved are indistinguishable by design.
		return upstream(fmt.Errorf("show: no data available for %q", s.Name))
	}

	fmt.Fprintf(w, "#%03d %s\n", p.ID, p.Name)
	types := make([]string, len(p.Types))
	for i, ts := range p.Types {
		types[i] = ts.Type.Name
	}
	fmt.Fprintf(w, "types: %s\n", strings.Join(types, ", "))
	fmt.Fprintf(w, "height: %.1f m  weight: %.1f kg  base xp: %d\n",
		float64(p.Height)/10, float64(p.Weight)/10, p.BaseExperience)
	for _, st := range p.Stats {
		fmt.Fprintf(w, "  %-16s %d\n", st.Stat.Name, st.BaseStat)
	}
	abilities := make([]string, len(p.Abilities))
	for i, ab := range p.Abilities {
		abilities[i] = ab.Ability.Name
		if ab.IsHidden {
			abilities[i] += " (hidden)"
		}
	}
	fmt.Fprintf(w, "abilities: %s\n", strings.Join(abilities, ", "))
	fmt.Fprintf(w, "moves: %d\n", len(p.Moves))
	return nil
}

// --- Types command ---

// TypesCmd prints the available type labels.
type TypesCmd struct{}

// Run executes the types command.
func (t *TypesCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("types: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := api.NewClient(
		api.WithBaseURL(cfg.API.BaseURL),
		api.WithTimeout(cfg.API.Timeout),
	)
	labels, err := client.Types(ctx)
	if err != nil {
		return upstream(fmt.Errorf("types: %w", err))
	}

	for _, l := range labels {
		fmt.Fprintln(os.Stdout, l.Name)
	}
	return nil
}

// --- Export command ---

// ExportCmd prefetches the full catalog and writes a YAML summary.
type ExportCmd struct {
	Out       string `help:"Output file (default: stdout)." default:""`
	BatchSize int    `help:"Detail fetches per batch." default:"20"`
}

// Run executes the export command.
func (e *ExportCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	session := newSession(cfg)
	if err := session.Load(ctx, cfg.Catalog.Limit); err != nil {
		return upstream(fmt.Errorf("export: %w", err))
	}

	out := io.Writer(os.Stdout)
	if e.Out != "" {
		f, err := os.Create(e.Out)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		defer f.Close()
		out = f
	}

	return e.run(ctx, out, os.Stderr, session)
}

// run drives the prefetch with a progress display, enabling testable wiring.
func (e *ExportCmd) run(ctx context.Context, out, progress io.Writer, session *catalog.Session) error {
	bridge := export.NewBridge()
	runner := export.NewRunner(session,
		export.WithBatchSize(e.BatchSize),
		export.WithBridge(bridge),
	)

	displayDone := make(chan error, 1)
	go func() {
		displayDone <- export.NewPlainDisplay(progress).Run(ctx, bridge.Events())
	}()

	summary := runner.Run(ctx)
	<-displayDone

	if err := export.WriteYAML(out, summary); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if len(summary.Entries) == 0 {
		return upstream(errors.New("export: no entries resolved"))
	}
	return nil
}

// Exit codes.
const (
	exitSuccess  = 0
	exitUpstream = 1
	exitSetup    = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var de *dataError
	if errors.As(err, &de) {
		return exitUpstream
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli, kong.Vars{"version": version + " " + commit + " " + date})
	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
