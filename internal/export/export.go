// Package export prefetches the full catalog through the detail cache and
// writes a YAML summary of whatever resolved. Entries whose fetch failed
// are listed as missing rather than aborting the export.
package export

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/kantodex/kantodex/internal/api"
	"github.com/kantodex/kantodex/internal/catalog"
)

// defaultBatchSize is how many detail fetches one RequestMany batch carries.
const defaultBatchSize = 20

// EntrySummary is the exported record for one resolved creature.
type EntrySummary struct {
	Number    int            `yaml:"number"`
	Name      string         `yaml:"name"`
	Types     []string       `yaml:"types"`
	Height    int            `yaml:"height"`
	Weight    int            `yaml:"weight"`
	Stats     map[string]int `yaml:"stats"`
	Abilities []string       `yaml:"abilities"`
	Sprite    string         `yaml:"sprite,omitempty"`
}

// Summary is the full export document.
type Summary struct {
	Count   int            `yaml:"count"`
	Entries []EntrySummary `yaml:"entries"`
	Missing []string       `yaml:"missing,omitempty"`
}

// Runner drives the prefetch and collects the summary.
type Runner struct {
	session   *catalog.Session
	bridge    *Bridge
	batchSize int
}

// Option configures a Runner.
type Option func(*Runner)

// WithBatchSize overrides the per-batch fetch count.
func WithBatchSize(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithBridge attaches a progress bridge. Without one, progress is silent.
func WithBridge(b *Bridge) Option {
	return func(r *Runner) {
		r.bridge = b
	}
}

// NewRunner creates a Runner over a loaded session.
func NewRunner(session *catalog.Session, opts ...Option) *Runner {
	r := &Runner{session: session, batchSize: defaultBatchSize}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run prefetches every catalog entry in batches and returns the summary.
// Per-entry failures are contained: they end up in Summary.Missing.
func (r *Runner) Run(ctx context.Context) Summary {
	entries := r.session.Entries()
	cache := r.session.Cache()

	for start := 0; start < len(entries); start += r.batchSize {
		end := start + r.batchSize
		if end > len(entries) {
			end = len(entries)
		}
		keys := make([]string, 0, end-start)
		for _, e := range entries[start:end] {
			keys = append(keys, e.Name)
		}

		cache.RequestMany(ctx, keys)
		if r.bridge != nil {
			r.bridge.Send(ProgressMsg{Fetched: end, Total: len(entries)})
		}
	}

	summary := Summary{Count: len(entries)}
	for _, e := range entries {
		p := cache.Details(e.Name)
		if p == nil {
			summary.Missing = append(summary.Missing, e.Name)
			continue
		}
		summary.Entries = append(summary.Entries, summarize(e, p))
	}

	if r.bridge != nil {
		r.bridge.Done(len(summary.Entries), len(summary.Missing))
	}
	return summary
}

// summarize flattens a detail payload into its exported record.
func summarize(e catalog.Entry, p *api.Pokemon) EntrySummary {
	s := EntrySummary{
		Number: p.ID,
		Name:   p.Name,
		Height: p.Height,
		Weight: p.Weight,
		Stats:  make(map[string]int, len(p.Stats)),
		Sprite: p.Sprites.FrontDefault,
	}
	if s.Number == 0 {
		s.Number = e.Number
	}
	for _, ts := range p.Types {
		s.Types = append(s.Types, ts.Type.Name)
	}
	for _, st := range p.Stats {
		s.Stats[st.Stat.Name] = st.BaseStat
	}
	for _, ab := range p.Abilities {
		s.Abilities = append(s.Abilities, ab.Ability.Name)
	}
	return s
}

// WriteYAML encodes the summary as YAML to w.
func WriteYAML(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("export: encoding summary: %w", err)
	}
	return enc.Close()
}
