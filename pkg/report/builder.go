package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zen-systems/ratewatch/pkg/llm"
	"github.com/zen-systems/ratewatch/pkg/quote"
)

// Builder turns a quote set into a Report. The statistics are deterministic;
// the narrative sections come from the configured model adapter.
type Builder struct {
	adapter    llm.Adapter
	model      string
	reportsDir string
	now        func() time.Time
}

// NewBuilder creates a report builder. An empty model selects the adapter's
// first supported model.
func NewBuilder(adapter llm.Adapter, model, reportsDir string) *Builder {
	if model == "" {
		if models := adapter.Models(); len(models) > 0 {
			model = models[0]
		}
	}
	return &Builder{
		adapter:    adapter,
		model:      model,
		reportsDir: reportsDir,
		now:        time.Now,
	}
}

// Build computes statistics and generates the narrative sections. Any adapter
// failure fails the build; a transient provider error is retried once before
// giving up.
func (b *Builder) Build(ctx context.Context, quotes []quote.Quote) (*Report, error) {
	if len(quotes) == 0 {
		return nil, fmt.Errorf("no quotes to analyze")
	}

	r := &Report{
		GeneratedAt: b.now().UTC(),
		Source:      "dolarapi",
		Quotes:      quotes,
		Gaps:        ComputeGaps(quotes),
		Spreads:     ComputeSpreads(quotes),
	}
	if official, ok := quote.Official(quotes); ok {
		r.Official = &official
	}

	sections := []struct {
		name   string
		prompt string
		dest   *string
	}{
		{"cotizations", cotizationsPrompt(quotes), &r.Narrative.Cotizations},
		{"gaps", gapsPrompt(r.Official, r.Gaps), &r.Narrative.Gaps},
		{"trends", trendsPrompt(r.Spreads), &r.Narrative.Trends},
		{"summary", summaryPrompt(quotes), &r.Narrative.Summary},
	}

	for _, section := range sections {
		text, err := b.generate(ctx, section.prompt)
		if err != nil {
			return nil, fmt.Errorf("narrative section %s: %w", section.name, err)
		}
		*section.dest = text
	}

	return r, nil
}

// generate calls the adapter, retrying once on a transient provider error.
func (b *Builder) generate(ctx context.Context, prompt string) (string, error) {
	text, err := b.adapter.Generate(ctx, b.model, prompt)
	if err == nil {
		return text, nil
	}
	if !llm.IsTransient(err) {
		return "", err
	}
	return b.adapter.Generate(ctx, b.model, prompt)
}

// Save writes the report as indented JSON under the reports dir and returns
// the file path.
func (b *Builder) Save(r *Report) (string, error) {
	if err := os.MkdirAll(b.reportsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports dir: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("report_%s.json", r.GeneratedAt.Format("20060102_150405"))
	path := filepath.Join(b.reportsDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}

// Load reads a previously saved report.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &r, nil
}
