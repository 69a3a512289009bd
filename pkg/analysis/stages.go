// Package analysis assembles the market-analysis pipeline: collect quotes,
// build the report, render the document, and optionally publish the
// artifacts.
package analysis

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/zen-systems/ratewatch/pkg/pipeline"
	"github.com/zen-systems/ratewatch/pkg/quote"
	"github.com/zen-systems/ratewatch/pkg/report"
)

// QuoteSource fetches the current quote set.
type QuoteSource interface {
	Fetch(ctx context.Context) ([]quote.Quote, error)
}

// ReportBuilder turns quotes into a saved report.
type ReportBuilder interface {
	Build(ctx context.Context, quotes []quote.Quote) (*report.Report, error)
	Save(r *report.Report) (string, error)
}

// ArtifactRenderer turns a report into a document on disk.
type ArtifactRenderer interface {
	Render(r *report.Report) (string, error)
}

// Publisher uploads run artifacts to remote storage.
type Publisher interface {
	PublishRun(ctx context.Context, runID string, paths ...string) ([]string, error)
}

// HistorySink records fetched quotes in a longer-term store.
type HistorySink interface {
	Save(ctx context.Context, quotes []quote.Quote, fetchedAt time.Time) error
}

// CollectArtifact is the collect stage's output.
type CollectArtifact struct {
	Quotes       []quote.Quote
	SnapshotPath string
	FetchedAt    time.Time
}

// AnalysisArtifact is the analyze stage's output.
type AnalysisArtifact struct {
	Report *report.Report
	Path   string
}

// RenderArtifact is the render stage's output.
type RenderArtifact struct {
	ReportPath string
	PDFPath    string
}

// Collaborators holds the leaf services the pipeline drives. Publisher and
// History are optional; a nil Publisher yields the three-stage pipeline with
// render as the terminal stage.
type Collaborators struct {
	Source   QuoteSource
	Builder  ReportBuilder
	Renderer ArtifactRenderer

	Publisher Publisher
	History   HistorySink

	// DataDir receives the CSV history and JSON snapshots.
	DataDir string
	// RunID names the remote prefix for published artifacts.
	RunID string

	Logf func(format string, args ...any)
	Now  func() time.Time
}

// Stages builds the ordered stage list for one run. With a publisher the
// pipeline is collect, analyze, render, publish; without one, render is the
// terminal stage.
func Stages(c Collaborators) []pipeline.Stage {
	if c.Logf == nil {
		c.Logf = func(string, ...any) {}
	}
	if c.Now == nil {
		c.Now = time.Now
	}

	stages := []pipeline.Stage{
		{Name: "collect", Kind: pipeline.Gating, Run: c.collect},
		{Name: "analyze", Kind: pipeline.Gating, Run: c.analyze},
		{Name: "render", Kind: pipeline.Terminal, Run: c.render},
	}

	if c.Publisher != nil {
		stages[2].Kind = pipeline.Gating
		stages = append(stages, pipeline.Stage{Name: "publish", Kind: pipeline.Terminal, Run: c.publish})
	}

	return stages
}

// collect fetches the quote set and persists it locally. Persistence
// problems are logged but do not fail the stage; the fetched data is still
// usable downstream.
func (c Collaborators) collect(ctx context.Context, _ any) (any, string, error) {
	quotes, err := c.Source.Fetch(ctx)
	if err != nil {
		return nil, "", err
	}

	fetchedAt := c.Now()
	artifact := CollectArtifact{Quotes: quotes, FetchedAt: fetchedAt}

	if c.DataDir != "" {
		csvPath := filepath.Join(c.DataDir, "dolar_history.csv")
		if err := quote.AppendCSV(csvPath, quotes, fetchedAt); err != nil {
			c.Logf("collect: history append failed: %v", err)
		}
		path, err := quote.WriteSnapshot(c.DataDir, quotes, fetchedAt)
		if err != nil {
			c.Logf("collect: snapshot failed: %v", err)
		} else {
			artifact.SnapshotPath = path
		}
	}

	if c.History != nil {
		if err := c.History.Save(ctx, quotes, fetchedAt); err != nil {
			c.Logf("collect: history store failed: %v", err)
		}
	}

	return artifact, fmt.Sprintf("%d quotes", len(quotes)), nil
}

func (c Collaborators) analyze(ctx context.Context, input any) (any, string, error) {
	collected, ok := input.(CollectArtifact)
	if !ok {
		return nil, "", fmt.Errorf("analyze: unexpected input %T", input)
	}

	r, err := c.Builder.Build(ctx, collected.Quotes)
	if err != nil {
		return nil, "", err
	}

	path, err := c.Builder.Save(r)
	if err != nil {
		return nil, "", err
	}

	return AnalysisArtifact{Report: r, Path: path}, path, nil
}

func (c Collaborators) render(_ context.Context, input any) (any, string, error) {
	analyzed, ok := input.(AnalysisArtifact)
	if !ok {
		return nil, "", fmt.Errorf("render: unexpected input %T", input)
	}

	pdfPath, err := c.Renderer.Render(analyzed.Report)
	if err != nil {
		return nil, "", err
	}

	return RenderArtifact{ReportPath: analyzed.Path, PDFPath: pdfPath}, pdfPath, nil
}

func (c Collaborators) publish(ctx context.Context, input any) (any, string, error) {
	rendered, ok := input.(RenderArtifact)
	if !ok {
		return nil, "", fmt.Errorf("publish: unexpected input %T", input)
	}

	keys, err := c.Publisher.PublishRun(ctx, c.RunID, rendered.ReportPath, rendered.PDFPath)
	if err != nil {
		return nil, "", err
	}

	return keys, fmt.Sprintf("%d objects uploaded", len(keys)), nil
}
