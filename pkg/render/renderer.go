// Package render turns a report into a distributable PDF with charts.
package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zen-systems/ratewatch/pkg/report"
)

// Renderer writes report artifacts under a single output directory.
type Renderer struct {
	outDir string
}

// NewRenderer creates a renderer rooted at outDir.
func NewRenderer(outDir string) *Renderer {
	return &Renderer{outDir: outDir}
}

// Render draws the report's charts and assembles the PDF document, returning
// the PDF path.
func (rd *Renderer) Render(r *report.Report) (string, error) {
	if r == nil {
		return "", fmt.Errorf("report is required")
	}
	if err := os.MkdirAll(rd.outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	charts, err := renderCharts(r, filepath.Join(rd.outDir, "charts"))
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("dolar_report_%s.pdf", r.GeneratedAt.Format("20060102_150405"))
	path := filepath.Join(rd.outDir, name)
	if err := writePDF(r, charts, path); err != nil {
		return "", err
	}

	return path, nil
}
