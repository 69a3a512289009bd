package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/zen-systems/ratewatch/pkg/report"
)

// chartFile pairs a rendered PNG with its document caption.
type chartFile struct {
	Title string
	Path  string
}

// renderCharts draws the report's bar charts as PNGs under dir. Charts whose
// data is absent (no official rate, single house) are skipped rather than
// failing the render.
func renderCharts(r *report.Report, dir string) ([]chartFile, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create charts dir: %w", err)
	}

	var charts []chartFile

	sell := make([]chart.Value, 0, len(r.Quotes))
	buy := make([]chart.Value, 0, len(r.Quotes))
	for _, q := range r.Quotes {
		sell = append(sell, chart.Value{Label: q.Name, Value: q.Sell})
		buy = append(buy, chart.Value{Label: q.Name, Value: q.Buy})
	}

	for _, c := range []struct {
		name  string
		title string
		bars  []chart.Value
	}{
		{"sell", "USD sell rates by house (ARS)", sell},
		{"buy", "USD buy rates by house (ARS)", buy},
		{"gaps", "Gap vs official rate (%)", gapBars(r.Gaps)},
		{"spreads", "Buy/sell spread by house (ARS)", spreadBars(r.Spreads)},
	} {
		if len(c.bars) < 2 {
			continue
		}
		path := filepath.Join(dir, c.name+".png")
		if err := renderBarChart(c.title, c.bars, path); err != nil {
			return nil, fmt.Errorf("chart %s: %w", c.name, err)
		}
		charts = append(charts, chartFile{Title: c.title, Path: path})
	}

	return charts, nil
}

func gapBars(gaps []report.Gap) []chart.Value {
	bars := make([]chart.Value, 0, len(gaps))
	for _, g := range gaps {
		bars = append(bars, chart.Value{Label: g.Name, Value: g.GapPercent})
	}
	return bars
}

func spreadBars(spreads []report.Spread) []chart.Value {
	bars := make([]chart.Value, 0, len(spreads))
	for _, s := range spreads {
		bars = append(bars, chart.Value{Label: s.Name, Value: s.Spread})
	}
	return bars
}

func renderBarChart(title string, bars []chart.Value, path string) error {
	graph := chart.BarChart{
		Title:    title,
		Width:    1024,
		Height:   512,
		BarWidth: 60,
		Bars:     bars,
		XAxis: chart.Style{
			TextRotationDegrees: 45,
		},
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return graph.Render(chart.PNG, f)
}
