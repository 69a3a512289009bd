package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zen-systems/ratewatch/pkg/llm"
	"github.com/zen-systems/ratewatch/pkg/quote"
)

func testQuotes() []quote.Quote {
	updated := time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC)
	return []quote.Quote{
		{Currency: "USD", House: "oficial", Name: "Oficial", Buy: 1430, Sell: 1450, UpdatedAt: updated},
		{Currency: "USD", House: "blue", Name: "Blue", Buy: 1480, Sell: 1500, UpdatedAt: updated},
		{Currency: "USD", House: "bolsa", Name: "Bolsa", Buy: 1465, Sell: 1470, UpdatedAt: updated},
	}
}

func TestComputeGaps(t *testing.T) {
	gaps := ComputeGaps(testQuotes())
	if len(gaps) != 2 {
		t.Fatalf("expected 2 gaps, got %d", len(gaps))
	}

	blue := gaps[0]
	if blue.House != "blue" {
		t.Fatalf("first gap house = %s", blue.House)
	}
	if blue.GapAmount != 50 {
		t.Fatalf("blue gap amount = %v, want 50", blue.GapAmount)
	}
	if blue.GapPercent != 3.45 {
		t.Fatalf("blue gap percent = %v, want 3.45", blue.GapPercent)
	}
}

func TestComputeGapsWithoutOfficial(t *testing.T) {
	if gaps := ComputeGaps([]quote.Quote{{House: "blue", Sell: 1500}}); gaps != nil {
		t.Fatalf("expected nil gaps, got %v", gaps)
	}
}

func TestComputeSpreads(t *testing.T) {
	spreads := ComputeSpreads(testQuotes())
	if len(spreads) != 3 {
		t.Fatalf("expected 3 spreads, got %d", len(spreads))
	}
	if spreads[0].Spread != 20 {
		t.Fatalf("official spread = %v, want 20", spreads[0].Spread)
	}
	if spreads[0].SpreadPercent != 1.4 {
		t.Fatalf("official spread percent = %v, want 1.4", spreads[0].SpreadPercent)
	}
}

func TestBuildFillsReport(t *testing.T) {
	b := NewBuilder(llm.NewMockAdapter(), "", t.TempDir())

	r, err := b.Build(context.Background(), testQuotes())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if r.Official == nil || r.Official.House != "oficial" {
		t.Fatalf("official = %+v", r.Official)
	}
	if len(r.Gaps) != 2 || len(r.Spreads) != 3 {
		t.Fatalf("gaps = %d, spreads = %d", len(r.Gaps), len(r.Spreads))
	}
	for name, section := range map[string]string{
		"cotizations": r.Narrative.Cotizations,
		"gaps":        r.Narrative.Gaps,
		"trends":      r.Narrative.Trends,
		"summary":     r.Narrative.Summary,
	} {
		if section == "" {
			t.Fatalf("narrative section %s is empty", name)
		}
	}
}

func TestBuildRejectsEmptyQuotes(t *testing.T) {
	b := NewBuilder(llm.NewMockAdapter(), "", t.TempDir())
	if _, err := b.Build(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty quote set")
	}
}

// flakyAdapter fails with a transient provider error on the first call.
type flakyAdapter struct {
	calls int
	err   error
}

func (a *flakyAdapter) Name() string     { return "flaky" }
func (a *flakyAdapter) Models() []string { return []string{"flaky-1"} }

func (a *flakyAdapter) Generate(_ context.Context, _ string, _ string) (string, error) {
	a.calls++
	if a.calls == 1 {
		return "", a.err
	}
	return "recovered", nil
}

func TestBuildRetriesTransientAdapterError(t *testing.T) {
	adapter := &flakyAdapter{err: &llm.ProviderError{Status: 503, Err: errors.New("overloaded")}}
	b := NewBuilder(adapter, "", t.TempDir())

	r, err := b.Build(context.Background(), testQuotes())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if r.Narrative.Cotizations != "recovered" {
		t.Fatalf("cotizations = %q", r.Narrative.Cotizations)
	}
}

func TestBuildFailsOnPermanentAdapterError(t *testing.T) {
	adapter := &flakyAdapter{err: errors.New("invalid api key")}
	b := NewBuilder(adapter, "", t.TempDir())

	if _, err := b.Build(context.Background(), testQuotes()); err == nil {
		t.Fatal("expected build failure")
	}
	if adapter.calls != 1 {
		t.Fatalf("adapter called %d times, want 1", adapter.calls)
	}
}

func TestSaveAndLoad(t *testing.T) {
	b := NewBuilder(llm.NewMockAdapter(), "", t.TempDir())
	r, err := b.Build(context.Background(), testQuotes())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	path, err := b.Save(r)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Quotes) != 3 {
		t.Fatalf("loaded quotes = %d", len(loaded.Quotes))
	}
	if loaded.Narrative.Summary != r.Narrative.Summary {
		t.Fatal("summary changed across save/load")
	}
}
