package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func succeed(output any, ref string) StageFunc {
	return func(_ context.Context, _ any) (any, string, error) {
		return output, ref, nil
	}
}

func fail(msg string) StageFunc {
	return func(_ context.Context, _ any) (any, string, error) {
		return nil, "", errors.New(msg)
	}
}

func threeStages(collect, analyze, render StageFunc) []Stage {
	return []Stage{
		{Name: "collect", Kind: Gating, Run: collect},
		{Name: "analyze", Kind: Gating, Run: analyze},
		{Name: "render", Kind: Terminal, Run: render},
	}
}

func TestRunAllStagesSucceed(t *testing.T) {
	o, err := New(threeStages(
		succeed(5, "5 quotes"),
		succeed("r1", "reports/r1.json"),
		succeed("out.pdf", "out.pdf"),
	))
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}

	result := o.Run(context.Background())

	if result.Status != StatusCompleted {
		t.Fatalf("status = %s, want %s", result.Status, StatusCompleted)
	}
	if len(result.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(result.Steps))
	}
	if len(result.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", result.Errors)
	}
	for i, name := range []string{"collect", "analyze", "render"} {
		step := result.Steps[i]
		if step.Name != name {
			t.Fatalf("step %d = %s, want %s", i, step.Name, name)
		}
		if step.Status != StepSuccess {
			t.Fatalf("step %s status = %s, want success", name, step.Status)
		}
		if step.Output == "" {
			t.Fatalf("step %s has empty output ref", name)
		}
	}
}

func TestRunTerminalStageFailure(t *testing.T) {
	o, err := New(threeStages(
		succeed(5, "5 quotes"),
		succeed("r1", "reports/r1.json"),
		fail("disk full"),
	))
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}

	result := o.Run(context.Background())

	if result.Status != StatusCompletedWithErrors {
		t.Fatalf("status = %s, want %s", result.Status, StatusCompletedWithErrors)
	}
	if len(result.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(result.Steps))
	}
	if len(result.Errors) != 1 || result.Errors[0] != "disk full" {
		t.Fatalf("errors = %v, want [disk full]", result.Errors)
	}

	step, ok := result.Step("render")
	if !ok {
		t.Fatal("render step missing")
	}
	if step.Status != StepFailed || step.Error != "disk full" {
		t.Fatalf("render step = %+v", step)
	}
	if step.Output != "" {
		t.Fatalf("failed step has output ref %q", step.Output)
	}

	// Artifacts from earlier stages stay reported as valid.
	analyze, _ := result.Step("analyze")
	if analyze.Status != StepSuccess || analyze.Output != "reports/r1.json" {
		t.Fatalf("analyze step = %+v", analyze)
	}
}

func TestRunGatingStageFailureAborts(t *testing.T) {
	attempted := map[string]bool{}
	track := func(name string, fn StageFunc) StageFunc {
		return func(ctx context.Context, input any) (any, string, error) {
			attempted[name] = true
			return fn(ctx, input)
		}
	}

	o, err := New(threeStages(
		track("collect", fail("timeout")),
		track("analyze", succeed("r1", "r1")),
		track("render", succeed("out", "out")),
	))
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}

	result := o.Run(context.Background())

	if result.Status != StatusFailed {
		t.Fatalf("status = %s, want %s", result.Status, StatusFailed)
	}
	if len(result.Steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(result.Steps))
	}
	if len(result.Errors) != 1 || result.Errors[0] != "timeout" {
		t.Fatalf("errors = %v, want [timeout]", result.Errors)
	}
	if attempted["analyze"] || attempted["render"] {
		t.Fatalf("stages after aborting failure were attempted: %v", attempted)
	}
}

func TestRunMiddleGatingFailure(t *testing.T) {
	o, err := New(threeStages(
		succeed(5, "5 quotes"),
		fail("model unavailable"),
		succeed("out", "out"),
	))
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}

	result := o.Run(context.Background())

	if result.Status != StatusFailed {
		t.Fatalf("status = %s, want %s", result.Status, StatusFailed)
	}
	if len(result.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(result.Steps))
	}
	if _, ok := result.Step("render"); ok {
		t.Fatal("render step present after aborting failure")
	}
}

func TestRunChainsArtifactsForward(t *testing.T) {
	var analyzeInput, renderInput any

	o, err := New(threeStages(
		succeed([]int{1, 2, 3}, "3 quotes"),
		func(_ context.Context, input any) (any, string, error) {
			analyzeInput = input
			return "report", "report", nil
		},
		func(_ context.Context, input any) (any, string, error) {
			renderInput = input
			return "pdf", "pdf", nil
		},
	))
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}

	o.Run(context.Background())

	quotes, ok := analyzeInput.([]int)
	if !ok || len(quotes) != 3 {
		t.Fatalf("analyze input = %v", analyzeInput)
	}
	if renderInput != "report" {
		t.Fatalf("render input = %v, want report", renderInput)
	}
}

func TestRunErrorCountMatchesFailedSteps(t *testing.T) {
	cases := []struct {
		name   string
		stages []Stage
	}{
		{"all succeed", threeStages(succeed(1, "1"), succeed(2, "2"), succeed(3, "3"))},
		{"terminal fails", threeStages(succeed(1, "1"), succeed(2, "2"), fail("x"))},
		{"first fails", threeStages(fail("x"), succeed(2, "2"), succeed(3, "3"))},
		{"middle fails", threeStages(succeed(1, "1"), fail("x"), succeed(3, "3"))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o, err := New(tc.stages)
			if err != nil {
				t.Fatalf("new orchestrator: %v", err)
			}
			result := o.Run(context.Background())

			failed := 0
			for _, step := range result.Steps {
				if step.Status == StepFailed {
					failed++
				}
			}
			if len(result.Errors) != failed {
				t.Fatalf("errors = %d, failed steps = %d", len(result.Errors), failed)
			}
		})
	}
}

func TestNewRejectsBadConfigurations(t *testing.T) {
	noop := succeed(nil, "")

	cases := []struct {
		name   string
		stages []Stage
	}{
		{"zero stages", nil},
		{"terminal not last", []Stage{
			{Name: "a", Kind: Terminal, Run: noop},
			{Name: "b", Kind: Terminal, Run: noop},
		}},
		{"gating last", []Stage{
			{Name: "a", Kind: Gating, Run: noop},
			{Name: "b", Kind: Gating, Run: noop},
		}},
		{"single gating stage", []Stage{
			{Name: "a", Kind: Gating, Run: noop},
		}},
		{"duplicate names", []Stage{
			{Name: "a", Kind: Gating, Run: noop},
			{Name: "a", Kind: Terminal, Run: noop},
		}},
		{"unnamed stage", []Stage{
			{Name: "", Kind: Terminal, Run: noop},
		}},
		{"missing run func", []Stage{
			{Name: "a", Kind: Terminal},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.stages)
			if err == nil {
				t.Fatal("expected configuration error")
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error type = %T, want *ConfigError", err)
			}
		})
	}
}

func TestNewAcceptsSingleTerminalStage(t *testing.T) {
	o, err := New([]Stage{{Name: "only", Kind: Terminal, Run: fail("boom")}})
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}

	result := o.Run(context.Background())
	if result.Status != StatusCompletedWithErrors {
		t.Fatalf("status = %s, want %s", result.Status, StatusCompletedWithErrors)
	}
}

type recordingObserver struct {
	records []StepRecord
}

func (r *recordingObserver) OnStepCompleted(record StepRecord) {
	r.records = append(r.records, record)
}

func TestObserverSeesEveryAttemptedStep(t *testing.T) {
	obs := &recordingObserver{}
	o, err := New(threeStages(
		succeed(1, "1"),
		succeed(2, "2"),
		fail("boom"),
	), WithObserver(obs))
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}

	result := o.Run(context.Background())

	if len(obs.records) != len(result.Steps) {
		t.Fatalf("observer saw %d records, result has %d steps", len(obs.records), len(result.Steps))
	}
	for i, record := range obs.records {
		if record.Name != result.Steps[i].Name {
			t.Fatalf("observer record %d = %s, result step = %s", i, record.Name, result.Steps[i].Name)
		}
	}
	if obs.records[2].Status != StepFailed {
		t.Fatalf("terminal record status = %s", obs.records[2].Status)
	}
}

func TestRunTimingUsesClock(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	clock := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	o, err := New([]Stage{{Name: "only", Kind: Terminal, Run: succeed(1, "1")}}, WithClock(clock))
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}

	result := o.Run(context.Background())

	if !result.FinishedAt.After(result.StartedAt) {
		t.Fatalf("finished %v not after started %v", result.FinishedAt, result.StartedAt)
	}
	if result.Duration() <= 0 {
		t.Fatalf("duration = %v", result.Duration())
	}
	step := result.Steps[0]
	if step.Duration() <= 0 {
		t.Fatalf("step duration = %v", step.Duration())
	}
}

func TestRunLoggerReceivesProgress(t *testing.T) {
	var lines []string
	logf := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	o, err := New([]Stage{{Name: "only", Kind: Terminal, Run: succeed(1, "done")}}, WithLogger(logf))
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	o.Run(context.Background())

	if len(lines) == 0 {
		t.Fatal("expected progress log lines")
	}
}
