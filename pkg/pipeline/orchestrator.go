// Package pipeline runs an ordered list of stages against a chain of
// artifacts. Each stage's input is the previous stage's output, so execution
// is strictly sequential. Gating stage failures abort the run; the terminal
// stage's failure is recorded but aborts nothing. Stage failures are always
// converted into data — Run never returns an error for them.
package pipeline

import (
	"context"
	"fmt"
	"time"
)

// ConfigError reports a malformed stage list. It signals misuse of the API at
// construction time and never appears inside a Result.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("pipeline configuration: %s", e.Reason)
}

// Observer receives a notification as each step record is appended. Purely an
// audit concern; the return-free call carries no control-flow weight.
type Observer interface {
	OnStepCompleted(StepRecord)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithObserver registers a step observer.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) { o.observer = obs }
}

// WithLogger sets a printf-style progress logger.
func WithLogger(logf func(format string, args ...any)) Option {
	return func(o *Orchestrator) { o.logf = logf }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// Orchestrator owns the ordered stage list for one run. Each run needs its
// own Orchestrator; nothing is shared across runs.
type Orchestrator struct {
	stages   []Stage
	observer Observer
	logf     func(format string, args ...any)
	now      func() time.Time
}

// New validates the stage list and builds an orchestrator. The list must be
// non-empty, stage names must be unique, and the terminal stage must be the
// last one and only the last one. Violations return a *ConfigError.
func New(stages []Stage, opts ...Option) (*Orchestrator, error) {
	if len(stages) == 0 {
		return nil, &ConfigError{Reason: "at least one stage is required"}
	}

	seen := make(map[string]struct{}, len(stages))
	for i, stage := range stages {
		if stage.Name == "" {
			return nil, &ConfigError{Reason: fmt.Sprintf("stage %d has no name", i)}
		}
		if stage.Run == nil {
			return nil, &ConfigError{Reason: fmt.Sprintf("stage %s has no run func", stage.Name)}
		}
		if _, ok := seen[stage.Name]; ok {
			return nil, &ConfigError{Reason: fmt.Sprintf("duplicate stage name: %s", stage.Name)}
		}
		seen[stage.Name] = struct{}{}

		last := i == len(stages)-1
		if last && stage.Kind != Terminal {
			return nil, &ConfigError{Reason: fmt.Sprintf("last stage %s must be terminal", stage.Name)}
		}
		if !last && stage.Kind != Gating {
			return nil, &ConfigError{Reason: fmt.Sprintf("stage %s must be gating: only the last stage may be terminal", stage.Name)}
		}
	}

	o := &Orchestrator{
		stages: stages,
		logf:   func(string, ...any) {},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Run executes the stages in declared order and returns the run result.
// Expected stage failures never surface as errors; the caller always gets a
// well-formed Result describing what succeeded, what failed, and why.
func (o *Orchestrator) Run(ctx context.Context) *Result {
	result := &Result{
		StartedAt: o.now().UTC(),
		Steps:     make([]StepRecord, 0, len(o.stages)),
		Errors:    []string{},
	}

	aborted := false
	var input any

	for _, stage := range o.stages {
		record := StepRecord{
			Name:      stage.Name,
			StartedAt: o.now().UTC(),
		}
		o.logf("stage %s (%s): starting", stage.Name, stage.Kind)

		output, ref, err := stage.Run(ctx, input)
		record.FinishedAt = o.now().UTC()

		if err != nil {
			record.Status = StepFailed
			record.Error = err.Error()
			result.Steps = append(result.Steps, record)
			result.Errors = append(result.Errors, err.Error())
			o.logf("stage %s: failed: %v", stage.Name, err)
			o.notify(record)

			if stage.Kind == Gating {
				aborted = true
				break
			}
			// Terminal stage: nothing left to abort, the loop ends here.
			continue
		}

		// Commit the output only on success so a failure never leaves
		// partial state behind.
		input = output
		record.Status = StepSuccess
		record.Output = ref
		result.Steps = append(result.Steps, record)
		o.logf("stage %s: done (%s)", stage.Name, ref)
		o.notify(record)
	}

	result.FinishedAt = o.now().UTC()
	switch {
	case aborted:
		result.Status = StatusFailed
	case len(result.Errors) > 0:
		result.Status = StatusCompletedWithErrors
	default:
		result.Status = StatusCompleted
	}
	return result
}

func (o *Orchestrator) notify(record StepRecord) {
	if o.observer != nil {
		o.observer.OnStepCompleted(record)
	}
}
