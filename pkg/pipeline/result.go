package pipeline

import "time"

// StepStatus is the outcome of a single attempted stage.
type StepStatus string

const (
	StepSuccess StepStatus = "success"
	StepFailed  StepStatus = "failed"
)

// RunStatus is the outcome of a whole run.
type RunStatus string

const (
	// StatusCompleted means every attempted stage succeeded.
	StatusCompleted RunStatus = "completed"
	// StatusCompletedWithErrors means every gating stage succeeded but the
	// terminal stage failed.
	StatusCompletedWithErrors RunStatus = "completed_with_errors"
	// StatusFailed means a gating stage failed and the run aborted.
	StatusFailed RunStatus = "failed"
)

// StepRecord captures the outcome of one attempted stage. A record exists if
// and only if the stage was attempted; stages after an aborting gating failure
// leave no record.
type StepRecord struct {
	Name       string     `json:"name"`
	Status     StepStatus `json:"status"`
	Output     string     `json:"output,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
}

// Duration returns the elapsed time of the step.
func (r StepRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Result aggregates a single run. Steps are in execution order and Errors
// holds one entry per failed step, append-only. Its JSON form is the
// persisted execution log.
type Result struct {
	Status     RunStatus    `json:"status"`
	Steps      []StepRecord `json:"steps"`
	Errors     []string     `json:"errors"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
}

// Step returns the record for the named stage, if it was attempted.
func (r *Result) Step(name string) (StepRecord, bool) {
	for _, step := range r.Steps {
		if step.Name == name {
			return step, true
		}
	}
	return StepRecord{}, false
}

// Duration returns the elapsed time of the run.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
