package pipeline

import "context"

// StageKind classifies how a stage failure affects the rest of the run.
type StageKind int

const (
	// Gating marks a stage whose failure aborts the remainder of the run.
	Gating StageKind = iota
	// Terminal marks the final stage. Its failure is recorded but aborts
	// nothing, because nothing runs after it.
	Terminal
)

// String returns the kind identifier used in logs.
func (k StageKind) String() string {
	switch k {
	case Gating:
		return "gating"
	case Terminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// StageFunc is one unit of pipeline work. It receives the previous stage's
// output (nil for the first stage) and returns its own output plus a short
// human-readable reference for the step log, such as a quote count or a file
// path. The call is delegated verbatim; retries, if any, belong inside the
// collaborator.
type StageFunc func(ctx context.Context, input any) (output any, ref string, err error)

// Stage wraps a single collaborator call with a name and a failure
// classification. Stages are stateless; the orchestrator owns all run state.
type Stage struct {
	Name string
	Kind StageKind
	Run  StageFunc
}
