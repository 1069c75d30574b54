package pipeline

import (
	"context"

	"videoai/internal/jobs"
)

// Stage is one step of a pipeline. Run performs the work, typically awaiting
// a single external collaborator call; the returned message, when non-empty,
// replaces Message in the progress update for dynamic stage summaries.
type Stage struct {
	Name     string
	Progress int
	Message  string
	Run      func(ctx context.Context, job *jobs.Job) (string, error)
}

// Pipeline is the ordered list of stages for one job kind. Result is invoked
// after every stage succeeds and produces the kind-specific completion
// payload from whatever state the stages accumulated.
type Pipeline struct {
	Kind              jobs.Kind
	Stages            []Stage
	Result            func() *jobs.Result
	StartMessage      string
	CompletionMessage string
}
