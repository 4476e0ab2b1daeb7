// Package cascade runs multi-step deletes as ordered lists of idempotent steps.
//
// Plans are not transactional: a failing step stops the run and leaves earlier
// steps applied. Every step must be safe to re-run, so repeating the delete
// finishes the cleanup.
package cascade

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Step is one idempotent unit of a Plan. Apply returns the number of documents it changed.
type Step struct {
	Name  string
	Apply func(ctx context.Context) (int, error)
}

// Plan is a named, ordered list of steps.
type Plan struct {
	Name  string
	Steps []Step
}

// StepResult describes a completed step.
type StepResult struct {
	Step     string        `json:"step"`
	Affected int           `json:"affected"`
	Took     time.Duration `json:"took"`
}

// Report is what a run did, step by step.
type Report struct {
	Plan    string       `json:"plan"`
	Results []StepResult `json:"results"`
	Failed  string       `json:"failed,omitempty"`
}

// Affected sums the documents changed by every completed step.
func (r Report) Affected() int {
	var n int
	for _, res := range r.Results {
		n += res.Affected
	}
	return n
}

// Completed reports whether every step of the plan ran.
func (r Report) Completed() bool { return r.Failed == "" }

// StepError is returned by Run when a step fails.
type StepError struct {
	Plan string
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Run applies the steps in order and stops at the first failure.
// A cancelled ctx stops the run between steps.
func (p Plan) Run(ctx context.Context) (Report, error) {
	report := Report{Plan: p.Name, Results: make([]StepResult, 0, len(p.Steps))}
	for _, step := range p.Steps {
		if err := ctx.Err(); err != nil {
			report.Failed = step.Name
			return report, &StepError{Plan: p.Name, Step: step.Name, Err: errors.Wrap(err, "cancelled")}
		}
		start := time.Now()
		n, err := step.Apply(ctx)
		if err != nil {
			report.Failed = step.Name
			return report, &StepError{Plan: p.Name, Step: step.Name, Err: err}
		}
		report.Results = append(report.Results, StepResult{Step: step.Name, Affected: n, Took: time.Since(start)})
	}
	return report, nil
}

// Count adapts a (bool, error) store call to a Step's Apply.
func Count(fn func(ctx context.Context) (bool, error)) func(ctx context.Context) (int, error) {
	return func(ctx context.Context) (int, error) {
		ok, err := fn(ctx)
		if ok {
			return 1, err
		}
		return 0, err
	}
}
