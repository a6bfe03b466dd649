package workflow

import (
	"time"

	"kfly/internal/maintainer"
	"kfly/internal/output"
	"kfly/internal/task"
)

// Outcome is what happened to a task during a run.
type Outcome string

const (
	// OutcomeSucceeded means the task ran and succeeded.
	OutcomeSucceeded Outcome = "succeeded"

	// OutcomeFailed means the task ran and failed.
	OutcomeFailed Outcome = "failed"

	// OutcomeSkipped means the operator declined an interactive task.
	OutcomeSkipped Outcome = "skipped"

	// OutcomeNotRun means the run ended before the task was reached.
	OutcomeNotRun Outcome = "not-run"
)

// TaskResult records the outcome of one task.
type TaskResult struct {
	Task     task.Task
	Outcome  Outcome
	Err      error
	Duration time.Duration
}

// Summary describes a finished run.
type Summary struct {
	// PatchPath is the patch the run operated on.
	PatchPath string

	// Results has one entry per task, in declared order.
	Results []TaskResult

	// Aborted is true when a fail-fast task or a cancellation ended the run.
	Aborted bool

	// Maintainers are the contacts held by the context when the run ended.
	Maintainers []maintainer.Maintainer

	// Duration is the wall time of the whole run.
	Duration time.Duration
}

// Count returns the number of tasks with the given outcome.
func (s *Summary) Count(o Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}

// Failed returns the number of tasks that ran and failed.
func (s *Summary) Failed() int {
	return s.Count(OutcomeFailed)
}

// Rows converts the results for [output.Printer.Summary].
func (s *Summary) Rows() []output.SummaryRow {
	rows := make([]output.SummaryRow, len(s.Results))
	for i, r := range s.Results {
		rows[i] = output.SummaryRow{
			Name:     r.Task.Name,
			Outcome:  string(r.Outcome),
			Duration: r.Duration,
		}
	}
	return rows
}
