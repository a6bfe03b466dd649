// Package workflow runs a kfly workflow: an ordered list of tasks executed
// one at a time against a shared [ExecutionContext].
//
// The [Engine] owns the run. For each task it optionally asks the operator
// for confirmation, hands the task to a [Dispatcher], and applies the task's
// fail-fast policy to the outcome:
//   - interactive tasks the operator declines are skipped, not failed
//   - a failed task is always reported
//   - a failed fail-fast task aborts the run; the remaining tasks are not run
//   - a failed task without fail-fast is recorded and the run continues
//
// There is no retry and no parallelism. Dependencies are injected so the
// engine can be tested without spawning processes or reading a terminal.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kfly/internal/output"
	"kfly/internal/task"
)

// ErrAborted is returned by [Engine.Run] when a fail-fast task failed.
var ErrAborted = errors.New("workflow aborted")

// Dispatcher executes a single task against the run's context.
//
// Dispatch returns nil when the task succeeded. Any error is a task failure;
// the engine decides whether it ends the run.
type Dispatcher interface {
	Dispatch(ctx context.Context, execCtx *ExecutionContext, t task.Task) error
}

// Confirmer asks the operator whether an interactive task should run.
// It must return once ctx is cancelled.
type Confirmer interface {
	Confirm(ctx context.Context, name string) bool
}

// ProgressCallback is invoked before each task is considered.
//
// stepIndex is 1-based. The callback runs before the interactive prompt, so
// it also fires for tasks that end up skipped.
type ProgressCallback func(stepIndex, totalSteps int, t task.Task)

// Engine runs workflows.
//
// Use [NewEngine] to create an instance. A nil confirmer declines every
// interactive task.
type Engine struct {
	dispatcher       Dispatcher
	confirmer        Confirmer
	printer          *output.Printer
	progressCallback ProgressCallback
}

// NewEngine creates an Engine with the required dependencies.
func NewEngine(dispatcher Dispatcher, confirmer Confirmer, printer *output.Printer) *Engine {
	return &Engine{
		dispatcher: dispatcher,
		confirmer:  confirmer,
		printer:    printer,
	}
}

// SetProgressCallback configures an optional progress callback.
func (e *Engine) SetProgressCallback(cb ProgressCallback) {
	e.progressCallback = cb
}

// Run executes tasks in declared order against a fresh [ExecutionContext]
// for patchPath.
//
// The returned [Summary] is always non-nil and lists an outcome for every
// task. The error is nil when the list was exhausted, wraps [ErrAborted]
// when a fail-fast task failed, and is ctx.Err() when the context was
// cancelled before, during or after a task; the summary is then marked
// aborted. Failures of tasks without fail-fast do not
// produce an error; inspect [Summary.Failed] for them.
func (e *Engine) Run(ctx context.Context, tasks []task.Task, patchPath string) (*Summary, error) {
	start := time.Now()
	execCtx := NewExecutionContext(patchPath)
	summary := &Summary{
		PatchPath: patchPath,
		Results:   make([]TaskResult, 0, len(tasks)),
	}

	finish := func(err error) (*Summary, error) {
		for _, t := range tasks[len(summary.Results):] {
			summary.Results = append(summary.Results, TaskResult{Task: t, Outcome: OutcomeNotRun})
		}
		summary.Maintainers = execCtx.Maintainers()
		summary.Duration = time.Since(start)
		return summary, err
	}

	cancelled := func() (*Summary, error) {
		summary.Aborted = true
		return finish(ctx.Err())
	}

	total := len(tasks)
	for i, t := range tasks {
		if ctx.Err() != nil {
			return cancelled()
		}

		if e.progressCallback != nil {
			e.progressCallback(i+1, total, t)
		}
		e.printer.TaskStart(i+1, total, t.Name, t.Kind.String())

		if t.Interactive && !e.confirm(ctx, t.Name) {
			if ctx.Err() != nil {
				return cancelled()
			}
			e.printer.TaskSkipped(t.Name)
			summary.Results = append(summary.Results, TaskResult{Task: t, Outcome: OutcomeSkipped})
			continue
		}

		taskStart := time.Now()
		err := e.dispatcher.Dispatch(ctx, execCtx, t)
		result := TaskResult{Task: t, Duration: time.Since(taskStart)}

		if err == nil {
			result.Outcome = OutcomeSucceeded
			summary.Results = append(summary.Results, result)
			e.printer.TaskSuccess(t.Name, result.Duration)
			continue
		}

		result.Outcome = OutcomeFailed
		result.Err = err
		summary.Results = append(summary.Results, result)
		e.printer.TaskFailed(t.Name, err)

		if t.FailFast {
			summary.Aborted = true
			e.printer.Abort(t.Name, total-i-1)
			return finish(fmt.Errorf("%w: task %q failed: %w", ErrAborted, t.Name, err))
		}
	}

	if ctx.Err() != nil {
		return cancelled()
	}
	return finish(nil)
}

func (e *Engine) confirm(ctx context.Context, name string) bool {
	if e.confirmer == nil {
		return false
	}
	return e.confirmer.Confirm(ctx, name)
}
