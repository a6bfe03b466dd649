// Package dispatch executes individual workflow tasks.
//
// A [Dispatcher] turns a [task.Task] into one subprocess invocation in the
// kernel root and reports success or failure to the workflow engine. The
// handling depends on the task kind:
//   - generic tasks run their command with {patch} substituted in the args
//   - discovery tasks capture stdout, parse maintainers and store them in
//     the execution context
//   - mail tasks derive recipients from the context and run the mail tool,
//     or only print the plan in dry-run mode
//
// The dispatcher never changes the patch path and only replaces the
// maintainer list wholesale.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"kfly/internal/output"
	"kfly/internal/process"
	"kfly/internal/task"
	"kfly/internal/workflow"
)

// Sentinel errors for task dispatch.
var (
	// ErrEmptyCommand is returned for a task whose command is blank.
	ErrEmptyCommand = errors.New("task has an empty command")

	// ErrNoTestEmail is returned by a mail task in test mode when no test
	// address is configured.
	ErrNoTestEmail = errors.New("test mode requires settings.test_email")

	// ErrExitStatus is wrapped by errors for processes that ran and exited
	// non-zero.
	ErrExitStatus = errors.New("command failed")
)

// Default mail flag prefixes, matching git send-email.
const (
	DefaultToFlag = "--to="
	DefaultCcFlag = "--cc="
)

// Options configure a [Dispatcher].
type Options struct {
	// KernelRoot is the working directory of every subprocess.
	KernelRoot string

	// Test redirects mail to TestEmail only.
	Test bool

	// DryRun prints the mail invocation instead of running it.
	DryRun bool

	// TestEmail is the only recipient in test mode.
	TestEmail string

	// ToFlag and CcFlag prefix each recipient argument. Empty values use
	// [DefaultToFlag] and [DefaultCcFlag].
	ToFlag string
	CcFlag string
}

// Dispatcher executes tasks. It implements [workflow.Dispatcher].
type Dispatcher struct {
	executor process.Executor
	printer  *output.Printer
	opts     Options
}

// New creates a Dispatcher that runs subprocesses with executor.
func New(executor process.Executor, printer *output.Printer, opts Options) *Dispatcher {
	if opts.ToFlag == "" {
		opts.ToFlag = DefaultToFlag
	}
	if opts.CcFlag == "" {
		opts.CcFlag = DefaultCcFlag
	}
	return &Dispatcher{
		executor: executor,
		printer:  printer,
		opts:     opts,
	}
}

// Dispatch implements [workflow.Dispatcher].
func (d *Dispatcher) Dispatch(ctx context.Context, execCtx *workflow.ExecutionContext, t task.Task) error {
	switch t.Kind {
	case task.KindDiscovery:
		return d.runDiscovery(ctx, execCtx, t)
	case task.KindMail:
		return d.runMail(ctx, execCtx, t)
	default:
		return d.runGeneric(ctx, execCtx, t)
	}
}

// GenericInvocation builds the command line for a generic task: the command
// words followed by the expanded args, run in the kernel root.
func (d *Dispatcher) GenericInvocation(t task.Task, patchPath string) (process.Invocation, error) {
	words := t.CommandWords()
	if len(words) == 0 {
		return process.Invocation{}, fmt.Errorf("%s: %w", t.Name, ErrEmptyCommand)
	}

	args := append(words[1:], t.ExpandArgs(patchPath)...)
	return process.Invocation{Name: words[0], Args: args, Dir: d.opts.KernelRoot}, nil
}

func (d *Dispatcher) runGeneric(ctx context.Context, execCtx *workflow.ExecutionContext, t task.Task) error {
	inv, err := d.GenericInvocation(t, execCtx.PatchPath())
	if err != nil {
		return err
	}

	result, err := d.executor.Run(ctx, inv)
	return checkResult(inv, result, err)
}

// checkResult maps a process outcome to a task error. Spawn failures and
// non-zero exits are worded differently but are both failures.
func checkResult(inv process.Invocation, result process.Result, err error) error {
	if err != nil {
		return fmt.Errorf("could not start %s: %w", inv.Name, err)
	}
	if !result.Success() {
		return fmt.Errorf("%w: %s exited with status %d", ErrExitStatus, inv.Name, result.ExitCode)
	}
	return nil
}
