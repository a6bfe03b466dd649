// Package process spawns the external tools a workflow is made of.
//
// Every subprocess kfly starts (maintainer discovery, mail sending, and
// user-defined steps) goes through an [Executor]. Calls are synchronous: the
// caller blocks until the process exits. No timeout is applied here;
// cancellation comes only from the context.
//
// Key types:
//   - [Invocation] describes one command line and its working directory
//   - [Result] carries the exit code and, for [Executor.Output], stdout
//   - [DefaultExecutor] runs real processes via os/exec
//   - [MockExecutor] records invocations for tests without spawning
//
// A process that could not be started is reported as an error wrapping
// [ErrStart]. A process that ran and exited non-zero is not an error at this
// level; callers inspect [Result.ExitCode].
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrStart indicates the process could not be started (missing binary,
// permission denied, bad working directory).
var ErrStart = errors.New("command could not be started")

// Invocation is a fully assembled command line.
type Invocation struct {
	// Name is the executable, looked up in PATH when it has no separator.
	Name string

	// Args are the arguments after the executable.
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// Argv returns the executable followed by its arguments.
func (inv Invocation) Argv() []string {
	return append([]string{inv.Name}, inv.Args...)
}

// String renders the command line for display, quoting words that contain
// whitespace or are empty.
func (inv Invocation) String() string {
	words := inv.Argv()
	for i, w := range words {
		if w == "" || strings.ContainsAny(w, " \t\n'\"") {
			words[i] = fmt.Sprintf("%q", w)
		}
	}
	return strings.Join(words, " ")
}

// Result is the outcome of a process that was started.
type Result struct {
	// ExitCode is the process exit status. It is -1 when the process was
	// killed by a signal.
	ExitCode int

	// Stdout holds captured standard output. Only set by [Executor.Output].
	Stdout []byte
}

// Success reports whether the process exited with status zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Executor runs external processes.
type Executor interface {
	// Run executes inv with standard output and error passed through to the
	// executor's writers.
	Run(ctx context.Context, inv Invocation) (Result, error)

	// Output executes inv and captures its standard output in
	// [Result.Stdout]. Standard error is still passed through.
	Output(ctx context.Context, inv Invocation) (Result, error)
}

// DefaultExecutor implements [Executor] with os/exec.
//
// Create instances with [NewExecutor]. The zero value discards all output
// and gives the child no stdin.
type DefaultExecutor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecutor returns a [DefaultExecutor] wired to the process's own
// standard streams.
func NewExecutor() *DefaultExecutor {
	return &DefaultExecutor{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run implements [Executor.Run].
func (e *DefaultExecutor) Run(ctx context.Context, inv Invocation) (Result, error) {
	return e.run(ctx, inv, e.Stdout)
}

// Output implements [Executor.Output].
func (e *DefaultExecutor) Output(ctx context.Context, inv Invocation) (Result, error) {
	var stdout bytes.Buffer
	result, err := e.run(ctx, inv, &stdout)
	result.Stdout = stdout.Bytes()
	return result, err
}

func (e *DefaultExecutor) run(ctx context.Context, inv Invocation, stdout io.Writer) (Result, error) {
	if inv.Name == "" {
		return Result{ExitCode: -1}, fmt.Errorf("%w: empty command", ErrStart)
	}

	cmd := exec.CommandContext(ctx, inv.Name, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Stdin = e.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = e.Stderr

	err := cmd.Run()
	if err == nil {
		return Result{ExitCode: 0}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Result{ExitCode: exitErr.ExitCode()}, nil
	}

	return Result{ExitCode: -1}, fmt.Errorf("%w: %s: %v", ErrStart, inv.Name, err)
}
