package process

import (
	"context"
	"fmt"
)

// MockResult scripts the outcome of one executable in a [MockExecutor].
type MockResult struct {
	// ExitCode is returned in [Result.ExitCode].
	ExitCode int

	// Stdout is returned by Output calls.
	Stdout string

	// StartErr, when set, makes the call fail as if the process could not
	// be started. It is wrapped with [ErrStart].
	StartErr error
}

// MockExecutor implements [Executor] without spawning processes.
//
// Outcomes are looked up by [Invocation.Name] in Results; executables not
// listed there succeed with empty output. Every call is appended to
// Invocations, whether it succeeds or not.
type MockExecutor struct {
	// Results maps executable names to scripted outcomes.
	Results map[string]MockResult

	// Invocations records every call in order.
	Invocations []Invocation
}

// Run implements [Executor.Run].
func (m *MockExecutor) Run(ctx context.Context, inv Invocation) (Result, error) {
	result, err := m.call(inv)
	result.Stdout = nil
	return result, err
}

// Output implements [Executor.Output].
func (m *MockExecutor) Output(ctx context.Context, inv Invocation) (Result, error) {
	return m.call(inv)
}

// Names returns the executable of every recorded invocation, in order.
func (m *MockExecutor) Names() []string {
	names := make([]string, len(m.Invocations))
	for i, inv := range m.Invocations {
		names[i] = inv.Name
	}
	return names
}

func (m *MockExecutor) call(inv Invocation) (Result, error) {
	args := append([]string(nil), inv.Args...)
	m.Invocations = append(m.Invocations, Invocation{Name: inv.Name, Args: args, Dir: inv.Dir})

	scripted := m.Results[inv.Name]
	if scripted.StartErr != nil {
		return Result{ExitCode: -1}, fmt.Errorf("%w: %s: %v", ErrStart, inv.Name, scripted.StartErr)
	}

	return Result{ExitCode: scripted.ExitCode, Stdout: []byte(scripted.Stdout)}, nil
}
