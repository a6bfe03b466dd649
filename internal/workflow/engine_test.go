package workflow

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kfly/internal/maintainer"
	"kfly/internal/output"
	"kfly/internal/task"
)

// mockDispatcher records dispatched task names and fails the configured ones.
type mockDispatcher struct {
	dispatched []string
	fail       map[string]bool
	discovered []maintainer.Maintainer
	seen       map[string][]maintainer.Maintainer
	onDispatch func()
}

func (m *mockDispatcher) Dispatch(ctx context.Context, execCtx *ExecutionContext, t task.Task) error {
	m.dispatched = append(m.dispatched, t.Name)
	if m.seen == nil {
		m.seen = make(map[string][]maintainer.Maintainer)
	}
	m.seen[t.Name] = execCtx.Maintainers()
	if m.onDispatch != nil {
		m.onDispatch()
	}

	if m.fail[t.Name] {
		return errors.New("exited with status 1")
	}
	if t.Kind == task.KindDiscovery {
		execCtx.SetMaintainers(m.discovered)
	}
	return nil
}

// mockConfirmer answers by task name and records the questions asked.
type mockConfirmer struct {
	answers   map[string]bool
	asked     []string
	onConfirm func()
}

func (m *mockConfirmer) Confirm(_ context.Context, name string) bool {
	m.asked = append(m.asked, name)
	if m.onConfirm != nil {
		m.onConfirm()
	}
	return m.answers[name]
}

func setupEngine(d Dispatcher, c Confirmer) (*Engine, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewEngine(d, c, output.NewPrinterWithWriter(buf)), buf
}

func outcomes(s *Summary) []Outcome {
	out := make([]Outcome, len(s.Results))
	for i, r := range s.Results {
		out[i] = r.Outcome
	}
	return out
}

func TestEngine_Run(t *testing.T) {
	tests := []struct {
		name           string
		tasks          []task.Task
		fail           map[string]bool
		answers        map[string]bool
		wantDispatched []string
		wantOutcomes   []Outcome
		wantAborted    bool
		wantErr        bool
	}{
		{
			name:           "all tasks run in declared order",
			tasks:          []task.Task{{Name: "A"}, {Name: "B"}, {Name: "C"}},
			wantDispatched: []string{"A", "B", "C"},
			wantOutcomes:   []Outcome{OutcomeSucceeded, OutcomeSucceeded, OutcomeSucceeded},
		},
		{
			name:           "fail-fast failure stops the run",
			tasks:          []task.Task{{Name: "A", FailFast: true}, {Name: "B"}},
			fail:           map[string]bool{"A": true},
			wantDispatched: []string{"A"},
			wantOutcomes:   []Outcome{OutcomeFailed, OutcomeNotRun},
			wantAborted:    true,
			wantErr:        true,
		},
		{
			name:           "failure without fail-fast continues",
			tasks:          []task.Task{{Name: "A"}, {Name: "B"}},
			fail:           map[string]bool{"A": true},
			wantDispatched: []string{"A", "B"},
			wantOutcomes:   []Outcome{OutcomeFailed, OutcomeSucceeded},
		},
		{
			name:           "declined interactive task is skipped",
			tasks:          []task.Task{{Name: "A", Interactive: true, FailFast: true}, {Name: "B"}},
			answers:        map[string]bool{"A": false},
			wantDispatched: []string{"B"},
			wantOutcomes:   []Outcome{OutcomeSkipped, OutcomeSucceeded},
		},
		{
			name:           "confirmed interactive task runs",
			tasks:          []task.Task{{Name: "A", Interactive: true}},
			answers:        map[string]bool{"A": true},
			wantDispatched: []string{"A"},
			wantOutcomes:   []Outcome{OutcomeSucceeded},
		},
		{
			name: "fail-fast in the middle",
			tasks: []task.Task{
				{Name: "A"}, {Name: "B", FailFast: true}, {Name: "C"}, {Name: "D"},
			},
			fail:           map[string]bool{"B": true},
			wantDispatched: []string{"A", "B"},
			wantOutcomes:   []Outcome{OutcomeSucceeded, OutcomeFailed, OutcomeNotRun, OutcomeNotRun},
			wantAborted:    true,
			wantErr:        true,
		},
		{
			name:         "empty workflow",
			tasks:        nil,
			wantOutcomes: []Outcome{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher := &mockDispatcher{fail: tt.fail}
			confirmer := &mockConfirmer{answers: tt.answers}
			engine, _ := setupEngine(dispatcher, confirmer)

			summary, err := engine.Run(context.Background(), tt.tasks, "/tmp/0001.patch")

			require.NotNil(t, summary)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrAborted)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantDispatched, dispatcher.dispatched)
			assert.Equal(t, tt.wantOutcomes, outcomes(summary))
			assert.Equal(t, tt.wantAborted, summary.Aborted)
		})
	}
}

func TestEngine_Run_OnlyInteractiveTasksAreConfirmed(t *testing.T) {
	confirmer := &mockConfirmer{answers: map[string]bool{"B": true}}
	engine, _ := setupEngine(&mockDispatcher{}, confirmer)

	_, err := engine.Run(context.Background(), []task.Task{
		{Name: "A"}, {Name: "B", Interactive: true}, {Name: "C"},
	}, "/p")

	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, confirmer.asked)
}

func TestEngine_Run_NilConfirmerDeclines(t *testing.T) {
	dispatcher := &mockDispatcher{}
	engine, _ := setupEngine(dispatcher, nil)

	summary, err := engine.Run(context.Background(), []task.Task{{Name: "A", Interactive: true}}, "/p")

	require.NoError(t, err)
	assert.Empty(t, dispatcher.dispatched)
	assert.Equal(t, 1, summary.Count(OutcomeSkipped))
}

func TestEngine_Run_MaintainersFlowBetweenTasks(t *testing.T) {
	discovered := []maintainer.Maintainer{
		{Name: "Jane Doe", Email: "jane@x.org", Role: "maintainer:DRIVER"},
	}
	dispatcher := &mockDispatcher{discovered: discovered}
	engine, _ := setupEngine(dispatcher, nil)

	summary, err := engine.Run(context.Background(), []task.Task{
		{Name: "Send Early", Kind: task.KindMail},
		{Name: "Get Maintainers", Kind: task.KindDiscovery},
		{Name: "Send Email", Kind: task.KindMail},
	}, "/p")

	require.NoError(t, err)
	assert.Empty(t, dispatcher.seen["Send Early"], "mail before discovery sees no maintainers")
	assert.Equal(t, discovered, dispatcher.seen["Send Email"])
	assert.Equal(t, discovered, summary.Maintainers)
}

func TestEngine_Run_FailedDiscoveryKeepsPreviousMaintainers(t *testing.T) {
	first := []maintainer.Maintainer{{Name: "A", Email: "a@x.org", Role: "maintainer"}}
	dispatcher := &mockDispatcher{discovered: first}
	engine, _ := setupEngine(dispatcher, nil)

	_, err := engine.Run(context.Background(), []task.Task{
		{Name: "discover", Kind: task.KindDiscovery},
		{Name: "discover again", Kind: task.KindDiscovery},
		{Name: "mail", Kind: task.KindMail},
	}, "/p")
	require.NoError(t, err)
	assert.Equal(t, first, dispatcher.seen["mail"])

	dispatcher = &mockDispatcher{discovered: first, fail: map[string]bool{"discover again": true}}
	engine, _ = setupEngine(dispatcher, nil)
	_, err = engine.Run(context.Background(), []task.Task{
		{Name: "discover", Kind: task.KindDiscovery},
		{Name: "discover again", Kind: task.KindDiscovery},
		{Name: "mail", Kind: task.KindMail},
	}, "/p")
	require.NoError(t, err)
	assert.Equal(t, first, dispatcher.seen["mail"])
}

func TestEngine_Run_ProgressCallback(t *testing.T) {
	engine, _ := setupEngine(&mockDispatcher{}, nil)

	var calls []string
	engine.SetProgressCallback(func(stepIndex, totalSteps int, tk task.Task) {
		calls = append(calls, tk.Name)
		assert.Equal(t, 2, totalSteps)
	})

	_, err := engine.Run(context.Background(), []task.Task{{Name: "A"}, {Name: "B", Interactive: true}}, "/p")

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, calls)
}

func TestEngine_Run_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	dispatcher := &mockDispatcher{onDispatch: cancel}
	engine, _ := setupEngine(dispatcher, nil)

	summary, err := engine.Run(ctx, []task.Task{{Name: "A"}, {Name: "B"}}, "/p")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"A"}, dispatcher.dispatched)
	assert.Equal(t, []Outcome{OutcomeSucceeded, OutcomeNotRun}, outcomes(summary))
	assert.True(t, summary.Aborted)
}

func TestEngine_Run_CancelledAtLastPrompt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dispatcher := &mockDispatcher{}
	engine, buf := setupEngine(dispatcher, &mockConfirmer{onConfirm: cancel})

	summary, err := engine.Run(ctx, []task.Task{
		{Name: "checkpatch"},
		{Name: "Send Email", Kind: task.KindMail, Interactive: true},
	}, "/p")

	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, summary.Aborted)
	assert.Equal(t, []string{"checkpatch"}, dispatcher.dispatched)
	assert.Equal(t, []Outcome{OutcomeSucceeded, OutcomeNotRun}, outcomes(summary))
	assert.NotContains(t, buf.String(), "skipped")
}

func TestEngine_Run_CancelledDuringLastTask(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dispatcher := &mockDispatcher{onDispatch: cancel}
	engine, _ := setupEngine(dispatcher, nil)

	summary, err := engine.Run(ctx, []task.Task{{Name: "A"}}, "/p")

	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, summary.Aborted)
	assert.Equal(t, []Outcome{OutcomeSucceeded}, outcomes(summary))
}

func TestEngine_Run_Output(t *testing.T) {
	dispatcher := &mockDispatcher{fail: map[string]bool{"build": true}}
	engine, buf := setupEngine(dispatcher, &mockConfirmer{})

	_, err := engine.Run(context.Background(), []task.Task{
		{Name: "checkpatch"},
		{Name: "Send Email", Kind: task.KindMail, Interactive: true},
		{Name: "build", FailFast: true},
	}, "/p")

	require.Error(t, err)
	out := buf.String()
	assert.Contains(t, out, "Running task: checkpatch")
	assert.Contains(t, out, "Task success:")
	assert.Contains(t, out, "Send Email skipped")
	assert.Contains(t, out, "Task failed:")
	assert.Contains(t, out, "Workflow aborted:")
}

func TestSummary(t *testing.T) {
	s := &Summary{Results: []TaskResult{
		{Task: task.Task{Name: "A"}, Outcome: OutcomeSucceeded},
		{Task: task.Task{Name: "B"}, Outcome: OutcomeFailed},
		{Task: task.Task{Name: "C"}, Outcome: OutcomeFailed},
		{Task: task.Task{Name: "D"}, Outcome: OutcomeSkipped},
	}}

	assert.Equal(t, 2, s.Failed())
	assert.Equal(t, 1, s.Count(OutcomeSkipped))

	rows := s.Rows()
	require.Len(t, rows, 4)
	assert.Equal(t, "B", rows[1].Name)
	assert.Equal(t, "failed", rows[1].Outcome)
}

func TestExecutionContext(t *testing.T) {
	c := NewExecutionContext("/p")

	assert.Equal(t, "/p", c.PatchPath())
	assert.NotNil(t, c.Maintainers())
	assert.Empty(t, c.Maintainers())

	list := []maintainer.Maintainer{{Email: "a@x.org"}}
	c.SetMaintainers(list)
	list[0].Email = "changed@x.org"
	assert.Equal(t, "a@x.org", c.Maintainers()[0].Email, "context keeps its own copy")

	c.SetMaintainers(nil)
	assert.Empty(t, c.Maintainers(), "discovery overwrites, never merges")
}
