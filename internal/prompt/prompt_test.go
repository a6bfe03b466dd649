package prompt

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAsker struct {
	asked []string
}

func (a *recordingAsker) Prompt(name string) {
	a.asked = append(a.asked, name)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("input/output error")
}

func TestLineConfirmer_Confirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "lower y", input: "y\n", want: true},
		{name: "upper Y", input: "Y\n", want: true},
		{name: "surrounding whitespace", input: "  y \r\n", want: true},
		{name: "n declines", input: "n\n", want: false},
		{name: "yes is not y", input: "yes\n", want: false},
		{name: "empty line declines", input: "\n", want: false},
		{name: "eof declines", input: "", want: false},
		{name: "answer without newline before eof", input: "y", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asker := &recordingAsker{}
			c := NewLineConfirmer(strings.NewReader(tt.input), asker)

			assert.Equal(t, tt.want, c.Confirm(context.Background(), "Send Email"))
			assert.Equal(t, []string{"Send Email"}, asker.asked)
		})
	}
}

func TestLineConfirmer_OneLinePerQuestion(t *testing.T) {
	c := NewLineConfirmer(strings.NewReader("y\nn\nY\n"), nil)

	assert.True(t, c.Confirm(context.Background(), "first"))
	assert.False(t, c.Confirm(context.Background(), "second"))
	assert.True(t, c.Confirm(context.Background(), "third"))
	assert.False(t, c.Confirm(context.Background(), "past the end"))
}

func TestLineConfirmer_ReadFailureDeclines(t *testing.T) {
	c := NewLineConfirmer(failingReader{}, nil)

	assert.False(t, c.Confirm(context.Background(), "task"))
}

func TestLineConfirmer_LeavesRemainingInput(t *testing.T) {
	in := strings.NewReader("y\nanswer for the child\n")
	c := NewLineConfirmer(in, nil)

	assert.True(t, c.Confirm(context.Background(), "task"))

	rest, err := io.ReadAll(in)
	require.NoError(t, err)
	assert.Equal(t, "answer for the child\n", string(rest))
}

// cancellingAsker cancels the run when the question is printed.
type cancellingAsker struct {
	cancel context.CancelFunc
}

func (a cancellingAsker) Prompt(string) {
	a.cancel()
}

func TestLineConfirmer_CancelledWhileWaiting(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := NewLineConfirmer(pr, cancellingAsker{cancel: cancel})

	done := make(chan bool, 1)
	go func() { done <- c.Confirm(ctx, "Send Email") }()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("Confirm did not return after cancellation")
	}
}

func TestLineConfirmer_CancelledBeforeAsking(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	asker := &recordingAsker{}
	c := NewLineConfirmer(strings.NewReader("y\n"), asker)

	assert.False(t, c.Confirm(ctx, "task"))
	assert.Empty(t, asker.asked)
}

func TestAlwaysYes(t *testing.T) {
	assert.True(t, AlwaysYes{}.Confirm(context.Background(), "anything"))
}
