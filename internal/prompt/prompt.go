// Package prompt asks the operator to confirm interactive tasks.
//
// Answers are read one byte at a time up to the newline, so nothing past
// the answer is consumed. Task subprocesses share the same stdin and still
// see any input that follows.
package prompt

import (
	"context"
	"errors"
	"io"
	"strings"
)

// Asker writes the confirmation question for a task.
// [output.Printer] implements it.
type Asker interface {
	Prompt(name string)
}

// LineConfirmer reads one line per question from an input stream.
//
// Only a trimmed answer of exactly "y" or "Y" confirms. Any other answer,
// an empty line, or a read failure (EOF, closed stdin) declines, so a run
// without a terminal skips interactive tasks instead of blocking on them.
// Cancelling the context while waiting for an answer also declines.
type LineConfirmer struct {
	in    io.Reader
	asker Asker
}

// NewLineConfirmer returns a [LineConfirmer] reading answers from in. The
// asker may be nil, in which case no question is printed.
func NewLineConfirmer(in io.Reader, asker Asker) *LineConfirmer {
	return &LineConfirmer{
		in:    in,
		asker: asker,
	}
}

// Confirm asks whether the named task should run.
//
// A read still pending when ctx is cancelled is abandoned; the run is
// ending at that point.
func (c *LineConfirmer) Confirm(ctx context.Context, name string) bool {
	if ctx.Err() != nil {
		return false
	}
	if c.asker != nil {
		c.asker.Prompt(name)
	}

	answer := make(chan bool, 1)
	go func() {
		line, err := readLine(c.in)
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			answer <- false
			return
		}
		answer <- IsYes(line)
	}()

	select {
	case ok := <-answer:
		return ok
	case <-ctx.Done():
		return false
	}
}

// readLine reads up to and including the next newline and returns the line
// without it.
func readLine(r io.Reader) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				return sb.String(), nil
			}
			sb.WriteByte(buf[0])
		}
		if err != nil {
			return sb.String(), err
		}
	}
}

// IsYes reports whether answer is an affirmative reply.
func IsYes(answer string) bool {
	answer = strings.TrimSpace(answer)
	return answer == "y" || answer == "Y"
}

// AlwaysYes confirms every task. It backs the --yes flag.
type AlwaysYes struct{}

// Confirm implements the workflow confirmer and always returns true.
func (AlwaysYes) Confirm(context.Context, string) bool {
	return true
}
