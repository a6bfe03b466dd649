// Package maintainer parses the output of a maintainer discovery tool (such as
// the kernel's scripts/get_maintainer.pl) and classifies the discovered
// contacts into mail recipients.
//
// Key types:
//   - [Maintainer] is one contact extracted from a line of tool output
//   - [Recipients] holds the deduplicated To and Cc address lists
//
// Parsing is lenient: lines that do not look like a contact are skipped
// rather than reported as errors, since discovery tools freely mix
// statistics and blank lines into their output.
package maintainer

import (
	"bufio"
	"errors"
	"io"
	"regexp"
	"strings"
)

// Maintainer is a contact reported by the discovery tool.
type Maintainer struct {
	// Name is the display name, e.g. "Jane Doe".
	Name string `yaml:"name"`

	// Email is the address between the angle brackets.
	Email string `yaml:"email"`

	// Role is the free-text role in parentheses, e.g. "maintainer:DRIVER".
	Role string `yaml:"role"`
}

// linePattern matches a full line of the form "Name <email> (role)".
var linePattern = regexp.MustCompile(`^(?P<name>.*?) <(?P<email>.*?)> \((?P<role>.*?)\)$`)

// Parse extracts one [Maintainer] per matching line of text.
//
// Lines are matched independently and in order; a line that does not match
// "Name <email> (role)" in its entirety is dropped. The returned slice is
// never nil.
func Parse(text string) []Maintainer {
	list := []Maintainer{}
	for line := range strings.Lines(text) {
		if m, ok := ParseLine(strings.TrimSuffix(line, "\n")); ok {
			list = append(list, m)
		}
	}
	return list
}

// ParseReader is like [Parse] but reads lines from r. Lines have no length
// limit.
//
// The error is the read error, if any; records parsed before the error are
// still returned.
func ParseReader(r io.Reader) ([]Maintainer, error) {
	list := []Maintainer{}

	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if m, ok := ParseLine(strings.TrimSuffix(line, "\n")); ok {
				list = append(list, m)
			}
		}
		if errors.Is(err, io.EOF) {
			return list, nil
		}
		if err != nil {
			return list, err
		}
	}
}

// ParseLine parses a single line. It reports false when the line is not a
// contact line.
func ParseLine(line string) (Maintainer, bool) {
	line = strings.TrimSuffix(line, "\r")

	match := linePattern.FindStringSubmatch(line)
	if match == nil {
		return Maintainer{}, false
	}

	return Maintainer{
		Name:  match[linePattern.SubexpIndex("name")],
		Email: match[linePattern.SubexpIndex("email")],
		Role:  match[linePattern.SubexpIndex("role")],
	}, true
}
