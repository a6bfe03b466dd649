// Package task defines the declarative workflow steps executed by kfly.
//
// A [Task] is loaded from configuration and never changes during a run. Its
// [Kind] selects how the dispatcher executes it: the two built-in kinds
// ([KindDiscovery], [KindMail]) get special handling, everything else runs as
// a plain external command ([KindGeneric]).
//
// Kinds are resolved once, when the configuration is loaded, by
// [ResolveKind]. An explicit kind in the config wins; otherwise the task name
// is matched exactly against the built-in names.
package task

import (
	"errors"
	"fmt"
	"strings"
)

// PatchPlaceholder is replaced by the absolute patch path in task arguments.
const PatchPlaceholder = "{patch}"

// Built-in task names. A task with one of these names and no explicit kind
// resolves to the matching built-in kind.
const (
	NameDiscovery = "Get Maintainers"
	NameMail      = "Send Email"
)

// ErrUnknownKind is returned by [ParseKind] for an unrecognized kind value.
// It usually indicates a typo in the configuration file.
var ErrUnknownKind = errors.New("unknown task kind")

// Kind selects how a task is executed.
type Kind int

const (
	// KindGeneric runs the task command as an external process.
	KindGeneric Kind = iota

	// KindDiscovery runs the maintainer discovery tool and stores the
	// parsed contacts in the execution context.
	KindDiscovery

	// KindMail sends the patch to the recipients derived from the
	// discovered contacts.
	KindMail
)

// kindNames maps config spellings to kinds.
var kindNames = map[string]Kind{
	"generic":   KindGeneric,
	"discovery": KindDiscovery,
	"mail":      KindMail,
}

// builtinNames maps reserved task names to their built-in kinds.
var builtinNames = map[string]Kind{
	NameDiscovery: KindDiscovery,
	NameMail:      KindMail,
}

// String returns the config spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindDiscovery:
		return "discovery"
	case KindMail:
		return "mail"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsBuiltin reports whether the kind is handled specially by the dispatcher.
func (k Kind) IsBuiltin() bool {
	return k == KindDiscovery || k == KindMail
}

// ParseKind converts a config spelling into a [Kind].
func ParseKind(s string) (Kind, error) {
	k, ok := kindNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return KindGeneric, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// ResolveKind determines the kind of a task from its optional explicit kind
// and its name.
//
// A non-empty explicit kind is parsed with [ParseKind]. Otherwise the name is
// compared by exact string equality with [NameDiscovery] and [NameMail];
// any other name is generic.
func ResolveKind(explicit, name string) (Kind, error) {
	if explicit != "" {
		return ParseKind(explicit)
	}
	if k, ok := builtinNames[name]; ok {
		return k, nil
	}
	return KindGeneric, nil
}

// Task is one step of the workflow.
type Task struct {
	// Name labels the task in output and prompts.
	Name string

	// Kind selects how the task is dispatched.
	Kind Kind

	// Command is the executable name optionally followed by fixed
	// arguments, separated by whitespace (e.g. "git send-email").
	Command string

	// Args are argument templates appended after the command words.
	// Every occurrence of [PatchPlaceholder] is replaced by the patch path.
	Args []string

	// Interactive requires operator confirmation before the task runs.
	Interactive bool

	// FailFast aborts the whole workflow when this task fails.
	FailFast bool
}

// ExpandArgs returns the task arguments with every occurrence of
// [PatchPlaceholder] replaced by patchPath. No other text is changed.
func (t Task) ExpandArgs(patchPath string) []string {
	return ExpandArgs(t.Args, patchPath)
}

// ReferencesPatch reports whether any argument template contains
// [PatchPlaceholder].
func (t Task) ReferencesPatch() bool {
	for _, arg := range t.Args {
		if strings.Contains(arg, PatchPlaceholder) {
			return true
		}
	}
	return false
}

// CommandWords splits the task command on whitespace into the executable
// and its fixed leading arguments. It returns an empty slice for a blank
// command.
func (t Task) CommandWords() []string {
	return strings.Fields(t.Command)
}

// ExpandArgs replaces every occurrence of [PatchPlaceholder] in each template
// with patchPath.
func ExpandArgs(templates []string, patchPath string) []string {
	expanded := make([]string, len(templates))
	for i, arg := range templates {
		expanded[i] = strings.ReplaceAll(arg, PatchPlaceholder, patchPath)
	}
	return expanded
}
