package workflow

import "kfly/internal/maintainer"

// ExecutionContext is the state shared by the tasks of one workflow run.
//
// The engine creates exactly one context per run and passes it by pointer to
// the dispatcher. The patch path is fixed at construction. The maintainer
// list starts empty and is replaced wholesale by each successful discovery
// task; it is never merged.
type ExecutionContext struct {
	patchPath   string
	maintainers []maintainer.Maintainer
}

// NewExecutionContext returns a context for the given absolute patch path.
func NewExecutionContext(patchPath string) *ExecutionContext {
	return &ExecutionContext{
		patchPath:   patchPath,
		maintainers: []maintainer.Maintainer{},
	}
}

// PatchPath returns the resolved absolute path of the patch.
func (c *ExecutionContext) PatchPath() string {
	return c.patchPath
}

// Maintainers returns the contacts from the most recent successful discovery.
func (c *ExecutionContext) Maintainers() []maintainer.Maintainer {
	return c.maintainers
}

// SetMaintainers replaces the discovered contacts.
func (c *ExecutionContext) SetMaintainers(list []maintainer.Maintainer) {
	c.maintainers = append([]maintainer.Maintainer{}, list...)
}
