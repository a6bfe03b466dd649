package dispatch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"kfly/internal/maintainer"
	"kfly/internal/process"
	"kfly/internal/task"
	"kfly/internal/workflow"
)

// perlScriptSuffix marks discovery commands that are kernel perl scripts,
// such as scripts/get_maintainer.pl.
const perlScriptSuffix = ".pl"

// DiscoveryInvocation builds the command line for a discovery task.
//
// A command whose first word ends in ".pl" is run with perl, and a relative
// script path is resolved against the kernel root. The patch path is
// appended as the last argument unless an arg template already references
// it.
func (d *Dispatcher) DiscoveryInvocation(t task.Task, patchPath string) (process.Invocation, error) {
	words := t.CommandWords()
	if len(words) == 0 {
		return process.Invocation{}, fmt.Errorf("%s: %w", t.Name, ErrEmptyCommand)
	}

	if strings.HasSuffix(words[0], perlScriptSuffix) {
		script := words[0]
		if !filepath.IsAbs(script) {
			script = filepath.Join(d.opts.KernelRoot, script)
		}
		words = append([]string{"perl", script}, words[1:]...)
	}

	args := append(words[1:], t.ExpandArgs(patchPath)...)
	if !t.ReferencesPatch() {
		args = append(args, patchPath)
	}

	return process.Invocation{Name: words[0], Args: args, Dir: d.opts.KernelRoot}, nil
}

func (d *Dispatcher) runDiscovery(ctx context.Context, execCtx *workflow.ExecutionContext, t task.Task) error {
	inv, err := d.DiscoveryInvocation(t, execCtx.PatchPath())
	if err != nil {
		return err
	}

	d.printer.Info("Discovering maintainers: %s", inv)

	result, err := d.executor.Output(ctx, inv)
	if err := checkResult(inv, result, err); err != nil {
		return err
	}

	list := maintainer.Parse(string(result.Stdout))
	d.printer.Maintainers(list)
	execCtx.SetMaintainers(list)

	return nil
}
