package dispatch

import (
	"context"
	"fmt"
	"strings"

	"kfly/internal/maintainer"
	"kfly/internal/output"
	"kfly/internal/process"
	"kfly/internal/task"
	"kfly/internal/workflow"
)

// MailInvocation builds the command line for a mail task.
//
// The arguments are the command words, then a recipient flag per address,
// then the expanded task args. The patch path is appended last unless an arg
// template already references it. In test mode the only recipient is the
// configured test address and the classified recipients are ignored.
//
// The returned recipients are the ones actually addressed.
func (d *Dispatcher) MailInvocation(t task.Task, patchPath string, maintainers []maintainer.Maintainer) (process.Invocation, maintainer.Recipients, error) {
	words := t.CommandWords()
	if len(words) == 0 {
		return process.Invocation{}, maintainer.Recipients{}, fmt.Errorf("%s: %w", t.Name, ErrEmptyCommand)
	}

	var recipients maintainer.Recipients
	if d.opts.Test {
		if d.opts.TestEmail == "" {
			return process.Invocation{}, maintainer.Recipients{}, ErrNoTestEmail
		}
		recipients = maintainer.Recipients{To: []string{d.opts.TestEmail}, Cc: []string{}}
	} else {
		recipients = maintainer.Classify(maintainers)
	}

	args := append([]string{}, words[1:]...)
	for _, email := range recipients.To {
		args = append(args, recipientArgs(d.opts.ToFlag, email)...)
	}
	for _, email := range recipients.Cc {
		args = append(args, recipientArgs(d.opts.CcFlag, email)...)
	}
	args = append(args, t.ExpandArgs(patchPath)...)
	if !t.ReferencesPatch() {
		args = append(args, patchPath)
	}

	return process.Invocation{Name: words[0], Args: args, Dir: d.opts.KernelRoot}, recipients, nil
}

// recipientArgs renders one recipient flag. A prefix ending in whitespace,
// such as "-t ", is a separate argument from the address; any other prefix
// is joined to it, as in "--to=addr".
func recipientArgs(flag, email string) []string {
	if trimmed := strings.TrimRight(flag, " \t"); trimmed != flag {
		return []string{trimmed, email}
	}
	return []string{flag + email}
}

func (d *Dispatcher) runMail(ctx context.Context, execCtx *workflow.ExecutionContext, t task.Task) error {
	inv, recipients, err := d.MailInvocation(t, execCtx.PatchPath(), execCtx.Maintainers())
	if err != nil {
		return err
	}

	d.printer.MailPlan(output.MailPlan{
		Test:    d.opts.Test,
		To:      recipients.To,
		Cc:      recipients.Cc,
		Patch:   execCtx.PatchPath(),
		Command: inv.String(),
	})

	switch {
	case recipients.Empty():
		d.printer.Warning("No recipients; sending anyway")
	case len(recipients.To) == 0:
		d.printer.Warning("No maintainers in To; sending to Cc only")
	}

	if d.opts.DryRun {
		d.printer.DryRun()
		return nil
	}

	d.printer.Info("Launching %s...", inv.Name)
	result, err := d.executor.Run(ctx, inv)
	return checkResult(inv, result, err)
}
