// Package output renders kfly's console output.
//
// All operator-facing text goes through a [Printer]: run headers, task
// progress, discovered maintainers, the mail execution plan and the final
// summary. Styling uses lipgloss and degrades to plain text when the writer
// is not a terminal, which keeps test assertions simple.
//
// Use [NewPrinter] for stdout and [NewPrinterWithWriter] to capture output
// in tests.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"kfly/internal/maintainer"
	"kfly/internal/task"
)

// Printer writes styled output to a writer.
type Printer struct {
	out    io.Writer
	styles styles
}

// NewPrinter returns a [Printer] that writes to stdout.
func NewPrinter() *Printer {
	return NewPrinterWithWriter(os.Stdout)
}

// NewPrinterWithWriter returns a [Printer] that writes to w.
func NewPrinterWithWriter(w io.Writer) *Printer {
	return &Printer{
		out:    w,
		styles: newStyles(lipgloss.NewRenderer(w)),
	}
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.out
}

func (p *Printer) println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

func (p *Printer) printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// RunHeader prints the banner shown before the first task.
func (p *Printer) RunHeader(patch, kernelRoot string, taskCount int, dryRun, test bool) {
	lines := []string{
		p.styles.header.Render("kfly: " + patch),
		fmt.Sprintf("Kernel root: %s", kernelRoot),
		fmt.Sprintf("Tasks: %d | Dry run: %s | Test mode: %s", taskCount, onOff(dryRun), onOff(test)),
	}
	p.println(p.styles.box.Render(strings.Join(lines, "\n")))
}

// TaskStart announces a task.
func (p *Printer) TaskStart(index, total int, name, kind string) {
	p.printf("\n%s %s %s\n",
		p.styles.info.Render(fmt.Sprintf("[%d/%d]", index, total)),
		p.styles.header.Render("Running task: "+name),
		p.styles.muted.Render("("+kind+")"),
	)
}

// TaskSuccess reports a task that completed successfully.
func (p *Printer) TaskSuccess(name string, d time.Duration) {
	p.printf("%s %s %s\n",
		p.styles.success.Render("✓ Task success:"),
		name,
		p.styles.muted.Render(d.Round(time.Millisecond).String()),
	)
}

// TaskFailed reports a failed task and the reason.
func (p *Printer) TaskFailed(name string, err error) {
	p.printf("%s %s\n", p.styles.failure.Render("✗ Task failed:"), name)
	if err != nil {
		p.printf("  %s\n", p.styles.muted.Render(err.Error()))
	}
}

// Abort reports that a fail-fast task stopped the workflow.
func (p *Printer) Abort(name string, remaining int) {
	p.printf("%s %s %s\n",
		p.styles.failure.Render("■ Workflow aborted:"),
		name,
		p.styles.muted.Render(fmt.Sprintf("is fail-fast, %d task(s) not run", remaining)),
	)
}

// TaskSkipped reports a task the operator declined to run.
func (p *Printer) TaskSkipped(name string) {
	p.printf("%s %s skipped\n", p.styles.warning.Render("○ Interactive mode:"), name)
}

// Prompt writes the interactive confirmation question without a newline.
func (p *Printer) Prompt(name string) {
	p.printf("%s %s (y/N) ", p.styles.info.Render("? Run task"), p.styles.value.Render(name))
}

// Info prints an informational line.
func (p *Printer) Info(format string, a ...any) {
	p.println(p.styles.info.Render(fmt.Sprintf(format, a...)))
}

// Success prints a success line.
func (p *Printer) Success(format string, a ...any) {
	p.println(p.styles.success.Render(fmt.Sprintf(format, a...)))
}

// Warning prints a warning line.
func (p *Printer) Warning(format string, a ...any) {
	p.println(p.styles.warning.Render(fmt.Sprintf(format, a...)))
}

// Error prints an error line.
func (p *Printer) Error(format string, a ...any) {
	p.println(p.styles.failure.Render(fmt.Sprintf(format, a...)))
}

// Maintainers lists the contacts found by discovery.
func (p *Printer) Maintainers(list []maintainer.Maintainer) {
	p.println(p.styles.success.Render(fmt.Sprintf("✓ Patch has %d maintainer(s):", len(list))))
	for _, m := range list {
		p.printf("   - %-24s <%s> [%s]\n",
			m.Name,
			p.styles.email.Render(m.Email),
			p.styles.muted.Render(m.Role),
		)
	}
}

// MailPlan describes a mail invocation for display.
type MailPlan struct {
	Test    bool
	To      []string
	Cc      []string
	Patch   string
	Command string
}

// MailPlan prints the assembled mail execution plan.
func (p *Printer) MailPlan(plan MailPlan) {
	p.println(p.styles.header.Render("--- [ kfly execution plan ] ---"))

	if plan.Test {
		p.field("Mode:", p.styles.testTag.Render("TEST (self-only)"))
	} else {
		p.field("Mode:", p.styles.prodTag.Render("PRODUCTION"))
	}

	if len(plan.To) == 0 {
		p.field("To:", p.styles.warning.Render("None"))
	}
	for _, email := range plan.To {
		p.field("To:", p.styles.value.Render(email))
	}
	for _, email := range plan.Cc {
		p.field("Cc:", p.styles.muted.Render(email))
	}

	p.field("Patch:", plan.Patch)
	p.field("Command:", p.styles.muted.Render(plan.Command))
	p.println(p.styles.muted.Render("-------------------------------"))
}

// DryRun reports that a subprocess was not started because of dry-run mode.
func (p *Printer) DryRun() {
	p.println(p.styles.info.Render("dry-run: skipping execution"))
}

func (p *Printer) field(label, value string) {
	p.printf("  %s  %s\n", p.styles.label.Render(label), value)
}

// TaskList prints the workflow tasks in execution order.
func (p *Printer) TaskList(tasks []task.Task) {
	p.println(p.styles.header.Render(fmt.Sprintf("Workflow: %d task(s)", len(tasks))))
	for i, t := range tasks {
		var flags []string
		if t.Interactive {
			flags = append(flags, "interactive")
		}
		if t.FailFast {
			flags = append(flags, "fail-fast")
		}
		if t.Kind.IsBuiltin() {
			flags = append(flags, "built-in")
		}
		p.printf("  %d. %-20s %-10s %s\n", i+1, t.Name, t.Kind, p.styles.muted.Render(strings.Join(flags, ",")))
		p.printf("     %s\n", p.styles.muted.Render(strings.TrimSpace(t.Command+" "+strings.Join(t.Args, " "))))
	}
}

// SummaryRow is one task line in the run summary.
type SummaryRow struct {
	Name     string
	Outcome  string
	Duration time.Duration
}

// Summary prints the per-task outcome table shown after a run.
func (p *Printer) Summary(rows []SummaryRow, aborted bool, total time.Duration) {
	title := p.styles.success.Render("✓ WORKFLOW COMPLETE")
	if aborted {
		title = p.styles.failure.Render("✗ WORKFLOW ABORTED")
	}

	lines := []string{title}
	for i, r := range rows {
		d := ""
		if r.Duration > 0 {
			d = r.Duration.Round(time.Millisecond).String()
		}
		lines = append(lines, fmt.Sprintf("%s %-28s %-10s %s", outcomeMark(r.Outcome), fmt.Sprintf("[%d] %s", i+1, r.Name), r.Outcome, d))
	}
	lines = append(lines, fmt.Sprintf("Total: %s", total.Round(time.Millisecond)))

	p.println()
	p.println(p.styles.box.Render(strings.Join(lines, "\n")))
}

func outcomeMark(outcome string) string {
	switch outcome {
	case "succeeded":
		return "✓"
	case "failed":
		return "✗"
	default:
		return "○"
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
