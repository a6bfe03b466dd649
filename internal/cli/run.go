package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"kfly/internal/config"
	"kfly/internal/dispatch"
	"kfly/internal/prompt"
	"kfly/internal/report"
	"kfly/internal/task"
	"kfly/internal/workflow"
)

// runOptions are the root command flags.
type runOptions struct {
	patch         string
	dryRun        bool
	test          bool
	kernelRoot    string
	kernelRootSet bool
	configPath    string
	yes           bool
	reportPath    string
	strict        bool
}

// runWorkflow resolves the patch and config, runs the workflow and maps
// the outcome to an exit code.
//
// Startup failures (patch not found, config missing or invalid) exit 1
// before any task runs. A fail-fast abort or an interrupt exits 1. Failed tasks without
// fail-fast only change the exit code with --strict or settings.strict_exit.
func runWorkflow(ctx context.Context, app *App, opts *runOptions) error {
	printer := app.Printer

	patchPath, err := resolvePatch(opts.patch)
	if err != nil {
		printer.Error("kfly: %v", err)
		return NewExitError(1)
	}

	printer.Info("Loading config...")
	cfg, err := app.loadConfig(opts.configPath)
	if err != nil {
		printer.Error("kfly: failed to load config: %v", err)
		return NewExitError(1)
	}

	tasks, err := cfg.Tasks()
	if err != nil {
		printer.Error("kfly: %v", err)
		return NewExitError(1)
	}

	kernelRoot, err := resolveKernelRoot(opts, cfg)
	if err != nil {
		printer.Error("kfly: %v", err)
		return NewExitError(1)
	}

	dispatcher := dispatch.New(app.Executor, printer, dispatch.Options{
		KernelRoot: kernelRoot,
		Test:       opts.test,
		DryRun:     opts.dryRun,
		TestEmail:  cfg.Settings.TestEmail,
		ToFlag:     cfg.Settings.Mail.ToFlag,
		CcFlag:     cfg.Settings.Mail.CcFlag,
	})

	var confirmer workflow.Confirmer = prompt.NewLineConfirmer(app.Stdin, printer)
	if opts.yes {
		confirmer = prompt.AlwaysYes{}
	}

	engine := workflow.NewEngine(dispatcher, confirmer, printer)

	var current string
	engine.SetProgressCallback(func(stepIndex, totalSteps int, t task.Task) {
		current = fmt.Sprintf("[%d/%d] %s", stepIndex, totalSteps, t.Name)
	})

	printer.RunHeader(patchPath, kernelRoot, len(tasks), opts.dryRun, opts.test)
	startedAt := time.Now()
	summary, runErr := engine.Run(ctx, tasks, patchPath)
	printer.Summary(summary.Rows(), summary.Aborted, summary.Duration)

	reportPath := opts.reportPath
	if reportPath == "" {
		reportPath = cfg.Settings.ReportPath
	}
	if reportPath != "" {
		r := report.New(summary, report.Meta{
			KernelRoot: kernelRoot,
			StartedAt:  startedAt,
			DryRun:     opts.dryRun,
			Test:       opts.test,
		})
		if err := report.Write(reportPath, r); err != nil {
			printer.Warning("kfly: %v", err)
		} else {
			printer.Info("Run report written to %s", reportPath)
		}
	}

	switch {
	case errors.Is(runErr, workflow.ErrAborted):
		return NewExitError(1)
	case errors.Is(runErr, context.Canceled) && current != "":
		printer.Error("kfly: interrupted during task %s", current)
		return NewExitError(1)
	case runErr != nil:
		printer.Error("kfly: %v", runErr)
		return NewExitError(1)
	case summary.Failed() > 0 && (opts.strict || cfg.Settings.StrictExit):
		printer.Error("kfly: %d task(s) failed", summary.Failed())
		return NewExitError(1)
	}

	return nil
}

// resolvePatch canonicalizes the patch path. The result is absolute, has
// symlinks resolved, and names an existing regular file.
func resolvePatch(path string) (string, error) {
	if path == "" {
		return "", errors.New("no patch file given")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute patch path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute patch path: %w", err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute patch path: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("patch %s is not a regular file", resolved)
	}

	return resolved, nil
}

// resolveKernelRoot applies the precedence explicit flag, then
// settings.kernel_root, then the current directory, and makes the result
// absolute.
func resolveKernelRoot(opts *runOptions, cfg *config.Config) (string, error) {
	root := cfg.Settings.KernelRoot
	if opts.kernelRootSet || root == "" {
		root = opts.kernelRoot
	}
	if root == "" {
		root = "."
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve kernel root: %w", err)
	}
	return abs, nil
}
