// Package cli provides the command-line interface for kfly.
//
// The root command runs the configured workflow against a patch file.
// Subcommands:
//   - init: write a starter kfly.toml
//   - tasks: show the resolved workflow without running it
//
// Commands return [ExitError] instead of calling os.Exit, so the whole CLI
// can be driven from tests through [Run] with an injected [App].
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"kfly/internal/config"
	"kfly/internal/output"
	"kfly/internal/process"
)

// App holds the dependencies shared by all commands.
type App struct {
	// Config, when set, is used instead of loading a config file.
	Config *config.Config

	// Executor spawns task subprocesses.
	Executor process.Executor

	// Printer renders all console output.
	Printer *output.Printer

	// Stdin supplies answers to interactive prompts.
	Stdin io.Reader
}

// NewApp returns an [App] wired to the real process environment.
func NewApp() *App {
	return &App{
		Executor: process.NewExecutor(),
		Printer:  output.NewPrinter(),
		Stdin:    os.Stdin,
	}
}

// loadConfig returns the injected config or loads one from disk.
func (a *App) loadConfig(path string) (*config.Config, error) {
	if a.Config != nil {
		if err := a.Config.Validate(); err != nil {
			return nil, err
		}
		return a.Config, nil
	}
	return config.NewLoader().Load(path)
}

// NewRootCommand builds the kfly command tree.
func NewRootCommand(app *App) *cobra.Command {
	opts := &runOptions{}

	rootCmd := &cobra.Command{
		Use:   "kfly",
		Short: "Run a patch submission workflow",
		Long: `kfly runs the workflow from kfly.toml against a patch: user-defined
checks, maintainer discovery with get_maintainer.pl, and git send-email.

Dry-run and test mode are on by default. Pass --dry-run=false --test=false
to actually mail the discovered maintainers.

Example:
  kfly --patch 0001-net-fix-leak.patch --kernel-root ~/src/linux`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.kernelRootSet = cmd.Flags().Changed("kernel-root")
			return runWorkflow(cmd.Context(), app, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.patch, "patch", "p", "", "patch file to submit (required)")
	flags.BoolVarP(&opts.dryRun, "dry-run", "d", true, "print the mail command instead of running it")
	flags.BoolVarP(&opts.test, "test", "t", true, "send only to settings.test_email")
	flags.StringVarP(&opts.kernelRoot, "kernel-root", "k", ".", "kernel tree to run tasks in (overrides settings.kernel_root)")
	flags.BoolVarP(&opts.yes, "yes", "y", false, "answer yes to interactive tasks")
	flags.StringVar(&opts.reportPath, "report", "", "write a YAML run report to this path")
	flags.BoolVar(&opts.strict, "strict", false, "exit non-zero when any task failed")
	_ = rootCmd.MarkFlagRequired("patch")

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: search for kfly.toml)")

	rootCmd.AddCommand(
		newInitCommand(app),
		newTasksCommand(app, &opts.configPath),
	)

	return rootCmd
}

// ExecuteResult is the outcome of running the CLI.
type ExecuteResult struct {
	// ExitCode is the process exit status to report.
	ExitCode int

	// Err is the error that caused a non-zero exit, if any.
	Err error
}

// Run executes the CLI with args and returns the exit code instead of
// exiting. SIGINT and SIGTERM cancel the run between tasks and stop the
// running subprocess.
func Run(app *App, args []string) ExecuteResult {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(app.Stdin)
	rootCmd.SetOut(app.Printer.Writer())
	rootCmd.SetErr(app.Printer.Writer())

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return ExecuteResult{ExitCode: 0}
	}

	if code, ok := IsExitError(err); ok {
		return ExecuteResult{ExitCode: code, Err: err}
	}

	// Flag and argument errors from cobra itself.
	app.Printer.Error("kfly: %v", err)
	return ExecuteResult{ExitCode: 1, Err: err}
}

// Execute runs the CLI with the process arguments and exits.
func Execute() {
	result := Run(NewApp(), os.Args[1:])
	os.Exit(result.ExitCode)
}
