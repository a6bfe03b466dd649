package cli

import (
	"github.com/spf13/cobra"
)

func newTasksCommand(app *App, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "Show the configured workflow",
		Long: `Show the workflow tasks in execution order with their resolved kind,
interactive and fail-fast flags, and command line. Nothing is executed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(*configPath)
			if err != nil {
				app.Printer.Error("kfly: failed to load config: %v", err)
				return NewExitError(1)
			}

			tasks, err := cfg.Tasks()
			if err != nil {
				app.Printer.Error("kfly: %v", err)
				return NewExitError(1)
			}

			app.Printer.TaskList(tasks)
			return nil
		},
	}
}
