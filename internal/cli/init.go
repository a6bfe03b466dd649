package cli

import (
	"os"

	"github.com/spf13/cobra"

	"kfly/internal/config"
)

func newInitCommand(app *App) *cobra.Command {
	var (
		force      bool
		testEmail  string
		kernelRoot string
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter kfly.toml",
		Long: `Write a starter configuration with a checkpatch step, maintainer
discovery and an interactive git send-email step.

The file is written to ./kfly.toml unless a path is given. An existing file
is only replaced with --force.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FileName
			if len(args) == 1 {
				path = args[0]
			}

			if _, err := os.Stat(path); err == nil && !force {
				app.Printer.Error("kfly: %s already exists (use --force to overwrite)", path)
				return NewExitError(1)
			}

			cfg := config.DefaultConfig()
			cfg.Settings.TestEmail = testEmail
			if kernelRoot != "" {
				cfg.Settings.KernelRoot = kernelRoot
			}

			if err := config.Write(path, cfg); err != nil {
				app.Printer.Error("kfly: %v", err)
				return NewExitError(1)
			}

			app.Printer.Success("✓ Wrote %s", path)
			if testEmail == "" {
				app.Printer.Warning("Set settings.test_email before running in test mode")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	cmd.Flags().StringVar(&testEmail, "test-email", "", "address used in test mode")
	cmd.Flags().StringVar(&kernelRoot, "kernel-root", "", "kernel tree to run tasks in")

	return cmd
}
