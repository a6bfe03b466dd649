// Package config provides configuration loading for kfly.
//
// Configuration is a TOML file loaded with Viper. It holds run settings and
// the ordered workflow of tasks. Environment variables with the KFLY_ prefix
// override settings, e.g. KFLY_SETTINGS_TEST_EMAIL or the shorter
// KFLY_TEST_EMAIL and KFLY_KERNEL_ROOT.
//
// Key types:
//   - [Config] is the root configuration container
//   - [Loader] handles Viper-based configuration loading
//   - [TaskConfig] is one workflow step as written in the file
//
// Config file resolution (first match wins):
//  1. Path given with --config
//  2. KFLY_CONFIG_PATH environment variable
//  3. ./kfly.toml
//  4. ./src/kfly.toml (legacy location)
//  5. User config directory: kfly/kfly.toml
//     (~/.config on Linux, ~/Library/Application Support on macOS)
//
// Unlike settings, the workflow has no default: a missing config file is an
// error ([ErrConfigNotFound]).
package config

import (
	"errors"
	"fmt"

	"kfly/internal/task"
)

// ErrInvalidConfig is wrapped by all shape validation errors.
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the root configuration structure.
type Config struct {
	// Settings are run-wide options.
	Settings Settings `mapstructure:"settings" toml:"settings"`

	// Workflow is the ordered list of tasks.
	Workflow []TaskConfig `mapstructure:"workflow" toml:"workflow"`
}

// Settings are run-wide options.
type Settings struct {
	// KernelRoot is the working directory of every task. The --kernel-root
	// flag overrides it when given explicitly.
	KernelRoot string `mapstructure:"kernel_root" toml:"kernel_root"`

	// TestEmail is the only recipient when running in test mode.
	TestEmail string `mapstructure:"test_email" toml:"test_email"`

	// StrictExit makes the process exit non-zero when any task failed,
	// including tasks without fail_fast.
	StrictExit bool `mapstructure:"strict_exit" toml:"strict_exit"`

	// ReportPath, if set, is where a YAML run report is written.
	ReportPath string `mapstructure:"report_path" toml:"report_path,omitempty"`

	// Mail configures recipient flag spelling for the mail tool.
	Mail MailConfig `mapstructure:"mail" toml:"mail"`
}

// MailConfig holds the recipient flag prefixes passed to the mail tool.
type MailConfig struct {
	// ToFlag prefixes each To address. Default: "--to=". A prefix ending in
	// a space ("-t ") is passed as its own argument before the address.
	ToFlag string `mapstructure:"to_flag" toml:"to_flag"`

	// CcFlag prefixes each Cc address. Default: "--cc=".
	CcFlag string `mapstructure:"cc_flag" toml:"cc_flag"`
}

// TaskConfig is a workflow task as written in the config file.
type TaskConfig struct {
	// Name labels the task. "Get Maintainers" and "Send Email" select the
	// built-in kinds unless Kind is set.
	Name string `mapstructure:"name" toml:"name"`

	// Kind optionally selects the task kind explicitly: "generic",
	// "discovery" or "mail".
	Kind string `mapstructure:"kind" toml:"kind,omitempty"`

	// Command is the executable with optional fixed arguments.
	Command string `mapstructure:"command" toml:"command"`

	// Args are argument templates; "{patch}" is replaced by the patch path.
	Args []string `mapstructure:"args" toml:"args"`

	// Interactive asks for confirmation before running the task.
	Interactive bool `mapstructure:"interactive" toml:"interactive"`

	// FailFast aborts the workflow when the task fails.
	FailFast bool `mapstructure:"fail_fast" toml:"fail_fast"`
}

// DefaultConfig returns a [Config] with default settings and a starter
// workflow: checkpatch, maintainer discovery, then an interactive send.
//
// The loader only takes settings defaults from here; the workflow always
// comes from the config file. kfly init writes this config as a template.
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{
			KernelRoot: ".",
			Mail: MailConfig{
				ToFlag: "--to=",
				CcFlag: "--cc=",
			},
		},
		Workflow: []TaskConfig{
			{
				Name:     "checkpatch",
				Command:  "./scripts/checkpatch.pl",
				Args:     []string{"--strict", "{patch}"},
				FailFast: true,
			},
			{
				Name:     task.NameDiscovery,
				Command:  "scripts/get_maintainer.pl",
				Args:     []string{"{patch}"},
				FailFast: true,
			},
			{
				Name:        task.NameMail,
				Command:     "git send-email",
				Args:        []string{"--suppress-cc=all", "{patch}"},
				Interactive: true,
				FailFast:    true,
			},
		},
	}
}

// Validate checks the shape of the configuration: a non-empty workflow
// whose tasks all have a name, a command and a valid kind.
func (c *Config) Validate() error {
	if len(c.Workflow) == 0 {
		return fmt.Errorf("%w: workflow has no tasks", ErrInvalidConfig)
	}

	for i, t := range c.Workflow {
		if t.Name == "" {
			return fmt.Errorf("%w: workflow task %d has no name", ErrInvalidConfig, i+1)
		}
		if t.Command == "" {
			return fmt.Errorf("%w: workflow task %q has no command", ErrInvalidConfig, t.Name)
		}
		if _, err := task.ResolveKind(t.Kind, t.Name); err != nil {
			return fmt.Errorf("%w: workflow task %q: %w", ErrInvalidConfig, t.Name, err)
		}
	}

	return nil
}

// Tasks converts the workflow into [task.Task] values with resolved kinds.
func (c *Config) Tasks() ([]task.Task, error) {
	tasks := make([]task.Task, 0, len(c.Workflow))
	for _, tc := range c.Workflow {
		kind, err := task.ResolveKind(tc.Kind, tc.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: workflow task %q: %w", ErrInvalidConfig, tc.Name, err)
		}
		tasks = append(tasks, task.Task{
			Name:        tc.Name,
			Kind:        kind,
			Command:     tc.Command,
			Args:        append([]string{}, tc.Args...),
			Interactive: tc.Interactive,
			FailFast:    tc.FailFast,
		})
	}
	return tasks, nil
}
