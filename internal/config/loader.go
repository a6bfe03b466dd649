package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// ErrConfigNotFound is returned when no config file exists at any of the
// searched locations.
var ErrConfigNotFound = errors.New("config file not found")

// FileName is the default config file name.
const FileName = "kfly.toml"

// SearchPaths lists the relative locations tried, in order, after the
// explicit path and KFLY_CONFIG_PATH.
var SearchPaths = []string{
	FileName,
	filepath.Join("src", FileName),
}

// Loader handles configuration loading using Viper.
//
// Create instances using [NewLoader].
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new Loader with settings defaults and environment
// overrides configured.
func NewLoader() *Loader {
	v := viper.New()

	defaults := DefaultConfig().Settings
	v.SetDefault("settings.kernel_root", defaults.KernelRoot)
	v.SetDefault("settings.test_email", defaults.TestEmail)
	v.SetDefault("settings.strict_exit", defaults.StrictExit)
	v.SetDefault("settings.report_path", defaults.ReportPath)
	v.SetDefault("settings.mail.to_flag", defaults.Mail.ToFlag)
	v.SetDefault("settings.mail.cc_flag", defaults.Mail.CcFlag)

	v.SetEnvPrefix("KFLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Short aliases for the settings operators change most.
	_ = v.BindEnv("settings.test_email", "KFLY_SETTINGS_TEST_EMAIL", "KFLY_TEST_EMAIL")
	_ = v.BindEnv("settings.kernel_root", "KFLY_SETTINGS_KERNEL_ROOT", "KFLY_KERNEL_ROOT")

	return &Loader{v: v}
}

// Load resolves the config file with [ResolvePath] and loads it.
func (l *Loader) Load(explicitPath string) (*Config, error) {
	path, err := ResolvePath(explicitPath)
	if err != nil {
		return nil, err
	}
	return l.LoadFromFile(path)
}

// LoadFromFile loads and validates configuration from a TOML file.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	l.v.SetConfigFile(path)
	l.v.SetConfigType("toml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ResolvePath finds the config file to load.
//
// Resolution order:
//  1. explicitPath, if non-empty (it must exist)
//  2. KFLY_CONFIG_PATH environment variable (it must exist)
//  3. [SearchPaths] relative to the working directory
//  4. kfly/kfly.toml under the user config directory
//
// Returns an error wrapping [ErrConfigNotFound] when nothing matches.
func ResolvePath(explicitPath string) (string, error) {
	if explicitPath == "" {
		explicitPath = os.Getenv("KFLY_CONFIG_PATH")
	}
	if explicitPath != "" {
		if !fileExists(explicitPath) {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, explicitPath)
		}
		return explicitPath, nil
	}

	candidates := append([]string{}, SearchPaths...)
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "kfly", FileName))
	}

	for _, p := range candidates {
		if fileExists(p) {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w: searched %s", ErrConfigNotFound, strings.Join(candidates, ", "))
}

// Write encodes cfg as TOML to path.
func Write(path string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
