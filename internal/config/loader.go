package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ConfigDirName is the per-project directory covpilot reads its config from.
const ConfigDirName = ".covpilot"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (COVPILOT_*)
// 2. Config file (.covpilot/config.yml or .covpilot/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	// Configure viper
	v := viper.New()

	// Set up config file search
	configDir := filepath.Join(l.rootDir, ConfigDirName)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	// Enable environment variable overrides
	bindEnv(v)

	// Set defaults in viper
	setDefaults(v)

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Some other error occurred while reading the config file
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into config struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate the configuration
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// bindEnv enables COVPILOT_* environment overrides for every config key.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("COVPILOT")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., COVPILOT_COVERAGE_THRESHOLD)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Coverage configuration
	v.BindEnv("coverage.threshold")

	// Maven configuration
	v.BindEnv("maven.binary")
	v.BindEnv("maven.goals")
	v.BindEnv("maven.timeout_seconds")

	// Git configuration
	v.BindEnv("git.default_remote")
	v.BindEnv("git.protected_branches")
	v.BindEnv("git.staging_excludes")

	// Scaffold configuration
	v.BindEnv("scaffold.framework")
	v.BindEnv("scaffold.output_dir")
	v.BindEnv("scaffold.spec_method_limit")

	// Loop configuration
	v.BindEnv("loop.max_iterations")
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	// Coverage defaults
	v.SetDefault("coverage.threshold", defaults.Coverage.Threshold)

	// Maven defaults
	v.SetDefault("maven.binary", defaults.Maven.Binary)
	v.SetDefault("maven.goals", defaults.Maven.Goals)
	v.SetDefault("maven.timeout_seconds", defaults.Maven.TimeoutSeconds)

	// Git defaults
	v.SetDefault("git.default_remote", defaults.Git.DefaultRemote)
	v.SetDefault("git.protected_branches", defaults.Git.ProtectedBranches)
	v.SetDefault("git.staging_excludes", defaults.Git.StagingExcludes)

	// Scaffold defaults
	v.SetDefault("scaffold.framework", defaults.Scaffold.Framework)
	v.SetDefault("scaffold.output_dir", defaults.Scaffold.OutputDir)
	v.SetDefault("scaffold.spec_method_limit", defaults.Scaffold.SpecMethodLimit)

	// Loop defaults
	v.SetDefault("loop.max_iterations", defaults.Loop.MaxIterations)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}

// LoadConfigFile loads configuration from an explicit file instead of the
// conventional .covpilot directory. Unlike Load, a missing file is an
// error here: the caller asked for this file specifically.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	bindEnv(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
