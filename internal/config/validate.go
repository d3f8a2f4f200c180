package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrInvalidThreshold indicates a coverage threshold outside [0,100]
	ErrInvalidThreshold = errors.New("invalid coverage threshold")

	// ErrEmptyBinary indicates a missing maven binary name
	ErrEmptyBinary = errors.New("empty maven binary")

	// ErrEmptyGoals indicates a missing maven goal list
	ErrEmptyGoals = errors.New("empty maven goals")

	// ErrInvalidTimeout indicates an invalid maven timeout
	ErrInvalidTimeout = errors.New("invalid maven timeout")

	// ErrEmptyRemote indicates a missing git remote name
	ErrEmptyRemote = errors.New("empty git remote")

	// ErrInvalidExclude indicates a staging exclude pattern that does not compile
	ErrInvalidExclude = errors.New("invalid staging exclude")

	// ErrInvalidFramework indicates an unsupported scaffold framework
	ErrInvalidFramework = errors.New("invalid scaffold framework")

	// ErrEmptyOutputDir indicates a missing scaffold output directory
	ErrEmptyOutputDir = errors.New("empty scaffold output dir")

	// ErrInvalidMethodLimit indicates an invalid specification method limit
	ErrInvalidMethodLimit = errors.New("invalid spec method limit")

	// ErrInvalidIterations indicates an invalid loop iteration bound
	ErrInvalidIterations = errors.New("invalid loop iterations")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	// Validate coverage configuration
	if err := validateCoverage(&cfg.Coverage); err != nil {
		errs = append(errs, err)
	}

	// Validate maven configuration
	if err := validateMaven(&cfg.Maven); err != nil {
		errs = append(errs, err)
	}

	// Validate git configuration
	if err := validateGit(&cfg.Git); err != nil {
		errs = append(errs, err)
	}

	// Validate scaffold configuration
	if err := validateScaffold(&cfg.Scaffold); err != nil {
		errs = append(errs, err)
	}

	// Validate loop configuration
	if err := validateLoop(&cfg.Loop); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateCoverage(cfg *CoverageConfig) error {
	if cfg.Threshold < 0 || cfg.Threshold > 100 {
		return fmt.Errorf("%w: must be in [0,100], got %.2f", ErrInvalidThreshold, cfg.Threshold)
	}
	return nil
}

func validateMaven(cfg *MavenConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.Binary) == "" {
		errs = append(errs, fmt.Errorf("%w: binary is required", ErrEmptyBinary))
	}

	if len(cfg.Goals) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one goal required", ErrEmptyGoals))
	}
	for _, goal := range cfg.Goals {
		if strings.TrimSpace(goal) == "" {
			errs = append(errs, fmt.Errorf("%w: blank goal entry", ErrEmptyGoals))
		}
	}

	if cfg.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("%w: timeout_seconds must be positive, got %d", ErrInvalidTimeout, cfg.TimeoutSeconds))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateGit(cfg *GitConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.DefaultRemote) == "" {
		errs = append(errs, fmt.Errorf("%w: default_remote is required", ErrEmptyRemote))
	}

	// Protected branches may be empty (nothing protected), but exclude
	// patterns must compile with the same syntax the gateway stages with.
	for _, pattern := range cfg.StagingExcludes {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidExclude, pattern, err))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateScaffold(cfg *ScaffoldConfig) error {
	var errs []error

	// JUnit 5 is the only supported framework
	if strings.ToLower(cfg.Framework) != "junit5" {
		errs = append(errs, fmt.Errorf("%w: must be 'junit5', got '%s'", ErrInvalidFramework, cfg.Framework))
	}

	if strings.TrimSpace(cfg.OutputDir) == "" {
		errs = append(errs, fmt.Errorf("%w: output_dir is required", ErrEmptyOutputDir))
	}

	if cfg.SpecMethodLimit <= 0 {
		errs = append(errs, fmt.Errorf("%w: spec_method_limit must be positive, got %d", ErrInvalidMethodLimit, cfg.SpecMethodLimit))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateLoop(cfg *LoopConfig) error {
	if cfg.MaxIterations <= 0 {
		return fmt.Errorf("%w: max_iterations must be positive, got %d", ErrInvalidIterations, cfg.MaxIterations)
	}
	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
