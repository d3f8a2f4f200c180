package config

// Config represents the complete covpilot configuration.
// It can be loaded from .covpilot/config.yml with environment variable overrides.
type Config struct {
	Coverage CoverageConfig `yaml:"coverage" mapstructure:"coverage"`
	Maven    MavenConfig    `yaml:"maven" mapstructure:"maven"`
	Git      GitConfig      `yaml:"git" mapstructure:"git"`
	Scaffold ScaffoldConfig `yaml:"scaffold" mapstructure:"scaffold"`
	Loop     LoopConfig     `yaml:"loop" mapstructure:"loop"`
}

// CoverageConfig tunes how reports are judged.
type CoverageConfig struct {
	Threshold float64 `yaml:"threshold" mapstructure:"threshold"` // line coverage target in [0,100]
}

// MavenConfig controls the instrumented build invocation.
type MavenConfig struct {
	Binary         string   `yaml:"binary" mapstructure:"binary"`                   // usually "mvn"
	Goals          []string `yaml:"goals" mapstructure:"goals"`                     // build goals, in order
	TimeoutSeconds int      `yaml:"timeout_seconds" mapstructure:"timeout_seconds"` // whole-build budget
}

// GitConfig controls the repository gateway.
type GitConfig struct {
	DefaultRemote     string   `yaml:"default_remote" mapstructure:"default_remote"`
	ProtectedBranches []string `yaml:"protected_branches" mapstructure:"protected_branches"` // refuse direct pushes
	StagingExcludes   []string `yaml:"staging_excludes" mapstructure:"staging_excludes"`     // glob patterns never staged
}

// ScaffoldConfig controls generated test skeletons.
type ScaffoldConfig struct {
	Framework       string `yaml:"framework" mapstructure:"framework"`                 // "junit5" is the only framework
	OutputDir       string `yaml:"output_dir" mapstructure:"output_dir"`               // test source root
	SpecMethodLimit int    `yaml:"spec_method_limit" mapstructure:"spec_method_limit"` // methods per specification class
}

// LoopConfig bounds the build-analyze-scaffold cycle.
type LoopConfig struct {
	MaxIterations int `yaml:"max_iterations" mapstructure:"max_iterations"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Coverage: CoverageConfig{
			Threshold: 90.0,
		},
		Maven: MavenConfig{
			Binary:         "mvn",
			Goals:          []string{"clean", "test", "jacoco:report"},
			TimeoutSeconds: 300,
		},
		Git: GitConfig{
			DefaultRemote:     "origin",
			ProtectedBranches: []string{"main", "master"},
			StagingExcludes: []string{
				"target/**",
				"build/**",
				"node_modules/**",
				"__pycache__/**",
				"*.class",
				"*.jar",
				"*.pyc",
				".DS_Store",
			},
		},
		Scaffold: ScaffoldConfig{
			Framework:       "junit5",
			OutputDir:       "src/test/java",
			SpecMethodLimit: 5,
		},
		Loop: LoopConfig{
			MaxIterations: 5,
		},
	}
}

// MavenTimeout is a convenience accessor for the build budget in seconds.
// Zero or negative values fall back to the default.
func (c *Config) MavenTimeout() int {
	if c.Maven.TimeoutSeconds <= 0 {
		return Default().Maven.TimeoutSeconds
	}
	return c.Maven.TimeoutSeconds
}
