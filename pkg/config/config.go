// Package config provides configuration loading for the ccfront tools.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure
type Config struct {
	Log      LogConfig      `toml:"log" yaml:"log"`
	Frontend FrontendConfig `toml:"frontend" yaml:"frontend"`
	Output   OutputConfig   `toml:"output" yaml:"output"`
}

// LogConfig controls where log records go
type LogConfig struct {
	Level   string `toml:"level" yaml:"level"`
	Format  string `toml:"format" yaml:"format"`
	File    string `toml:"file" yaml:"file"`
	Journal bool   `toml:"journal" yaml:"journal"`
}

// FrontendConfig selects the pipeline stages run on every input
type FrontendConfig struct {
	Preprocess  bool     `toml:"preprocess" yaml:"preprocess"`
	Check       bool     `toml:"check" yaml:"check"`
	RequireMain bool     `toml:"require_main" yaml:"require_main"`
	Builtins    []string `toml:"builtins" yaml:"builtins"`
	SystemDir   string   `toml:"system_dir" yaml:"system_dir"`
}

// OutputConfig controls how trees are printed
type OutputConfig struct {
	Format string `toml:"format" yaml:"format"`
	Color  bool   `toml:"color" yaml:"color"`
}

var (
	logLevels    = []string{"debug", "info", "warn", "error"}
	logFormats   = []string{"text", "json"}
	treeFormats  = []string{"tree", "yaml"}
	defaultFiles = []string{"./ccfront.toml", "./ccfront.yaml", "./ccfront.yml"}
)

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{
		Frontend: FrontendConfig{
			Preprocess: true,
			Check:      true,
		},
		Output: OutputConfig{
			Color: true,
		},
	}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension.
// Keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads configuration from the CCFRONT_CONFIG environment
// variable, then from ccfront.toml or ccfront.yaml in the working directory.
// Without any of them the defaults are returned.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv("CCFRONT_CONFIG"); path != "" {
		return Load(path)
	}
	for _, p := range defaultFiles {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Frontend.Builtins == nil {
		c.Frontend.Builtins = []string{"dprintf"}
	}
	if c.Output.Format == "" {
		c.Output.Format = "tree"
	}
}

func (c *Config) expandEnvVars() {
	c.Log.File = os.ExpandEnv(c.Log.File)
	c.Frontend.SystemDir = os.ExpandEnv(c.Frontend.SystemDir)
}

// Validate reports the first setting outside its allowed values
func (c *Config) Validate() error {
	c.Log.Level = strings.ToLower(c.Log.Level)
	if !slices.Contains(logLevels, c.Log.Level) {
		return fmt.Errorf("invalid log level %q, want one of %s", c.Log.Level, strings.Join(logLevels, ", "))
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		return fmt.Errorf("invalid log format %q, want one of %s", c.Log.Format, strings.Join(logFormats, ", "))
	}
	if !slices.Contains(treeFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format %q, want one of %s", c.Output.Format, strings.Join(treeFormats, ", "))
	}
	if c.Frontend.RequireMain && !c.Frontend.Check {
		return fmt.Errorf("frontend.require_main needs frontend.check")
	}
	return nil
}
