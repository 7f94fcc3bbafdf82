package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines settings for scriptkit.
type Config struct {
	LogLevel  string        `yaml:"logLevel"`
	LogFormat string        `yaml:"logFormat"`
	EnvFile   string        `yaml:"envFile"`
	Scripts   ScriptsConfig `yaml:"scripts"`
	Exec      ExecConfig    `yaml:"exec"`
}

// ScriptsConfig controls how scripts are run.
type ScriptsConfig struct {
	Timeout  string   `yaml:"timeout"`
	MaxSteps uint64   `yaml:"maxSteps"`
	Modules  []string `yaml:"modules"`
}

// ExecConfig bounds subprocesses started through the sh module.
type ExecConfig struct {
	Timeout   string   `yaml:"timeout"`
	MaxOutput int      `yaml:"maxOutput"`
	Blocklist []string `yaml:"blocklist"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		EnvFile:   ".env",
		Scripts: ScriptsConfig{
			Modules: []string{"json", "math", "time", "struct", "env", "sh"},
		},
		Exec: ExecConfig{
			Timeout:   "60s",
			MaxOutput: 1 << 20,
			Blocklist: []string{"rm -rf /", "mkfs", "dd if="},
		},
	}
}

// LoadConfig loads configuration from a YAML file and environment overrides.
// An empty path falls back to DefaultConfigPath, which may be absent.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case explicit || !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if logLevel := os.Getenv("SCRIPTKIT_LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat := os.Getenv("SCRIPTKIT_LOG_FORMAT"); logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if timeout := os.Getenv("SCRIPTKIT_SCRIPT_TIMEOUT"); timeout != "" {
		cfg.Scripts.Timeout = timeout
	}

	if _, err := cfg.ScriptTimeout(); err != nil {
		return nil, err
	}
	if _, err := cfg.ExecTimeout(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ScriptTimeout parses Scripts.Timeout. Empty means no limit.
func (c *Config) ScriptTimeout() (time.Duration, error) {
	return parseDuration("scripts.timeout", c.Scripts.Timeout)
}

// ExecTimeout parses Exec.Timeout. Empty means no limit.
func (c *Config) ExecTimeout() (time.Duration, error) {
	return parseDuration("exec.timeout", c.Exec.Timeout)
}

func parseDuration(key, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, value)
	}
	return d, nil
}

// DefaultConfigPath returns the default location for the CLI config file.
func DefaultConfigPath() string {
	if path := os.Getenv("SCRIPTKIT_CONFIG"); path != "" {
		return path
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".scriptkit", "config.yaml")
}
