// Package config handles loading and validating kareha configuration
// from the config file, environment variables, and CLI flag overrides.
package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Config holds all kareha configuration.
type Config struct {
	Remote             string   `yaml:"remote"`               // remote to fetch from
	StaleThresholdDays int      `yaml:"stale_threshold_days"` // age beyond which a branch is stale
	ProtectedBranches  []string `yaml:"protected_branches"`   // glob patterns never deleted by clean
	GithubToken        string   `yaml:"github_token"`         // used by the open-PR deletion guard
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Remote:             "origin",
		StaleThresholdDays: 30,
		ProtectedBranches:  []string{"main", "master"},
	}
}

// Load reads configuration layered as: defaults < config file < environment
// variables.
func Load() (Config, error) {
	cfg := Defaults()

	if err := loadFile(&cfg); err != nil {
		return cfg, err
	}
	applyEnv(&cfg)

	if cfg.Remote == "" {
		return cfg, fmt.Errorf("remote must not be empty")
	}
	if cfg.StaleThresholdDays <= 0 {
		return cfg, fmt.Errorf("stale_threshold_days must be positive, got %d", cfg.StaleThresholdDays)
	}

	return cfg, nil
}

// IsProtected reports whether the given bare branch name (remote prefix
// already stripped) matches any protected pattern. Patterns use path.Match
// syntax; a malformed pattern simply never matches.
func (c Config) IsProtected(branch string) bool {
	for _, pattern := range c.ProtectedBranches {
		if pattern == branch {
			return true
		}
		if ok, err := path.Match(pattern, branch); err == nil && ok {
			return true
		}
	}
	return false
}

// configPath returns the path to the config file.
func configPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "kareha", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "kareha", "config.yaml")
}

func loadFile(cfg *Config) error {
	p := filepath.Clean(configPath())
	data, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return nil // no config file is fine
	}
	if err != nil {
		return fmt.Errorf("reading config %s: %w", p, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", p, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("KAREHA_REMOTE"); v != "" {
		cfg.Remote = v
	}
	if v := os.Getenv("KAREHA_STALE_THRESHOLD_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			cfg.StaleThresholdDays = days
		}
	}
	if v := os.Getenv("KAREHA_PROTECTED_BRANCHES"); v != "" {
		var patterns []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
		cfg.ProtectedBranches = patterns
	}
	if v := os.Getenv("KAREHA_GITHUB_TOKEN"); v != "" {
		cfg.GithubToken = v
	}
	if v := os.Getenv("GITHUB_TOKEN"); v != "" && cfg.GithubToken == "" {
		cfg.GithubToken = v
	}
	if v := os.Getenv("GH_TOKEN"); v != "" && cfg.GithubToken == "" {
		cfg.GithubToken = v
	}
}
