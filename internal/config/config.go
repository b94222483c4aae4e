// Package config handles refsift configuration: the three query-set
// labels, optional column-alias overrides for the merger, and the default
// extractor source label. Configuration is optional; a missing file means
// defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"refsift/internal/merge"
)

// Config is the on-disk configuration, stored as YAML.
type Config struct {
	Labels  []string            `yaml:"labels,omitempty"`
	Aliases map[string][]string `yaml:"aliases,omitempty"`
	Source  string              `yaml:"source,omitempty"`
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "refsift"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// EnvConfig overrides the config file location.
	EnvConfig = "REFSIFT_CONFIG"
)

// aliasFields are the canonical field names accepted as alias-override
// keys.
var aliasFields = map[string]bool{
	"title":   true,
	"doi":     true,
	"url":     true,
	"authors": true,
	"year":    true,
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Labels: []string{"A", "B", "C"},
		Source: "ScienceDirect",
	}
}

// Path returns the config file location: $REFSIFT_CONFIG if set,
// otherwise $XDG_CONFIG_HOME/refsift/config.yml (with ~/.config as the
// XDG default).
func Path() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load reads and validates the configuration at path. A missing file (or
// empty path) yields defaults, not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.Labels) != 3 {
		return nil, fmt.Errorf("config must define exactly three labels, got %d", len(cfg.Labels))
	}
	for field := range cfg.Aliases {
		if !aliasFields[field] {
			return nil, fmt.Errorf("unknown alias field %q (want title, doi, url, authors, or year)", field)
		}
	}
	if cfg.Source == "" {
		cfg.Source = Default().Source
	}

	return cfg, nil
}

// MergeAliases returns the merger alias tables with any configured
// overrides applied. An override replaces the whole list for its field.
func (c *Config) MergeAliases() merge.Aliases {
	aliases := merge.DefaultAliases()
	if v, ok := c.Aliases["title"]; ok {
		aliases.Title = v
	}
	if v, ok := c.Aliases["doi"]; ok {
		aliases.DOI = v
	}
	if v, ok := c.Aliases["url"]; ok {
		aliases.URL = v
	}
	if v, ok := c.Aliases["authors"]; ok {
		aliases.Authors = v
	}
	if v, ok := c.Aliases["year"]; ok {
		aliases.Year = v
	}
	return aliases
}
