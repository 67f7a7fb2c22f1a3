// Package config loads penguineda configuration from defaults, a YAML
// file, PENGUINEDA_ environment variables and command-line flags.
package config

import (
	"net/url"

	"github.com/leapstack-labs/penguineda/internal/engine"
	"github.com/leapstack-labs/penguineda/internal/penguins"
)

// Config holds all CLI configuration options.
type Config struct {
	Verbose  bool          `koanf:"verbose" yaml:"verbose" json:"verbose"`
	LogLevel string        `koanf:"log_level" yaml:"log_level" json:"log_level" validate:"oneof=debug info warn error"`
	Output   string        `koanf:"output" yaml:"output" json:"output" validate:"oneof=auto text markdown json"`
	Dataset  DatasetConfig `koanf:"dataset" yaml:"dataset" json:"dataset"`
	UI       UIConfig      `koanf:"ui" yaml:"ui" json:"ui"`

	// File is the config file that was read, empty when none was found.
	File string `koanf:"-" yaml:"-" json:"-"`
}

// DatasetConfig selects the source dataset.
type DatasetConfig struct {
	Source  string `koanf:"source" yaml:"source" json:"source" validate:"oneof=embedded csv duckdb sqlite postgres"`
	Path    string `koanf:"path" yaml:"path,omitempty" json:"path" validate:"required_if=Source csv"`
	DSN     string `koanf:"dsn" yaml:"dsn,omitempty" json:"dsn" validate:"required_if=Source postgres"`
	Table   string `koanf:"table" yaml:"table,omitempty" json:"table" validate:"required_if=Source sqlite,required_if=Source postgres"`
	OrderBy string `koanf:"order_by" yaml:"order_by,omitempty" json:"order_by"`
}

// UIConfig holds configuration for the dashboard server.
type UIConfig struct {
	Host          string `koanf:"host" yaml:"host" json:"host" validate:"required"`
	Port          int    `koanf:"port" yaml:"port" json:"port" validate:"min=1,max=65535"`
	AutoOpen      bool   `koanf:"auto_open" yaml:"auto_open" json:"auto_open"`
	Watch         bool   `koanf:"watch" yaml:"watch" json:"watch"`
	RepoURL       string `koanf:"repo_url" yaml:"repo_url" json:"repo_url" validate:"omitempty,url"`
	SessionSecret string `koanf:"session_secret" yaml:"session_secret,omitempty" json:"session_secret" validate:"omitempty,min=32"`
	MaxSessions   int    `koanf:"max_sessions" yaml:"max_sessions" json:"max_sessions" validate:"gte=1"`
}

// Default configuration values.
const (
	DefaultLogLevel = "info"
	DefaultOutput   = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultHost     = "localhost"
	DefaultPort     = 8765
	DefaultRepoURL  = "https://github.com/leapstack-labs/penguineda"
)

func defaults() map[string]any {
	return map[string]any{
		"verbose":           false,
		"log_level":         DefaultLogLevel,
		"output":            DefaultOutput,
		"dataset.source":    string(penguins.KindEmbedded),
		"ui.host":           DefaultHost,
		"ui.port":           DefaultPort,
		"ui.auto_open":      true,
		"ui.watch":          false,
		"ui.repo_url":       DefaultRepoURL,
		"ui.max_sessions":   engine.DefaultMaxSessions,
		"ui.session_secret": "",
	}
}

// Source converts the dataset settings for the loader.
func (d DatasetConfig) Source() penguins.Source {
	return penguins.Source{
		Kind:    penguins.Kind(d.Source),
		Path:    d.Path,
		DSN:     d.DSN,
		Table:   d.Table,
		OrderBy: d.OrderBy,
	}
}

const redacted = "xxxxx"

// Redacted returns a copy safe to print: the session secret is hidden and
// URL-style DSNs lose their password.
func (c Config) Redacted() Config {
	if c.UI.SessionSecret != "" {
		c.UI.SessionSecret = redacted
	}
	if u, err := url.Parse(c.Dataset.DSN); err == nil && u.User != nil {
		if _, ok := u.User.Password(); ok {
			c.Dataset.DSN = u.Redacted()
		}
	}
	return c
}
