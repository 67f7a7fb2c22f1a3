package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable read by Load. A double
// underscore separates nested keys: PENGUINEDA_UI__PORT sets ui.port.
const EnvPrefix = "PENGUINEDA_"

// configNames are the file names searched for, in order.
var configNames = []string{"penguineda.yaml", "penguineda.yml"}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// flagKeys maps flag names to config keys. Flags not listed here are
// command arguments, not configuration.
var flagKeys = map[string]string{
	"verbose":      "verbose",
	"log-level":    "log_level",
	"output":       "output",
	"source":       "dataset.source",
	"dataset-path": "dataset.path",
	"dsn":          "dataset.dsn",
	"table":        "dataset.table",
	"order-by":     "dataset.order_by",
	"host":         "ui.host",
	"port":         "ui.port",
	"watch":        "ui.watch",
	"repo-url":     "ui.repo_url",
	"max-sessions": "ui.max_sessions",
}

// envAliases maps flattened env keys that skip the nesting separator.
var envAliases = map[string]string{
	"session_secret": "ui.session_secret",
}

type (
	loggerKey struct{}
	configKey struct{}
)

// Load loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// cfgFile may be empty, in which case the working directory and its
// parents are searched.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	path, err := findConfigFile(cfgFile)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
		// A dataset path in the file is relative to the file.
		if p := k.String("dataset.path"); p != "" {
			if err := k.Set("dataset.path", resolvePathRelativeTo(p, filepath.Dir(path))); err != nil {
				return nil, fmt.Errorf("failed to resolve dataset path: %w", err)
			}
		}
	}

	// 3. Environment variables
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			return flagKey(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = path
	cfg.Dataset.DSN = expandEnvVars(cfg.Dataset.DSN)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey turns PENGUINEDA_UI__MAX_SESSIONS into ui.max_sessions.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	if alias, ok := envAliases[key]; ok {
		return alias
	}
	return key
}

func flagKey(flags *pflag.FlagSet, f *pflag.Flag) (string, interface{}) {
	if !f.Changed {
		return "", nil
	}
	// --no-browser reads better on the command line than --auto-open=false.
	if f.Name == "no-browser" {
		v, _ := flags.GetBool("no-browser")
		return "ui.auto_open", !v
	}
	key, ok := flagKeys[f.Name]
	if !ok {
		return "", nil
	}
	return key, posflag.FlagVal(flags, f)
}

// findConfigFile returns the config file to use.
// Priority: explicit path > ./penguineda.yaml > parent directories.
func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return explicit, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", nil //nolint:nilerr // no working directory means no config file
	}
	for i := 0; i < maxUpwardSearchLevels; i++ {
		for _, name := range configNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns, leaving unset variables as-is.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// WithConfig stores cfg in ctx.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the config stored by WithConfig, or nil.
func FromContext(ctx context.Context) *Config {
	cfg, _ := ctx.Value(configKey{}).(*Config)
	return cfg
}
