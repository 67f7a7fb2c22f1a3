package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/penguineda/internal/cli/config"
	"github.com/leapstack-labs/penguineda/internal/cli/output"
	"github.com/leapstack-labs/penguineda/internal/penguins"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config, logger and renderer for cmd.
// Commands run outside the root command load their config from flags.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		var err error
		if cfg, err = config.Load("", cmd.Flags()); err != nil {
			return nil, err
		}
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output)),
	}, nil
}

// LoadDataset reads the configured source dataset.
func (c *CommandContext) LoadDataset(ctx context.Context) ([]penguins.Record, error) {
	return penguins.Load(ctx, c.Cfg.Dataset.Source(), c.Logger)
}
