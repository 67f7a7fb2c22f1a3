package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/penguineda/internal/cli/output"
)

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration after merging defaults, the config file,
PENGUINEDA_ environment variables and flags. Secrets are redacted.`,
		Example: `  # Show the configuration serve would use on port 3000
  penguineda config --output text
  PENGUINEDA_UI__PORT=3000 penguineda config`,
		RunE: runConfig,
	}
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg := cc.Cfg.Redacted()
	r := cc.Renderer

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	source := "defaults only"
	if cfg.File != "" {
		source = cfg.File
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Header(2, "Configuration")
		r.Muted(source)
		r.Printf("\n```yaml\n%s```\n", data)
		return nil
	}

	r.Header(2, "Configuration")
	r.Muted(source)
	r.Println()
	r.Printf("%s", data)
	return nil
}
