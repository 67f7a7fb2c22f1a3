package commands

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/penguineda/internal/cli/config"
	"github.com/leapstack-labs/penguineda/internal/engine"
	"github.com/leapstack-labs/penguineda/internal/ui"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the penguin dashboard",
		Long: `Start a local web server with the interactive penguin dashboard.

The dashboard provides:
- Species and island filters shared by every display
- Data table and data grid of the filtered penguins
- Stacked histogram and density histogram of a chosen measurement
- Bill length scatterplot against the chosen measurement`,
		Example: `  # Start on the default port
  penguineda serve

  # Start on a custom port without opening a browser
  penguineda serve --port 3000 --no-browser

  # Serve a CSV file and reload pages when static assets change
  penguineda serve --source csv --dataset-path penguins.csv --watch`,
		RunE: runServe,
	}

	cmd.Flags().String("host", "", fmt.Sprintf("Host to bind (default: %s)", config.DefaultHost))
	cmd.Flags().Int("port", 0, fmt.Sprintf("Port to serve on (default: %d)", config.DefaultPort))
	cmd.Flags().Bool("no-browser", false, "Don't auto-open browser")
	cmd.Flags().Bool("watch", false, "Reload pages when static assets change")
	cmd.Flags().Int("max-sessions", 0, "Maximum number of live dashboard sessions")
	cmd.Flags().String("repo-url", "", "Repository link shown in the sidebar")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	uiCfg := cc.Cfg.UI

	records, err := cc.LoadDataset(ctx)
	if err != nil {
		return err
	}

	eng, err := engine.New(engine.Config{
		Source:      records,
		MaxSessions: uiCfg.MaxSessions,
		Logger:      cc.Logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	secret, err := sessionSecret(uiCfg.SessionSecret, cc.Logger)
	if err != nil {
		return err
	}

	server := ui.NewServer(ui.Config{
		Engine:        eng,
		Host:          uiCfg.Host,
		Port:          uiCfg.Port,
		Watch:         uiCfg.Watch,
		SessionSecret: secret,
		RepoURL:       uiCfg.RepoURL,
		Logger:        cc.Logger,
	})

	if uiCfg.AutoOpen {
		go openBrowser(server.URL())
	}

	cc.Renderer.Printf("Serving %d penguins on %s\n", len(records), server.URL())
	cc.Renderer.Muted("Press Ctrl+C to stop")

	return server.Serve(ctx)
}

// sessionSecret returns the configured cookie secret, or a random one.
// Random secrets do not survive a restart, so sessions start over.
func sessionSecret(configured string, logger *slog.Logger) (string, error) {
	if configured != "" {
		return configured, nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	logger.Debug("no session secret configured, using a random one")
	return hex.EncodeToString(buf), nil
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
