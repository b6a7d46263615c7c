package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"stacmcp/internal/server"
	"stacmcp/pkg/logging"
)

// serveDebug enables verbose logging across the application.
var serveDebug bool

// serveConfigPath specifies a custom configuration directory. When empty the
// per-user default (~/.config/stacmcp) is used.
var serveConfigPath string

// serveTransport overrides the configured MCP transport.
var serveTransport string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stacmcp MCP server",
	Long: `Starts the MCP server exposing the STAC catalog tools.

The transport is stdio by default, which is what MCP clients like Claude
Desktop or Cursor spawn. The sse and streamable-http transports bind an HTTP
listener on the configured host and port instead.

Configuration is read from config.yaml in the configuration directory
(default ~/.config/stacmcp), with STACMCP_* environment variables taking
precedence.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(serveConfigPath, serveDebug)
	if err != nil {
		return err
	}
	if serveTransport != "" {
		cfg.Server.Transport = serveTransport
	}

	provider := buildProvider(cfg)
	srv := server.New(cfg.Server, provider)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	logging.Info("Serve", "stacmcp serving catalog %s over %s", cfg.Catalog.URL, cfg.Server.Transport)

	<-ctx.Done()
	stop()
	return srv.Stop(context.Background())
}

func init() {
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().StringVar(&serveConfigPath, "config-path", "", "Configuration directory (default ~/.config/stacmcp)")
	serveCmd.Flags().StringVar(&serveTransport, "transport", "", "MCP transport: stdio, sse or streamable-http (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
