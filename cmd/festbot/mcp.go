package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/festbot/internal/logging"
	"github.com/aretw0/festbot/pkg/adapters/mcp"
	"github.com/aretw0/festbot/pkg/catalog"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the events catalog as MCP tools (search_events, get_event_details).

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		override(cmd, "catalog", &cfg.CatalogDir)
		override(cmd, "store", &cfg.Store)
		if err := cfg.Validate(); err != nil {
			return err
		}

		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Logs go to stderr so they don't corrupt JSON-RPC on stdout.
		level, _ := logging.ParseLevel(cfg.LogLevel)
		logger := logging.New(level)

		b, err := newBackend(cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		source, kind, err := newSource(cfg, logger)
		if err != nil {
			return err
		}
		if source != nil {
			if _, err := newSyncer(source, b, logger, nil).Sync(ctx); err != nil {
				logger.Warn("Initial sync failed", "source", kind, "err", err)
			}
		}

		srv := mcp.NewServer(catalog.NewService(b.Store, catalog.WithLogger(logger)), b.Store,
			mcp.WithLogger(logger),
			mcp.WithMaxInputBytes(cfg.MaxInputBytes),
		)

		switch transport {
		case "stdio":
			logger.Info("Starting festbot MCP Server (Stdio)...")
			return srv.ServeStdio()
		case "sse":
			logger.Info("Starting festbot MCP Server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8081, "Port to listen on (only for SSE)")
	mcpCmd.Flags().String("catalog", "", "Directory of event documents to serve")
	mcpCmd.Flags().String("store", "", "Event store backend: memory or redis")
}
