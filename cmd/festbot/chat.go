package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/festbot"
	"github.com/aretw0/festbot/internal/logging"
	"github.com/aretw0/festbot/internal/metrics"
	"github.com/aretw0/festbot/internal/presentation/tui"
	"github.com/aretw0/festbot/pkg/catalog"
	"github.com/aretw0/festbot/pkg/runner"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the festival events assistant",
	Long: `Starts an interactive chat in the terminal.

Queries go to the service at --endpoint. With --catalog the documents in that
directory are searched in-process instead and no service is needed.

Commands: "home" (or "back") starts over, "exit" (or "quit") leaves.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		override(cmd, "endpoint", &cfg.Endpoint)
		override(cmd, "catalog", &cfg.CatalogDir)
		if err := cfg.Validate(); err != nil {
			return err
		}
		jsonMode, _ := cmd.Flags().GetBool("json")
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

		level, _ := logging.ParseLevel(cfg.LogLevel)
		logger := logging.New(level)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := []festbot.Option{
			festbot.WithLogger(logger),
			festbot.WithTimeout(cfg.QueryTimeout),
			festbot.WithConfirmDelay(cfg.ConfirmDelay),
		}

		if metricsAddr != "" {
			m := metrics.New()
			opts = append(opts, festbot.WithLifecycleHooks(m.Hooks()))
			srv := &http.Server{Addr: metricsAddr, Handler: m.Handler(), ReadHeaderTimeout: 10 * time.Second}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("Metrics server failed", "addr", metricsAddr, "err", err)
				}
			}()
			defer srv.Close()
		}

		if cfg.CatalogDir != "" {
			store, err := loadDir(ctx, cfg.CatalogDir)
			if err != nil {
				return err
			}
			logger.Debug("Local catalog loaded", "dir", cfg.CatalogDir, "events", store.Len())
			opts = append(opts, festbot.WithGateway(catalog.NewService(store, catalog.WithLogger(logger)).Gateway()))
		}

		chat := festbot.New(cfg.Endpoint, opts...)

		var handler runner.IOHandler
		if jsonMode {
			handler = runner.NewJSONHandler(os.Stdin, os.Stdout, runner.WithJSONHandlerMaxInput(cfg.MaxInputBytes))
		} else {
			textOpts := []runner.TextHandlerOption{runner.WithTextHandlerMaxInput(cfg.MaxInputBytes)}
			if tui.Interactive(os.Stdin, os.Stdout) {
				tui.PrintBanner(os.Stdout, festbot.Version)
				render, err := tui.NewRenderer(tui.Width(os.Stdout))
				if err != nil {
					logger.Warn("Markdown rendering disabled", "err", err)
				} else {
					textOpts = append(textOpts, runner.WithTextHandlerRenderer(render))
				}
				textOpts = append(textOpts, runner.WithTextHandlerNotice(tui.Notice))
			}
			handler = runner.NewTextHandler(os.Stdin, os.Stdout, textOpts...)
		}

		return runner.NewRunner(chat,
			runner.WithInputHandler(handler),
			runner.WithLogger(logger),
		).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().String("endpoint", "", "Query service URL (default http://localhost:8080/api/query)")
	chatCmd.Flags().String("catalog", "", "Search this directory of event documents in-process")
	chatCmd.Flags().Bool("json", false, "Exchange JSON lines instead of text")
	chatCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address")
}
