package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/festbot"
	"github.com/aretw0/festbot/internal/logging"
	"github.com/aretw0/festbot/internal/metrics"
	httpAdapter "github.com/aretw0/festbot/pkg/adapters/http"
	"github.com/aretw0/festbot/pkg/catalog"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the catalog query service",
	Long: `Starts the HTTP query service used by the chat.

The catalog is loaded from Airtable when AIRTABLE_PAT and AIRTABLE_BASE_ID are
set, otherwise from the --catalog directory. POST /api/sync reloads it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		override(cmd, "addr", &cfg.Addr)
		override(cmd, "store", &cfg.Store)
		override(cmd, "catalog", &cfg.CatalogDir)
		if err := cfg.Validate(); err != nil {
			return err
		}

		level, _ := logging.ParseLevel(cfg.LogLevel)
		logger := logging.NewJSON(level)
		m := metrics.New()

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
		opts := []httpAdapter.ServerOption{
			httpAdapter.WithMetrics(m),
			httpAdapter.WithVersion(festbot.Version),
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMaxInputBytes(cfg.MaxInputBytes),
		}
		if source != nil {
			syncer := newSyncer(source, b, logger, m.ObserveSync)
			if n, err := syncer.Sync(ctx); err != nil {
				// The service still starts; readiness reports the store state.
				logger.Warn("Initial sync failed", "source", kind, "err", err)
			} else {
				logger.Info("Initial sync done", "source", kind, "events", n)
			}
			opts = append(opts, httpAdapter.WithSyncer(syncer))
		}

		svc := catalog.NewService(b.Store,
			catalog.WithLogger(logger),
			catalog.WithLifecycleHooks(m.Hooks()),
		)

		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           httpAdapter.NewHandler(svc, b.Store, opts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting festbot server", "addr", srv.Addr, "store", cfg.Store)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("Start shutdown")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", cfg.ShutdownTimeout, "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("Error killing server", "err", err)
				}
			}
			logger.Info("festbot server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default :8080)")
	serveCmd.Flags().String("store", "", "Event store backend: memory or redis")
	serveCmd.Flags().String("catalog", "", "Directory of event documents to serve")
}
