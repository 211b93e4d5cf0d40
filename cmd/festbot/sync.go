package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/festbot/internal/config"
	"github.com/aretw0/festbot/internal/logging"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Copy the upstream catalog into the shared event store",
	Long: `Fetches every record from Airtable (or the --catalog directory) and
writes it to the configured store. Only useful with a persistent store such
as Redis; a running "serve" picks the records up immediately.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		override(cmd, "store", &cfg.Store)
		override(cmd, "catalog", &cfg.CatalogDir)
		if err := cfg.Validate(); err != nil {
			return err
		}

		level, _ := logging.ParseLevel(cfg.LogLevel)
		logger := logging.New(level)
		if cfg.Store == config.StoreMemory {
			logger.Warn("Syncing into the memory store; records are lost on exit")
		}

		source, kind, err := newSource(cfg, logger)
		if err != nil {
			return err
		}
		if source == nil {
			return errors.New("no catalog source: set AIRTABLE_PAT and AIRTABLE_BASE_ID or --catalog")
		}

		b, err := newBackend(cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		n, err := newSyncer(source, b, logger, nil).Sync(cmd.Context())
		if err != nil {
			return err
		}
		logger.Debug("sync finished", "source", kind)
		fmt.Fprintf(cmd.OutOrStdout(), "Synced %d records.\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().String("store", "", "Event store backend: memory or redis")
	syncCmd.Flags().String("catalog", "", "Directory of event documents to sync")
}
