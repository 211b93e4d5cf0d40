package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/festbot/internal/validator"
	"github.com/aretw0/loam"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check a catalog directory for consistency",
	Long:  `Reads every event document and reports missing names, duplicate IDs and bad timestamps.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.CatalogDir
		if len(args) > 0 {
			dir = args[0]
		}
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			dir = wd
		}

		absPath, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		repo, err := loam.Init(absPath, loam.WithStrict(true), loam.WithReadOnly(true))
		if err != nil {
			return fmt.Errorf("failed to initialize loam: %w", err)
		}

		n, err := validator.ValidateCatalog(cmd.Context(), repo)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Catalog is valid: %d events.\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
