package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/festbot"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of festbot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "festbot version %s\n", strings.TrimSpace(festbot.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
