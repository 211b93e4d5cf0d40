package main

import (
	"fmt"

	"github.com/aretw0/festbot/internal/presentation/graph"
	"github.com/aretw0/festbot/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the dialogue visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the chat modes and the gestures moving between them.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(domain.Dialogue(), nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
