package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"eobtools/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "eobtools",
	Short: "EOB narration toolkit - turn insurance EOB PDFs into guided presentations",
	Long: `eobtools processes Explanation of Benefits (EOB) insurance documents:
it extracts and segments page text, analyzes document layout with Google
Document AI, generates a spoken-walkthrough script with OpenAI, aligns each
narration step to a highlight box on the page, and renders everything as a
single self-contained HTML presentation with optional embedded audio.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("eobtools executed")

		fmt.Println("eobtools - EOB narration toolkit")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
