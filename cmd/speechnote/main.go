package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "speechnote",
		Short:         "Speaker-labeled transcripts and summaries for recorded sessions",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "config.yaml", "path to the YAML config")

	rootCmd.AddCommand(newTranscribeCmd())
	rootCmd.AddCommand(newSummarizeCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newNotesCmd())
	rootCmd.AddCommand(newWatchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
