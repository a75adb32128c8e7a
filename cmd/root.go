/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "second-brain-be",
	Short: "Personal second-brain knowledge assistant",
	Long: `second-brain-be ingests text, voice and photo notes into a structured
knowledge base backed by a vector database, and answers questions over it
with retrieval-augmented generation.

Run "second-brain-be start" to serve the HTTP API, or use the one-shot
commands (ingest, ask, import) directly.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config/config.yaml", "config file")
}
