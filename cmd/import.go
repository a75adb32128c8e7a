/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/second-brain-be/service"
	"golang.org/x/time/rate"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Batch-import a directory into the knowledge base",
	Long: `Processes every supported file in the directory (txt/md, png/jpg/jpeg,
ogg/mp3/wav/m4a) through the ingestion pipeline, one item at a time, paced by
a token-bucket limiter to stay under the model provider's rate limit.`,
	Run: func(cmd *cobra.Command, args []string) {
		directory, _ := cmd.Flags().GetString("directory")
		if directory == "" {
			log.Fatal("--directory is required")
		}

		app, err := buildServices(cfgFile)
		if err != nil {
			log.Fatalf("Failed to initialize services: %v", err)
		}

		perMinute := app.cfg.ImportConfig.ItemsPerMinute
		limiter := rate.NewLimiter(rate.Limit(perMinute/60.0), 1)
		importer := service.NewImportService(app.ingest, app.extractor, limiter)

		summary, err := importer.ImportDirectory(context.Background(), directory)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		fmt.Printf("Import summary: %d succeeded, %d skipped, %d failed\n",
			summary.Succeeded, summary.Skipped, summary.Failed)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("directory", "d", "", "Path to the directory to import")
}
