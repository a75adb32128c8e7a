/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/second-brain-be/service"
	"github.com/tieubaoca/second-brain-be/utils"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest one text, image or audio file into the knowledge base",
	Long: `Runs the ingestion pipeline once: structure the input into a knowledge
record, embed it and store it in the vector database. The input is either
--text or --file (txt/md, png/jpg/jpeg, ogg/mp3/wav/m4a).`,
	Run: func(cmd *cobra.Command, args []string) {
		text, _ := cmd.Flags().GetString("text")
		filePath, _ := cmd.Flags().GetString("file")
		source, _ := cmd.Flags().GetString("source")

		if text == "" && filePath == "" {
			log.Fatal("either --text or --file is required")
		}

		app, err := buildServices(cfgFile)
		if err != nil {
			log.Fatalf("Failed to initialize services: %v", err)
		}

		ctx := context.Background()
		if filePath != "" {
			text, source, err = extractFromFile(ctx, app, filePath)
			if err != nil {
				log.Fatalf("Failed to extract text from %s: %v", filePath, err)
			}
		}
		if source == "" {
			source = service.SourceTextChat
		}

		id, record, err := app.ingest.Ingest(ctx, text, source)
		if err != nil {
			log.Fatalf("Ingestion failed: %v", err)
		}
		fmt.Printf("Stored %q with id %s\n", record.CoreContent.Title, id)
	},
}

func extractFromFile(ctx context.Context, app *appServices, path string) (string, string, error) {
	switch utils.ClassifyFile(path) {
	case utils.KindText:
		data, err := os.ReadFile(path)
		return string(data), service.SourceTextFile, err
	case utils.KindImage:
		if app.extractor == nil {
			return "", "", fmt.Errorf("no multimodal extractor configured")
		}
		text, err := app.extractor.ExtractImageText(ctx, path)
		return text, service.SourceScreenshot, err
	case utils.KindAudio:
		if app.extractor == nil {
			return "", "", fmt.Errorf("no multimodal extractor configured")
		}
		text, err := app.extractor.TranscribeAudio(ctx, path)
		return text, service.SourceAudioFile, err
	default:
		return "", "", fmt.Errorf("unsupported file type")
	}
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringP("text", "t", "", "Raw text to ingest")
	ingestCmd.Flags().StringP("file", "f", "", "Path to a file to ingest")
	ingestCmd.Flags().StringP("source", "s", "", "Source label override")
}
