/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question over the stored knowledge",
	Long: `Runs the retrieval pipeline once: embed the question, search the
vector database and generate an answer with the retrieved context.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := buildServices(cfgFile)
		if err != nil {
			log.Fatalf("Failed to initialize services: %v", err)
		}
		question := strings.Join(args, " ")
		fmt.Println(app.answer.Answer(context.Background(), question))
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
