/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/second-brain-be/config"
	"github.com/tieubaoca/second-brain-be/database"
)

// initIndexCmd represents the init-index command
var initIndexCmd = &cobra.Command{
	Use:   "init-index",
	Short: "Create the knowledge class in Weaviate",
	Long: `Ensures the knowledge class exists in the vector database. With --force
the class is dropped and recreated, losing all stored entries.`,
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		store, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			log.Fatalf("Failed to connect to Weaviate: %v", err)
		}
		if force {
			if err := store.ReInit(); err != nil {
				log.Fatalf("Failed to recreate class: %v", err)
			}
			log.Printf("Class %s recreated", cfg.WeaviateStoreConfig.ClassName)
			return
		}
		log.Printf("Class %s is ready", cfg.WeaviateStoreConfig.ClassName)
	},
}

func init() {
	rootCmd.AddCommand(initIndexCmd)

	initIndexCmd.Flags().BoolP("force", "f", false, "Drop and recreate the class")
}
