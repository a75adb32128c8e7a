/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/second-brain-be/utils"
)

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access token for the HTTP API",
	Long: `Signs a bearer token with JWT_SECRET. Pass the token in the
Authorization header of API requests.`,
	Run: func(cmd *cobra.Command, args []string) {
		ttl, _ := cmd.Flags().GetDuration("ttl")
		name, _ := cmd.Flags().GetString("name")

		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			log.Fatal("JWT_SECRET is not set")
		}
		token, err := utils.GenerateAccessToken(secret, name, ttl)
		if err != nil {
			log.Fatalf("Failed to generate token: %v", err)
		}
		fmt.Println(token)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().Duration("ttl", 30*24*time.Hour, "Token lifetime")
	tokenCmd.Flags().String("name", "owner", "Display name embedded in the token")
}
