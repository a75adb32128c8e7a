/*
Copyright © 2025 tieubaoca
*/
package main

import (
	"github.com/joho/godotenv"
	"github.com/tieubaoca/second-brain-be/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	// .env is optional outside local development
	godotenv.Load()
}
