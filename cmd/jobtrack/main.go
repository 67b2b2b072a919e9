// Package main provides the entry point for the jobtrack CLI and API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobtrack",
	Short: "Job application tracker",
	Long:  "Jobtrack tracks job applications through their lifecycle, serves a REST API for the board, and sends daily follow-up reminder emails.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
