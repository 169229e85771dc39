// Package main provides reviewctl, a command line front end to the review analysis pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "reviewctl",
	Short:         "Customer review analytics",
	Long:          "reviewctl scores sentiment, extracts keywords and turns a file of customer reviews into prioritized improvement suggestions and a phased roadmap.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
