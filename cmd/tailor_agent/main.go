// Package main provides the entry point for the resume tailoring agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tailor_agent",
	Short: "Resume tailoring agent",
	Long:  "Tailors stored resumes to job postings: merges source records, rewrites them against the posting with a language model, scores the fit and renders LaTeX output.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
