// Package main provides the resume_tailor command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_tailor",
	Short: "Tailor a resume to a job posting",
	Long: `resume_tailor structures a resume, analyzes a job posting, scores the skill match,
produces a tailored resume and suggests portfolio projects to build.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	SilenceUsage: true,
}

var (
	configPath string
	verbose    bool
	apiKeyFlag string
	provider   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "LLM API key (optional, defaults to GEMINI_API_KEY or OPENAI_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "LLM provider: gemini or openai (defaults to LLM_PROVIDER)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
