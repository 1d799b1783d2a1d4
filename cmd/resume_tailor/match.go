package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/matching"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/jonathan/resume-tailor/schemas"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score a structured resume against a structured job",
	Long:  "Compare the skills of a StructuredResume JSON file against a StructuredJob JSON file and write a MatchResult.",
	RunE:  runMatch,
}

var (
	matchResumeFile string
	matchJobFile    string
	matchOutputFile string
)

func init() {
	matchCmd.Flags().StringVar(&matchResumeFile, "resume-json", "", "Path to StructuredResume JSON file")
	matchCmd.Flags().StringVar(&matchJobFile, "job-json", "", "Path to StructuredJob JSON file")
	matchCmd.Flags().StringVarP(&matchOutputFile, "out", "o", "", "Path to output JSON file (defaults to stdout)")

	_ = matchCmd.MarkFlagRequired("resume-json")
	_ = matchCmd.MarkFlagRequired("job-json")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	var resume types.StructuredResume
	if err := readJSONFile(matchResumeFile, &resume); err != nil {
		return err
	}
	var job types.StructuredJob
	if err := readJSONFile(matchJobFile, &job); err != nil {
		return err
	}

	result := matching.ComputeMatch(&resume, &job)

	if cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintMatchResult(&result)
	}

	if err := writeJSONOutput(matchOutputFile, result, schemas.MatchResult); err != nil {
		return err
	}
	if matchOutputFile != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Match score: %d%%\n", result.Percent())
		_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", matchOutputFile)
	}
	return nil
}
