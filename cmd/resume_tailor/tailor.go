package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/matching"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/jonathan/resume-tailor/schemas"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Produce a tailored resume from structured resume and job JSON",
	Long: `Synthesize a TailoredResume from a StructuredResume and a StructuredJob.

When an API key is configured the summary and experience are rewritten by the language model;
otherwise, or when generation fails, a deterministic summary is produced.`,
	RunE: runTailor,
}

var (
	tailorResumeFile   string
	tailorJobFile      string
	tailorMatchFile    string
	tailorOutputFile   string
	tailorMarkdownFile string
	tailorMaxSkills    int
)

func init() {
	tailorCmd.Flags().StringVar(&tailorResumeFile, "resume-json", "", "Path to StructuredResume JSON file")
	tailorCmd.Flags().StringVar(&tailorJobFile, "job-json", "", "Path to StructuredJob JSON file")
	tailorCmd.Flags().StringVar(&tailorMatchFile, "match-json", "", "Path to MatchResult JSON file (computed when omitted)")
	tailorCmd.Flags().StringVarP(&tailorOutputFile, "out", "o", "", "Path to output JSON file (defaults to stdout)")
	tailorCmd.Flags().StringVar(&tailorMarkdownFile, "markdown", "", "Also write the tailored resume as markdown to this path")
	tailorCmd.Flags().IntVar(&tailorMaxSkills, "max-skills", 0, "Maximum recommended skills")

	_ = tailorCmd.MarkFlagRequired("resume-json")
	_ = tailorCmd.MarkFlagRequired("job-json")

	rootCmd.AddCommand(tailorCmd)
}

func runTailor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("max-skills") {
		cfg.MaxRecommendedSkills = tailorMaxSkills
	}

	var resume types.StructuredResume
	if err := readJSONFile(tailorResumeFile, &resume); err != nil {
		return err
	}
	var job types.StructuredJob
	if err := readJSONFile(tailorJobFile, &job); err != nil {
		return err
	}

	var match types.MatchResult
	if tailorMatchFile != "" {
		if err := readJSONFile(tailorMatchFile, &match); err != nil {
			return err
		}
	} else {
		match = matching.ComputeMatch(&resume, &job)
	}

	ctx := context.Background()
	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	if client != nil {
		defer func() { _ = client.Close() }()
	}

	tailored := newSynthesizer(client, cfg).Synthesize(ctx, &resume, &job, match)

	if cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintTailoredResume(tailored)
	}

	if err := writeJSONOutput(tailorOutputFile, tailored, schemas.TailoredResume); err != nil {
		return err
	}

	if tailorMarkdownFile != "" {
		markdown, err := rendering.FormatTailoredMarkdown(*tailored, nil)
		if err != nil {
			return fmt.Errorf("failed to render markdown: %w", err)
		}
		if err := writeOutput(tailorMarkdownFile, []byte(markdown)); err != nil {
			return err
		}
	}

	if tailorOutputFile != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Successfully tailored resume\n")
		_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", tailorOutputFile)
	}
	return nil
}
