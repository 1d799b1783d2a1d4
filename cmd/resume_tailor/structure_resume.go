package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/schemas"
)

var structureResumeCmd = &cobra.Command{
	Use:   "structure-resume",
	Short: "Extract and structure a resume into StructuredResume JSON",
	Long: `Extract text from a resume (.pdf, .docx, .txt, .md, or s3://bucket/key) and segment it into
contact info, summary, skills, experience, education and projects.`,
	RunE: runStructureResume,
}

var (
	structureResumeFile string
	structureOutputFile string
	structureName       string
	structureLLMSkills  bool
)

func init() {
	structureResumeCmd.Flags().StringVarP(&structureResumeFile, "resume", "r", "", "Path to resume file or s3://bucket/key")
	structureResumeCmd.Flags().StringVarP(&structureOutputFile, "out", "o", "", "Path to output JSON file (defaults to stdout)")
	structureResumeCmd.Flags().StringVarP(&structureName, "name", "n", "", "Fallback candidate name when none is detected")
	structureResumeCmd.Flags().BoolVar(&structureLLMSkills, "llm-skills", false, "Use the language model for skill extraction (requires an API key)")

	rootCmd.AddCommand(structureResumeCmd)
}

func runStructureResume(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("resume") {
		cfg.Resume = structureResumeFile
	}
	if cmd.Flags().Changed("name") {
		cfg.Name = structureName
	}
	if cfg.Resume == "" {
		return fmt.Errorf("--resume is required")
	}

	ctx := context.Background()

	file, err := loadResumeFile(ctx, cfg, cfg.Resume)
	if err != nil {
		return err
	}
	text, err := extraction.NewExtractor().ExtractText(ctx, file)
	if err != nil {
		return fmt.Errorf("failed to extract resume text: %w", err)
	}

	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	if client != nil {
		defer func() { _ = client.Close() }()
	}

	resume, err := newStructurer(newSkillExtractor(client, structureLLMSkills, cfg), cfg).Structure(ctx, text, cfg.Name)
	if err != nil {
		return fmt.Errorf("failed to structure resume: %w", err)
	}

	if cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintStructuredResume(resume)
	}

	if err := writeJSONOutput(structureOutputFile, resume, schemas.StructuredResume); err != nil {
		return err
	}
	if structureOutputFile != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Successfully structured resume\n")
		_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", structureOutputFile)
	}
	return nil
}
