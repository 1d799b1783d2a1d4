package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/cache"
	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/schemas"
)

var analyzeJobCmd = &cobra.Command{
	Use:   "analyze-job",
	Short: "Analyze a job posting into StructuredJob JSON",
	Long:  "Analyze a job posting from a text file or URL into required skills, preferred skills, responsibilities and an experience level.",
	RunE:  runAnalyzeJob,
}

var (
	analyzeJobFile    string
	analyzeJobURL     string
	analyzeOutputFile string
	analyzeMetaFile   string
	analyzeUseBrowser bool
	analyzeLLMSkills  bool
	analyzeMaxSkills  int
)

func init() {
	analyzeJobCmd.Flags().StringVarP(&analyzeJobFile, "job", "j", "", "Path to job posting text file (mutually exclusive with --job-url)")
	analyzeJobCmd.Flags().StringVar(&analyzeJobURL, "job-url", "", "URL to fetch job posting from (mutually exclusive with --job)")
	analyzeJobCmd.Flags().StringVarP(&analyzeOutputFile, "out", "o", "", "Path to output JSON file (defaults to stdout)")
	analyzeJobCmd.Flags().StringVar(&analyzeMetaFile, "meta-out", "", "Path to write ingestion metadata JSON (source URL, timestamp, content hash)")
	analyzeJobCmd.Flags().BoolVar(&analyzeUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	analyzeJobCmd.Flags().BoolVar(&analyzeLLMSkills, "llm-skills", false, "Use the language model for skill extraction (requires an API key)")
	analyzeJobCmd.Flags().IntVar(&analyzeMaxSkills, "max-skills", 0, "Maximum job skills to extract (0 means no limit)")

	rootCmd.AddCommand(analyzeJobCmd)
}

func runAnalyzeJob(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("job") {
		cfg.Job = analyzeJobFile
	}
	if cmd.Flags().Changed("job-url") {
		cfg.JobURL = analyzeJobURL
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = analyzeUseBrowser
	}
	if cmd.Flags().Changed("max-skills") {
		cfg.MaxJobSkills = analyzeMaxSkills
	}
	if cfg.Job == "" && cfg.JobURL == "" {
		return fmt.Errorf("either --job or --job-url is required")
	}
	if cfg.Job != "" && cfg.JobURL != "" {
		return fmt.Errorf("--job and --job-url are mutually exclusive")
	}

	ctx := context.Background()

	c, closeCache := openCache(ctx, cfg)
	defer closeCache()

	text, meta, err := readJobText(ctx, cfg, c)
	if err != nil {
		return err
	}
	if analyzeMetaFile != "" {
		metaJSON, err := meta.ToJSON()
		if err != nil {
			return err
		}
		if err := writeOutput(analyzeMetaFile, append(metaJSON, '\n')); err != nil {
			return err
		}
	}

	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	if client != nil {
		defer func() { _ = client.Close() }()
	}

	job, err := newAnalyzer(newSkillExtractor(client, analyzeLLMSkills, cfg), cfg).Analyze(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to analyze job: %w", err)
	}

	if cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintStructuredJob(job)
	}

	if err := writeJSONOutput(analyzeOutputFile, job, schemas.StructuredJob); err != nil {
		return err
	}
	if analyzeOutputFile != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Successfully analyzed job posting\n")
		_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", analyzeOutputFile)
	}
	return nil
}

// readJobText loads posting text from the configured file or URL.
func readJobText(ctx context.Context, cfg config.Config, c cache.Cache) (string, *ingestion.Metadata, error) {
	if cfg.Job != "" {
		text, meta, err := ingestion.IngestFromFile(cfg.Job)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read job posting: %w", err)
		}
		return text, meta, nil
	}
	text, meta, err := newURLIngester(cfg, c).Ingest(ctx, cfg.JobURL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to ingest job posting: %w", err)
	}
	if cfg.Verbose {
		_, _ = fmt.Fprintf(os.Stderr, "Fetched %s (%s)\n", cfg.JobURL, meta.Hash)
	}
	return text, meta, nil
}
