package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/cache"
	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/ranking"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full tailoring session end-to-end",
	Long: `Runs a session through every state: upload -> job input -> matching -> tailoring -> portfolio -> export.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runResume      string
	runJob         string
	runJobURL      string
	runName        string
	runCatalog     string
	runOutput      string
	runJSONOutput  string
	runSessionID   string
	runDatabaseURL string
	runCacheURL    string
	runTopN        int
	runUseBrowser  bool
	runLLMSkills   bool
)

func init() {
	runCommand.Flags().StringVarP(&runResume, "resume", "r", "", "Path to resume file (.pdf, .docx, .txt, .md) or s3://bucket/key")
	runCommand.Flags().StringVarP(&runJob, "job", "j", "", "Path to job posting text file (mutually exclusive with --job-url)")
	runCommand.Flags().StringVar(&runJobURL, "job-url", "", "URL to fetch job posting from (mutually exclusive with --job)")
	runCommand.Flags().StringVarP(&runName, "name", "n", "", "Fallback candidate name")
	runCommand.Flags().StringVar(&runCatalog, "catalog", "", "Path to project catalog JSON file (defaults to the database catalog)")
	runCommand.Flags().StringVarP(&runOutput, "out", "o", "tailored_resume.md", "Path to the exported markdown file")
	runCommand.Flags().StringVar(&runJSONOutput, "json-out", "", "Also write every session artifact as JSON to this path")
	runCommand.Flags().StringVar(&runSessionID, "session-id", "", "Session identifier (generated when omitted)")
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	runCommand.Flags().StringVar(&runCacheURL, "cache-url", "", "Redis URL for analysis caching (optional, defaults to REDIS_URL env var)")
	runCommand.Flags().IntVar(&runTopN, "top-n", ranking.DefaultTopN, "Number of portfolio projects to suggest")
	runCommand.Flags().BoolVar(&runUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	runCommand.Flags().BoolVar(&runLLMSkills, "llm-skills", false, "Use the language model for skill extraction (requires an API key)")

	// Note: --resume and --job are not required here; we validate after merging config

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	applyRunOverrides(cmd, &cfg)

	if cfg.Resume == "" {
		return fmt.Errorf("--resume is required (provide via flag or config file)")
	}
	if cfg.Job == "" && cfg.JobURL == "" {
		return fmt.Errorf("either --job or --job-url is required (provide via flag or config file)")
	}
	if cfg.Job != "" && cfg.JobURL != "" {
		return fmt.Errorf("--job and --job-url are mutually exclusive")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resumeFile, err := loadResumeFile(ctx, cfg, cfg.Resume)
	if err != nil {
		return err
	}

	var jobText string
	if cfg.Job != "" {
		data, err := os.ReadFile(cfg.Job)
		if err != nil {
			return fmt.Errorf("failed to read job posting: %w", err)
		}
		jobText = string(data)
	}

	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	if client != nil {
		defer func() { _ = client.Close() }()
	}
	extractor := newSkillExtractor(client, runLLMSkills, cfg)

	opts := []pipeline.Option{
		pipeline.WithStructurer(newStructurer(extractor, cfg)),
		pipeline.WithAnalyzer(newAnalyzer(extractor, cfg)),
		pipeline.WithSynthesizer(newSynthesizer(client, cfg)),
		pipeline.WithTopN(cfg.PortfolioTopN),
		pipeline.WithVerbose(cfg.Verbose),
	}

	database, err := openDatabase(ctx, cfg)
	if err != nil {
		// Persistence is optional for a local run.
		_, _ = fmt.Fprintf(os.Stderr, "Warning: Failed to connect to database: %v\n", err)
		database = nil
	}
	if database != nil {
		defer database.Close()
		opts = append(opts, pipeline.WithStore(database))
	}
	if source := catalogSource(cfg, database); source != nil {
		opts = append(opts, pipeline.WithCatalog(source))
	}

	c, closeCache := openCache(ctx, cfg)
	defer closeCache()
	if c != nil {
		opts = append(opts, pipeline.WithCache(c, cache.DefaultAnalysisTTL))
	}
	opts = append(opts, pipeline.WithURLIngester(newURLIngester(cfg, c)))

	result, err := pipeline.New(opts...).Run(ctx, pipeline.Input{
		SessionID: runSessionID,
		Resume:    pipeline.ResumeInput{File: &resumeFile, FallbackName: cfg.Name},
		Job:       pipeline.JobInput{Text: jobText, URL: cfg.JobURL},
	})
	if err != nil {
		return err
	}

	if err := writeOutput(runOutput, []byte(result.Markdown)); err != nil {
		return err
	}
	if runJSONOutput != "" {
		if err := writeJSONOutput(runJSONOutput, result, ""); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintf(os.Stdout, "\nSession %s complete (run %s)\n", result.SessionID, result.RunID)
	_, _ = fmt.Fprintf(os.Stdout, "Match score: %d%%\n", result.Match.Percent())
	_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", runOutput)
	return nil
}

// applyRunOverrides applies only the flags that were explicitly set.
func applyRunOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("resume") {
		cfg.Resume = runResume
	}
	if flags.Changed("job") {
		cfg.Job = runJob
		cfg.JobURL = ""
	}
	if flags.Changed("job-url") {
		cfg.JobURL = runJobURL
		if !flags.Changed("job") {
			cfg.Job = ""
		}
	}
	if flags.Changed("name") {
		cfg.Name = runName
	}
	if flags.Changed("catalog") {
		cfg.CatalogPath = runCatalog
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}
	if flags.Changed("cache-url") {
		cfg.CacheURL = runCacheURL
	}
	if flags.Changed("top-n") {
		cfg.PortfolioTopN = runTopN
	}
	if flags.Changed("use-browser") {
		cfg.UseBrowser = runUseBrowser
	}
}
