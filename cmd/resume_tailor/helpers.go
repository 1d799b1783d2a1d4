package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/cache"
	"github.com/jonathan/resume-tailor/internal/catalog"
	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/parsing"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/rewriting"
	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/skills"
	"github.com/jonathan/resume-tailor/internal/structuring"
)

// loadSettings resolves configuration. Global flags win over the config file,
// which wins over the environment, which wins over built-in defaults.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.Provider = provider
	}
	if flags.Changed("api-key") {
		cfg.APIKey = apiKeyFlag
	}
	cfg = cfg.Resolve()
	if verbose {
		cfg.Verbose = true
	}
	if cfg.Verbose && configPath != "" {
		log.Printf("[VERBOSE] Loaded config from: %s", configPath)
	}
	return cfg, nil
}

// newLLMClient returns nil when no API key is configured; callers then use
// their deterministic paths.
func newLLMClient(ctx context.Context, cfg config.Config) (llm.Client, error) {
	if cfg.APIKey == "" {
		if cfg.Verbose {
			log.Printf("[VERBOSE] No API key configured, content generation disabled")
		}
		return nil, nil
	}
	client, err := llm.NewClient(ctx, llm.ConfigForProvider(cfg.Provider), cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

// newSkillExtractor picks the LLM-backed extractor when asked and a client exists.
func newSkillExtractor(client llm.Client, useLLM bool, cfg config.Config) skills.Extractor {
	vocab := skills.Default()
	if useLLM && client != nil {
		e := skills.NewLLMExtractor(client, vocab)
		e.Verbose = cfg.Verbose
		return e
	}
	return skills.NewLexicalExtractor(vocab)
}

func newStructurer(extractor skills.Extractor, cfg config.Config) *structuring.Structurer {
	return structuring.New(structuring.WithExtractor(extractor), structuring.WithVerbose(cfg.Verbose))
}

func newAnalyzer(extractor skills.Extractor, cfg config.Config) *parsing.Analyzer {
	return parsing.NewAnalyzer(
		parsing.WithExtractor(extractor),
		parsing.WithMaxSkills(cfg.MaxJobSkills),
		parsing.WithVerbose(cfg.Verbose),
	)
}

func newSynthesizer(client llm.Client, cfg config.Config) *rewriting.Synthesizer {
	return rewriting.NewSynthesizer(
		rewriting.WithGenerator(llm.NewGenerator(client)),
		rewriting.WithTimeout(cfg.GenerationTimeout()),
		rewriting.WithMaxRecommendedSkills(cfg.MaxRecommendedSkills),
		rewriting.WithVerbose(cfg.Verbose),
	)
}

// openCache connects to Redis when configured. Connection failures downgrade to no cache.
func openCache(ctx context.Context, cfg config.Config) (cache.Cache, func()) {
	if cfg.CacheURL == "" {
		return nil, func() {}
	}
	rc, err := cache.NewRedisCacheFromURL(ctx, cfg.CacheURL)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: Failed to connect to cache: %v\n", err)
		return nil, func() {}
	}
	if cfg.Verbose {
		log.Printf("[VERBOSE] Connected to cache")
	}
	return rc, func() { _ = rc.Close() }
}

// openDatabase connects when a database URL is configured. Failures are returned
// so callers can decide whether persistence is optional.
func openDatabase(ctx context.Context, cfg config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		log.Printf("[VERBOSE] Connected to database")
	}
	return database, nil
}

// catalogSource prefers a catalog file, then the database table.
func catalogSource(cfg config.Config, database *db.DB) catalog.Source {
	switch {
	case cfg.CatalogPath != "":
		return catalog.FileSource{Path: cfg.CatalogPath}
	case database != nil:
		return catalog.PostgresSource{DB: database}
	default:
		return nil
	}
}

// newURLIngester builds a job-board ingester with optional page cache and browser fallback.
func newURLIngester(cfg config.Config, c cache.Cache) *ingestion.URLIngester {
	ing := ingestion.NewURLIngester(cfg.Verbose)
	if c != nil {
		ing.Fetcher = fetch.NewCachedFetcher(ing.Fetcher, c, fetch.DefaultPageTTL)
	}
	if cfg.UseBrowser {
		ing.Renderer = fetch.NewChromeRenderer(cfg.Verbose)
	}
	return ing
}

// servicePipeline holds the collaborators a long-running process shares across runs.
type servicePipeline struct {
	options  []pipeline.Option
	database *db.DB
	closers  []func()
}

func (sp *servicePipeline) Close() {
	for i := len(sp.closers) - 1; i >= 0; i-- {
		sp.closers[i]()
	}
}

// newServicePipeline wires the LLM client, database, catalog, cache and URL ingester
// for the worker and the API server. A configured database must be reachable.
func newServicePipeline(ctx context.Context, cfg config.Config) (*servicePipeline, error) {
	sp := &servicePipeline{}

	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if client != nil {
		sp.closers = append(sp.closers, func() { _ = client.Close() })
	}
	extractor := newSkillExtractor(client, false, cfg)
	sp.options = []pipeline.Option{
		pipeline.WithStructurer(newStructurer(extractor, cfg)),
		pipeline.WithAnalyzer(newAnalyzer(extractor, cfg)),
		pipeline.WithSynthesizer(newSynthesizer(client, cfg)),
		pipeline.WithTopN(cfg.PortfolioTopN),
		pipeline.WithVerbose(cfg.Verbose),
	}

	database, err := openDatabase(ctx, cfg)
	if err != nil {
		sp.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if database != nil {
		sp.database = database
		sp.closers = append(sp.closers, database.Close)
		sp.options = append(sp.options, pipeline.WithStore(database))
	}
	if source := catalogSource(cfg, database); source != nil {
		sp.options = append(sp.options, pipeline.WithCatalog(source))
	}

	c, closeCache := openCache(ctx, cfg)
	sp.closers = append(sp.closers, closeCache)
	if c != nil {
		sp.options = append(sp.options, pipeline.WithCache(c, cache.DefaultAnalysisTTL))
	}
	sp.options = append(sp.options, pipeline.WithURLIngester(newURLIngester(cfg, c)))
	return sp, nil
}

// loadResumeFile reads a resume from disk, or from object storage for s3://bucket/key.
func loadResumeFile(ctx context.Context, cfg config.Config, location string) (extraction.File, error) {
	if rest, ok := strings.CutPrefix(location, "s3://"); ok {
		bucket, key, found := strings.Cut(rest, "/")
		if !found || bucket == "" || key == "" {
			return extraction.File{}, fmt.Errorf("invalid object location %q, want s3://bucket/key", location)
		}
		source, err := newS3Source(ctx, cfg)
		if err != nil {
			return extraction.File{}, err
		}
		return source.Fetch(ctx, bucket, key)
	}

	data, err := os.ReadFile(location)
	if err != nil {
		return extraction.File{}, fmt.Errorf("failed to read resume file: %w", err)
	}
	return extraction.File{Name: filepath.Base(location), Data: data}, nil
}

func newS3Source(ctx context.Context, cfg config.Config) (*extraction.S3Source, error) {
	return extraction.NewS3SourceFromConfig(ctx, extraction.S3Config{
		Region:    cfg.AWSRegion,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
	})
}

// readJSONFile decodes a JSON artifact written by an earlier command.
func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// writeJSONOutput validates v against schemaName and writes it indented to path,
// or to stdout when path is empty. Schema load problems only warn.
func writeJSONOutput(path string, v any, schemaName string) error {
	if schemaName != "" {
		if err := schemas.ValidateValue(schemaName, v); err != nil {
			var validationErr *schemas.ValidationError
			if errors.As(err, &validationErr) {
				return fmt.Errorf("generated JSON does not validate against schema: %w", err)
			}
			_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate output against schema: %v\n", err)
		}
	}

	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return writeOutput(path, append(jsonBytes, '\n'))
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
