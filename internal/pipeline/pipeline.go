// Package pipeline orchestrates a tailoring session from resume upload to markdown export.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-tailor/internal/cache"
	"github.com/jonathan/resume-tailor/internal/catalog"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/matching"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/parsing"
	"github.com/jonathan/resume-tailor/internal/ranking"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/rewriting"
	"github.com/jonathan/resume-tailor/internal/structuring"
	"github.com/jonathan/resume-tailor/internal/types"
)

// totalSteps is the number of session states a full run passes through.
const totalSteps = 6

var (
	// ErrResumeUnreadable is the user-facing failure for uploads that yield no usable resume.
	ErrResumeUnreadable = errors.New("could not read resume")
	// ErrJobMissing is the user-facing failure for blank job descriptions.
	ErrJobMissing = errors.New("please provide a job description")
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Progress categories.
const (
	CategoryIngestion = "ingestion"
	CategoryAnalysis  = "analysis"
	CategoryOutput    = "output"
)

// ResumeStructurer turns resume text into a StructuredResume.
type ResumeStructurer interface {
	Structure(ctx context.Context, rawText, fallbackName string) (*types.StructuredResume, error)
}

// JobAnalyzer turns posting text into a StructuredJob.
type JobAnalyzer interface {
	Analyze(ctx context.Context, rawText string) (*types.StructuredJob, error)
}

// TailorSynthesizer produces the tailored resume. It never fails.
type TailorSynthesizer interface {
	Synthesize(ctx context.Context, resume *types.StructuredResume, job *types.StructuredJob, match types.MatchResult) *types.TailoredResume
}

// URLIngester fetches and cleans a posting from a URL.
type URLIngester interface {
	Ingest(ctx context.Context, url string) (string, *ingestion.Metadata, error)
}

// RunStore persists runs and their per-state artifacts. *db.DB implements it.
type RunStore interface {
	CreateRun(ctx context.Context, runID uuid.UUID, sessionID, jobURL string) error
	CompleteRun(ctx context.Context, runID uuid.UUID, status, jobTitle string, score *float64) error
	SaveArtifact(ctx context.Context, runID uuid.UUID, step string, content any) error
	SaveTextArtifact(ctx context.Context, runID uuid.UUID, step, text string) error
}

// Pipeline wires the tailoring components together. Collaborators that are not
// configured fall back to their default implementations; catalog, cache, store and
// URL ingester are optional.
type Pipeline struct {
	extractor   extraction.TextExtractor
	structurer  ResumeStructurer
	analyzer    JobAnalyzer
	synthesizer TailorSynthesizer
	catalog     catalog.Source
	cache       cache.Cache
	cacheTTL    time.Duration
	store       RunStore
	urls        URLIngester
	topN        int
	verbose     bool
	out         io.Writer
	printer     *observability.Printer
	onProgress  ProgressCallback
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithExtractor sets the resume text extractor.
func WithExtractor(e extraction.TextExtractor) Option {
	return func(p *Pipeline) { p.extractor = e }
}

// WithStructurer sets the resume structurer.
func WithStructurer(s ResumeStructurer) Option {
	return func(p *Pipeline) { p.structurer = s }
}

// WithAnalyzer sets the job analyzer.
func WithAnalyzer(a JobAnalyzer) Option {
	return func(p *Pipeline) { p.analyzer = a }
}

// WithSynthesizer sets the tailoring synthesizer.
func WithSynthesizer(s TailorSynthesizer) Option {
	return func(p *Pipeline) { p.synthesizer = s }
}

// WithCatalog sets the portfolio project source.
func WithCatalog(src catalog.Source) Option {
	return func(p *Pipeline) { p.catalog = src }
}

// WithCache memoizes job analysis in c for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(p *Pipeline) {
		p.cache = c
		p.cacheTTL = ttl
	}
}

// WithStore persists runs and artifacts.
func WithStore(s RunStore) Option {
	return func(p *Pipeline) { p.store = s }
}

// WithURLIngester enables job input by URL.
func WithURLIngester(u URLIngester) Option {
	return func(p *Pipeline) { p.urls = u }
}

// WithTopN caps the number of portfolio suggestions. Zero or less keeps all.
func WithTopN(n int) Option {
	return func(p *Pipeline) { p.topN = n }
}

// WithVerbose prints boxed summaries after each state.
func WithVerbose(v bool) Option {
	return func(p *Pipeline) { p.verbose = v }
}

// WithOutput redirects step and summary output. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(p *Pipeline) { p.out = w }
}

// WithProgress registers a progress callback.
func WithProgress(cb ProgressCallback) Option {
	return func(p *Pipeline) { p.onProgress = cb }
}

// New builds a Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		topN:     ranking.DefaultTopN,
		cacheTTL: cache.DefaultAnalysisTTL,
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.extractor == nil {
		p.extractor = extraction.NewExtractor()
	}
	if p.structurer == nil {
		p.structurer = structuring.New(structuring.WithVerbose(p.verbose))
	}
	if p.analyzer == nil {
		p.analyzer = parsing.NewAnalyzer(parsing.WithVerbose(p.verbose))
	}
	if p.synthesizer == nil {
		p.synthesizer = rewriting.NewSynthesizer(rewriting.WithVerbose(p.verbose))
	}
	p.printer = observability.NewPrinter(p.out)
	return p
}

// ResumeInput is an uploaded resume. File takes precedence over Text.
type ResumeInput struct {
	File         *extraction.File
	Text         string
	FallbackName string
}

// JobInput is a submitted posting. Text takes precedence over URL.
type JobInput struct {
	Text string
	URL  string
}

// Input is everything a full run needs.
type Input struct {
	SessionID string
	Resume    ResumeInput
	Job       JobInput
}

// Result is the outcome of a completed run.
type Result struct {
	RunID     uuid.UUID                `json:"run_id"`
	SessionID string                   `json:"session_id"`
	Resume    *types.StructuredResume  `json:"resume"`
	Job       *types.StructuredJob     `json:"job"`
	Match     types.MatchResult        `json:"match"`
	Tailored  *types.TailoredResume    `json:"tailored"`
	Portfolio []types.PortfolioProject `json:"portfolio"`
	Markdown  string                   `json:"markdown"`
}

// Run uploads the resume and submits the job on a fresh session.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	session := NewSession(in.SessionID)
	if err := p.Upload(ctx, session, in.Resume); err != nil {
		return nil, err
	}
	return p.SubmitJob(ctx, session, in.Job)
}

// Upload extracts and structures the resume and records the Upload state.
func (p *Pipeline) Upload(ctx context.Context, session *Session, in ResumeInput) error {
	p.step(1, "Reading resume")

	text := in.Text
	if in.File != nil {
		var err error
		text, err = p.extractor.ExtractText(ctx, *in.File)
		if err != nil {
			var extractErr *extraction.ExtractionError
			if errors.As(err, &extractErr) && p.verbose {
				log.Printf("[VERBOSE] Extraction failed (%s): %v", extractErr.Kind, extractErr)
			}
			return fmt.Errorf("%w: %w", ErrResumeUnreadable, err)
		}
	}

	resume, err := p.structurer.Structure(ctx, text, in.FallbackName)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrResumeUnreadable, err)
	}
	if _, err := session.UploadResume(resume); err != nil {
		return err
	}

	if p.verbose {
		p.printer.PrintStructuredResume(resume)
	}
	p.emit(StateUpload, CategoryIngestion, "", fmt.Sprintf("Structured resume for %s: %d skills", resume.Name, len(resume.Skills)), resume)
	return nil
}

// SubmitJob analyzes the posting and runs Matching, Tailoring, Portfolio and Export.
// It may be called again on a session past JobInput to tailor for another posting.
func (p *Pipeline) SubmitJob(ctx context.Context, session *Session, in JobInput) (*Result, error) {
	if !session.CanTransition(StateJobInput) {
		return nil, &TransitionError{From: session.State(), To: StateJobInput}
	}

	runID := uuid.New()
	p.createRun(ctx, runID, session.ID, in.URL)

	result, err := p.submitJob(ctx, session, in, runID)
	if err != nil {
		p.completeRun(ctx, runID, db.RunStatusFailed, "", nil)
		return nil, err
	}
	score := result.Match.Score
	p.completeRun(ctx, runID, db.RunStatusCompleted, result.Job.Title, &score)
	return result, nil
}

func (p *Pipeline) submitJob(ctx context.Context, session *Session, in JobInput, runID uuid.UUID) (*Result, error) {
	// Step 2: job input
	p.step(2, "Analyzing job posting")
	jobText, err := p.jobText(ctx, in)
	if err != nil {
		return nil, err
	}
	job, err := p.analyze(ctx, jobText)
	if err != nil {
		var emptyErr *parsing.EmptyJobTextError
		if errors.As(err, &emptyErr) {
			return nil, fmt.Errorf("%w: %w", ErrJobMissing, err)
		}
		return nil, fmt.Errorf("job analysis failed: %w", err)
	}
	snap, err := session.SetJob(job)
	if err != nil {
		return nil, err
	}
	resume := snap.Resume
	if p.verbose {
		p.printer.PrintStructuredJob(job)
	}
	p.saveText(ctx, runID, db.StepJob+"_text", jobText)
	p.save(ctx, runID, db.StepResume, resume)
	p.save(ctx, runID, db.StepJob, job)
	p.emit(StateJobInput, CategoryAnalysis, runID.String(),
		fmt.Sprintf("Analyzed job: %d required, %d preferred skills", len(job.RequiredSkills), len(job.PreferredSkills)), job)

	// Step 3: matching
	p.step(3, "Matching skills")
	match := matching.ComputeMatch(resume, job)
	if _, err := session.RecordMatch(match); err != nil {
		return nil, err
	}
	if p.verbose {
		p.printer.PrintMatchResult(&match)
	}
	p.save(ctx, runID, db.StepMatch, match)
	p.emit(StateMatching, CategoryAnalysis, runID.String(), fmt.Sprintf("Skill match %d%%", match.Percent()), match)

	// Steps 4 and 5 only read the resume, job and match, so they run concurrently.
	p.step(4, "Tailoring resume and ranking portfolio")
	var (
		tailored  *types.TailoredResume
		portfolio []types.PortfolioProject
		mu        sync.Mutex
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t := p.synthesizer.Synthesize(gCtx, resume, job, match)
		mu.Lock()
		tailored = t
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		ranked, err := p.rankPortfolio(gCtx, job)
		if err != nil {
			return err
		}
		mu.Lock()
		portfolio = ranked
		mu.Unlock()
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if _, err := session.RecordTailored(tailored); err != nil {
		return nil, err
	}
	if p.verbose {
		p.printer.PrintTailoredResume(tailored)
	}
	p.save(ctx, runID, db.StepTailored, tailored)
	p.emit(StateTailoring, CategoryOutput, runID.String(), "Tailored resume ready", tailored)

	p.step(5, "Recording portfolio suggestions")
	if _, err := session.RecordPortfolio(portfolio); err != nil {
		return nil, err
	}
	if p.verbose {
		p.printer.PrintPortfolio(portfolio)
	}
	p.save(ctx, runID, db.StepPortfolio, portfolio)
	p.emit(StatePortfolio, CategoryOutput, runID.String(), fmt.Sprintf("Suggested %d portfolio projects", len(portfolio)), portfolio)

	// Step 6: export
	p.step(6, "Rendering markdown")
	markdown, err := rendering.FormatTailoredMarkdown(*tailored, portfolio)
	if err != nil {
		return nil, fmt.Errorf("export failed: %w", err)
	}
	if _, err := session.Export(markdown); err != nil {
		return nil, err
	}
	p.saveText(ctx, runID, db.StepExport, markdown)
	p.emit(StateExport, CategoryOutput, runID.String(), "Exported tailored resume", nil)

	return &Result{
		RunID:     runID,
		SessionID: session.ID,
		Resume:    resume,
		Job:       job,
		Match:     match,
		Tailored:  tailored,
		Portfolio: portfolio,
		Markdown:  markdown,
	}, nil
}

// jobText resolves the posting body from the submitted text or URL.
func (p *Pipeline) jobText(ctx context.Context, in JobInput) (string, error) {
	if strings.TrimSpace(in.Text) != "" || in.URL == "" {
		return in.Text, nil
	}
	if p.urls == nil {
		return "", errors.New("job URL given but URL ingestion is not configured")
	}
	text, _, err := p.urls.Ingest(ctx, in.URL)
	if err != nil {
		return "", fmt.Errorf("job ingestion from URL failed: %w", err)
	}
	return text, nil
}

// analyze runs the analyzer, memoized by the hash of the posting text.
func (p *Pipeline) analyze(ctx context.Context, jobText string) (*types.StructuredJob, error) {
	if p.cache == nil || strings.TrimSpace(jobText) == "" {
		return p.analyzer.Analyze(ctx, jobText)
	}

	key := cache.AnalysisKey(jobText)
	var cached types.StructuredJob
	found, err := cache.GetJSON(ctx, p.cache, key, &cached)
	if err != nil {
		log.Printf("[CACHE] Warning: lookup %s failed: %v", key, err)
	}
	if found {
		if p.verbose {
			log.Printf("[CACHE] Reusing job analysis %s", key)
		}
		return &cached, nil
	}

	job, err := p.analyzer.Analyze(ctx, jobText)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, p.cache, key, job, p.cacheTTL); err != nil {
		log.Printf("[CACHE] Warning: store %s failed: %v", key, err)
	}
	return job, nil
}

func (p *Pipeline) rankPortfolio(ctx context.Context, job *types.StructuredJob) ([]types.PortfolioProject, error) {
	if p.catalog == nil {
		return []types.PortfolioProject{}, nil
	}
	candidates, err := p.catalog.ListCandidateProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading project catalog: %w", err)
	}
	return ranking.RankPortfolioN(candidates, job, p.topN), nil
}

//nolint:errcheck // progress output; errors are not recoverable
func (p *Pipeline) step(n int, msg string) {
	fmt.Fprintf(p.out, "Step %d/%d: %s...\n", n, totalSteps, msg)
}

// emit calls the progress callback if configured
func (p *Pipeline) emit(state State, category, runID, message string, content any) {
	if p.onProgress == nil {
		return
	}
	p.onProgress(ProgressEvent{
		Step:     string(state),
		Category: category,
		Message:  message,
		RunID:    runID,
		Content:  content,
	})
}

func (p *Pipeline) createRun(ctx context.Context, runID uuid.UUID, sessionID, jobURL string) {
	if p.store == nil {
		return
	}
	if err := p.store.CreateRun(ctx, runID, sessionID, jobURL); err != nil {
		log.Printf("Warning: Failed to create database run: %v", err)
	} else if p.verbose {
		log.Printf("[VERBOSE] Created database run: %s", runID)
	}
}

func (p *Pipeline) completeRun(ctx context.Context, runID uuid.UUID, status, jobTitle string, score *float64) {
	if p.store == nil {
		return
	}
	if err := p.store.CompleteRun(ctx, runID, status, jobTitle, score); err != nil {
		log.Printf("Warning: Failed to complete database run %s: %v", runID, err)
	}
}

func (p *Pipeline) save(ctx context.Context, runID uuid.UUID, step string, content any) {
	if p.store == nil {
		return
	}
	if err := p.store.SaveArtifact(ctx, runID, step, content); err != nil {
		log.Printf("Warning: Failed to save %s artifact: %v", step, err)
	}
}

func (p *Pipeline) saveText(ctx context.Context, runID uuid.UUID, step, text string) {
	if p.store == nil {
		return
	}
	if err := p.store.SaveTextArtifact(ctx, runID, step, text); err != nil {
		log.Printf("Warning: Failed to save %s artifact: %v", step, err)
	}
}
