package pipeline

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/cache"
	"github.com/jonathan/resume-tailor/internal/catalog"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/parsing"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/structuring"
	"github.com/jonathan/resume-tailor/internal/types"
)

type fakeStore struct {
	mu        sync.Mutex
	created   []uuid.UUID
	statuses  map[uuid.UUID]string
	artifacts map[string]any
}

func newFakeStore() *fakeStore {
	return &fakeStore{statuses: map[uuid.UUID]string{}, artifacts: map[string]any{}}
}

func (f *fakeStore) CreateRun(_ context.Context, runID uuid.UUID, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, runID)
	f.statuses[runID] = db.RunStatusRunning
	return nil
}

func (f *fakeStore) CompleteRun(_ context.Context, runID uuid.UUID, status, _ string, _ *float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[runID] = status
	return nil
}

func (f *fakeStore) SaveArtifact(_ context.Context, _ uuid.UUID, step string, content any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.artifacts[step] = content
	return nil
}

func (f *fakeStore) SaveTextArtifact(_ context.Context, _ uuid.UUID, step, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.artifacts[step] = text
	return nil
}

type countingAnalyzer struct {
	calls int
}

func (c *countingAnalyzer) Analyze(ctx context.Context, raw string) (*types.StructuredJob, error) {
	c.calls++
	return parsing.NewAnalyzer().Analyze(ctx, raw)
}

type failingExtractor struct{}

func (failingExtractor) ExtractText(_ context.Context, f extraction.File) (string, error) {
	return "", &extraction.ExtractionError{Kind: extraction.KindParse, File: f.Name, Message: "corrupt"}
}

type failingCatalog struct{}

func (failingCatalog) ListCandidateProjects(context.Context) ([]types.ProjectTemplate, error) {
	return nil, errors.New("catalog offline")
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("down")
}

func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("down")
}

type stubIngester struct {
	text string
	err  error
}

func (s stubIngester) Ingest(_ context.Context, url string) (string, *ingestion.Metadata, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	return s.text, ingestion.NewMetadata(s.text, url), nil
}

const jobPosting = "Frontend Developer\nRequired: React, Node.js\nPreferred: AWS"

func resumeText() string {
	return rendering.FormatResume(types.StructuredResume{
		Name:   "Jane Doe",
		Email:  "jane@example.com",
		Skills: []string{"React", "TypeScript"},
		Experience: []types.Experience{
			{Title: "Web Developer", Company: "Initech", Duration: "2020 - 2023", Description: "Built dashboards in React"},
		},
	})
}

func testCatalog() catalog.Source {
	return catalog.StaticSource{Projects: []types.ProjectTemplate{
		{Name: "Data Pipeline", Technologies: []string{"Python", "Airflow"}},
		{Name: "Storefront", Technologies: []string{"React", "Node.js"}},
		{Name: "Cloud Infra", Technologies: []string{"AWS", "Terraform"}},
	}}
}

func TestPipeline_Run(t *testing.T) {
	var out bytes.Buffer
	var events []ProgressEvent
	store := newFakeStore()

	p := New(
		WithCatalog(testCatalog()),
		WithStore(store),
		WithOutput(&out),
		WithProgress(func(e ProgressEvent) { events = append(events, e) }),
	)

	result, err := p.Run(context.Background(), Input{
		SessionID: "session-1",
		Resume:    ResumeInput{Text: resumeText(), FallbackName: "Jane Doe"},
		Job:       JobInput{Text: jobPosting},
	})
	require.NoError(t, err)

	assert.Equal(t, "session-1", result.SessionID)
	assert.Equal(t, []string{"React", "Node.js"}, result.Job.RequiredSkills)
	assert.Equal(t, []string{"AWS"}, result.Job.PreferredSkills)
	assert.InDelta(t, 0.35, result.Match.Score, 1e-9)
	assert.Equal(t, []string{"Node.js"}, result.Match.MissingRequiredSkills)

	require.NotNil(t, result.Tailored)
	assert.False(t, result.Tailored.Generated)
	assert.NotEmpty(t, result.Tailored.TailoredSummary)

	require.Len(t, result.Portfolio, 3)
	assert.Equal(t, "Storefront", result.Portfolio[0].Name)
	assert.Equal(t, 100.0, result.Portfolio[0].RelevanceScore)
	assert.Equal(t, "Cloud Infra", result.Portfolio[1].Name)
	assert.Equal(t, 50.0, result.Portfolio[1].RelevanceScore)

	assert.Contains(t, result.Markdown, "Storefront")
	assert.Contains(t, out.String(), "Step 1/6")
	assert.Contains(t, out.String(), "Step 6/6")

	var steps []string
	for _, e := range events {
		steps = append(steps, e.Step)
	}
	assert.Equal(t, []string{"upload", "job_input", "matching", "tailoring", "portfolio", "export"}, steps)

	require.Len(t, store.created, 1)
	assert.Equal(t, result.RunID, store.created[0])
	assert.Equal(t, db.RunStatusCompleted, store.statuses[result.RunID])
	assert.Equal(t, result.Markdown, store.artifacts[db.StepExport])
	assert.Contains(t, store.artifacts, db.StepMatch)
}

func TestPipeline_SubmitJobTwice(t *testing.T) {
	var out bytes.Buffer
	p := New(WithOutput(&out))
	session := NewSession("")

	require.NoError(t, p.Upload(context.Background(), session, ResumeInput{Text: resumeText(), FallbackName: "Jane Doe"}))

	first, err := p.SubmitJob(context.Background(), session, JobInput{Text: jobPosting})
	require.NoError(t, err)
	second, err := p.SubmitJob(context.Background(), session, JobInput{Text: "Backend Engineer\nRequired: Go, PostgreSQL"})
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, second.Job.RequiredSkills)
	assert.Equal(t, StateExport, session.State())

	cur, _ := session.Current()
	assert.Equal(t, second.Markdown, cur.Markdown)
	assert.Empty(t, second.Portfolio)
}

func TestPipeline_SubmitJobBeforeUpload(t *testing.T) {
	p := New(WithOutput(&bytes.Buffer{}))
	_, err := p.SubmitJob(context.Background(), NewSession(""), JobInput{Text: jobPosting})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPipeline_UnreadableResume(t *testing.T) {
	p := New(WithExtractor(failingExtractor{}), WithOutput(&bytes.Buffer{}))

	_, err := p.Run(context.Background(), Input{
		Resume: ResumeInput{File: &extraction.File{Name: "cv.pdf", Data: []byte("%PDF")}},
		Job:    JobInput{Text: jobPosting},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResumeUnreadable)
	var extractErr *extraction.ExtractionError
	assert.True(t, errors.As(err, &extractErr))
}

func TestPipeline_EmptyResumeText(t *testing.T) {
	p := New(WithOutput(&bytes.Buffer{}))

	_, err := p.Run(context.Background(), Input{Resume: ResumeInput{Text: "  "}, Job: JobInput{Text: jobPosting}})
	assert.ErrorIs(t, err, ErrResumeUnreadable)
	var structErr *structuring.StructuringError
	assert.True(t, errors.As(err, &structErr))
}

func TestPipeline_BlankJob(t *testing.T) {
	store := newFakeStore()
	p := New(WithStore(store), WithOutput(&bytes.Buffer{}))
	session := NewSession("")
	require.NoError(t, p.Upload(context.Background(), session, ResumeInput{Text: resumeText(), FallbackName: "Jane Doe"}))

	_, err := p.SubmitJob(context.Background(), session, JobInput{Text: "   "})
	assert.ErrorIs(t, err, ErrJobMissing)
	var emptyErr *parsing.EmptyJobTextError
	assert.True(t, errors.As(err, &emptyErr))

	assert.Equal(t, StateUpload, session.State())
	require.Len(t, store.created, 1)
	assert.Equal(t, db.RunStatusFailed, store.statuses[store.created[0]])
}

func TestPipeline_CatalogFailure(t *testing.T) {
	p := New(WithCatalog(failingCatalog{}), WithOutput(&bytes.Buffer{}))

	_, err := p.Run(context.Background(), Input{
		Resume: ResumeInput{Text: resumeText(), FallbackName: "Jane Doe"},
		Job:    JobInput{Text: jobPosting},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog offline")
}

func TestPipeline_AnalysisCache(t *testing.T) {
	analyzer := &countingAnalyzer{}
	mem := cache.NewMemoryCache()
	p := New(WithAnalyzer(analyzer), WithCache(mem, time.Hour), WithOutput(&bytes.Buffer{}))
	in := Input{
		Resume: ResumeInput{Text: resumeText(), FallbackName: "Jane Doe"},
		Job:    JobInput{Text: jobPosting},
	}

	first, err := p.Run(context.Background(), in)
	require.NoError(t, err)
	second, err := p.Run(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 1, analyzer.calls)
	assert.Equal(t, first.Job, second.Job)
	assert.Equal(t, 1, mem.Len())
}

func TestPipeline_BrokenCacheIsIgnored(t *testing.T) {
	analyzer := &countingAnalyzer{}
	p := New(WithAnalyzer(analyzer), WithCache(brokenCache{}, time.Hour), WithOutput(&bytes.Buffer{}))

	result, err := p.Run(context.Background(), Input{
		Resume: ResumeInput{Text: resumeText(), FallbackName: "Jane Doe"},
		Job:    JobInput{Text: jobPosting},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, analyzer.calls)
	assert.Equal(t, []string{"AWS"}, result.Job.PreferredSkills)
}

func TestPipeline_JobFromURL(t *testing.T) {
	p := New(WithURLIngester(stubIngester{text: jobPosting}), WithOutput(&bytes.Buffer{}))

	result, err := p.Run(context.Background(), Input{
		Resume: ResumeInput{Text: resumeText(), FallbackName: "Jane Doe"},
		Job:    JobInput{URL: "https://boards.greenhouse.io/acme/jobs/1"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"React", "Node.js"}, result.Job.RequiredSkills)
}

func TestPipeline_JobURLErrors(t *testing.T) {
	resume := ResumeInput{Text: resumeText(), FallbackName: "Jane Doe"}
	job := JobInput{URL: "https://example.com/job"}

	_, err := New(WithOutput(&bytes.Buffer{})).Run(context.Background(), Input{Resume: resume, Job: job})
	assert.ErrorContains(t, err, "URL ingestion is not configured")

	p := New(WithURLIngester(stubIngester{err: ingestion.ErrHTTPRequestFailed}), WithOutput(&bytes.Buffer{}))
	_, err = p.Run(context.Background(), Input{Resume: resume, Job: job})
	assert.ErrorIs(t, err, ingestion.ErrHTTPRequestFailed)
}

func TestPipeline_VerbosePrintsSummaries(t *testing.T) {
	var out bytes.Buffer
	p := New(WithVerbose(true), WithCatalog(testCatalog()), WithOutput(&out))

	_, err := p.Run(context.Background(), Input{
		Resume: ResumeInput{Text: resumeText(), FallbackName: "Jane Doe"},
		Job:    JobInput{Text: jobPosting},
	})
	require.NoError(t, err)

	for _, title := range []string{"STRUCTURED RESUME", "ANALYZED JOB POSTING", "SKILL MATCH", "TAILORED RESUME", "PORTFOLIO SUGGESTIONS"} {
		assert.Contains(t, out.String(), title)
	}
}
