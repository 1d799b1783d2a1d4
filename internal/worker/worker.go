// Package worker consumes tailoring requests from RabbitMQ and runs them through the pipeline.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/pipeline"
)

// Queue and exchange names.
const (
	RequestQueue   = "tailor_requests"
	UpdateExchange = "session_updates"
)

// Update statuses.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusRejected   = "rejected"
)

// ErrSessionBusy is returned when a session already has a tailoring run in flight.
var ErrSessionBusy = errors.New("session already has a tailoring run in flight")

// Request is a queued tailoring request. The resume comes from ResumeText, or from
// ObjectKey in the configured bucket when ResumeText is empty.
type Request struct {
	SessionID  string `json:"session_id"`
	ResumeText string `json:"resume_text,omitempty"`
	FileName   string `json:"file_name,omitempty"`
	ObjectKey  string `json:"object_key,omitempty"`
	JobText    string `json:"job_text,omitempty"`
	JobURL     string `json:"job_url,omitempty"`
}

// Update is a status message published for a session.
type Update struct {
	SessionID string    `json:"session_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	State     string    `json:"state,omitempty"`
	Score     *float64  `json:"score,omitempty"`
	Markdown  string    `json:"markdown,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Runner executes a full tailoring run. *pipeline.Pipeline implements it.
type Runner interface {
	Run(ctx context.Context, in pipeline.Input) (*pipeline.Result, error)
}

// Publisher delivers session updates.
type Publisher interface {
	Publish(ctx context.Context, sessionID string, update Update) error
}

// ObjectFetcher downloads resume files. *extraction.S3Source implements it.
type ObjectFetcher interface {
	Fetch(ctx context.Context, bucket, key string) (extraction.File, error)
}

// Worker handles tailoring requests, at most one in flight per session.
type Worker struct {
	runner    Runner
	publisher Publisher
	objects   ObjectFetcher
	bucket    string
	attempts  int
	inflight  *inflight
	now       func() time.Time
}

// Option configures a Worker.
type Option func(*Worker)

// WithObjects enables resume download from bucket.
func WithObjects(f ObjectFetcher, bucket string) Option {
	return func(w *Worker) {
		w.objects = f
		w.bucket = bucket
	}
}

// WithDownloadAttempts sets how many times a resume download is tried.
func WithDownloadAttempts(n int) Option {
	return func(w *Worker) { w.attempts = n }
}

// New creates a Worker.
func New(runner Runner, publisher Publisher, opts ...Option) *Worker {
	w := &Worker{
		runner:    runner,
		publisher: publisher,
		attempts:  3,
		inflight:  newInflight(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Handle decodes and processes one request body. Failures are published as
// session updates and also returned.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return fmt.Errorf("decoding request: %w", err)
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return errors.New("request has no session_id")
	}

	if !w.inflight.acquire(req.SessionID) {
		w.publish(ctx, req.SessionID, Update{Status: StatusRejected, Message: "a tailoring run is already in progress"})
		return fmt.Errorf("%w: %s", ErrSessionBusy, req.SessionID)
	}
	defer w.inflight.release(req.SessionID)

	log.Printf("[Worker] Processing session %s", req.SessionID)
	w.publish(ctx, req.SessionID, Update{Status: StatusProcessing, Message: "tailoring started"})

	result, err := w.process(ctx, req)
	if err != nil {
		log.Printf("[Worker] Session %s failed: %v", req.SessionID, err)
		w.publish(ctx, req.SessionID, Update{Status: StatusFailed, Message: userMessage(err)})
		return err
	}

	score := result.Match.Score
	w.publish(ctx, req.SessionID, Update{
		Status:   StatusCompleted,
		Message:  "tailoring completed",
		State:    string(pipeline.StateExport),
		Score:    &score,
		Markdown: result.Markdown,
	})
	log.Printf("[Worker] Session %s completed (match %d%%)", req.SessionID, result.Match.Percent())
	return nil
}

func (w *Worker) process(ctx context.Context, req Request) (*pipeline.Result, error) {
	resume := pipeline.ResumeInput{Text: req.ResumeText}
	if strings.TrimSpace(req.ResumeText) == "" && req.ObjectKey != "" {
		if w.objects == nil {
			return nil, errors.New("object_key given but no object storage is configured")
		}
		file, err := retry(ctx, w.attempts, func() (extraction.File, error) {
			return w.objects.Fetch(ctx, w.bucket, req.ObjectKey)
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", pipeline.ErrResumeUnreadable, err)
		}
		if req.FileName != "" {
			file.Name = req.FileName
		}
		resume = pipeline.ResumeInput{File: &file}
	}

	return w.runner.Run(ctx, pipeline.Input{
		SessionID: req.SessionID,
		Resume:    resume,
		Job:       pipeline.JobInput{Text: req.JobText, URL: req.JobURL},
	})
}

func (w *Worker) publish(ctx context.Context, sessionID string, update Update) {
	update.SessionID = sessionID
	update.Timestamp = w.now()
	if err := w.publisher.Publish(ctx, sessionID, update); err != nil {
		log.Println("[Worker] failed to publish update:", err)
	}
}

// userMessage maps a run error to the message shown to the user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, pipeline.ErrResumeUnreadable):
		return pipeline.ErrResumeUnreadable.Error()
	case errors.Is(err, pipeline.ErrJobMissing):
		return pipeline.ErrJobMissing.Error()
	default:
		return "tailoring failed"
	}
}

// retryBackoff is the delay before the second attempt; each later attempt waits one step longer.
const retryBackoff = 500 * time.Millisecond

// retry calls fn up to attempts times with linear backoff. Cancelling ctx ends the
// wait between attempts.
func retry[T any](ctx context.Context, attempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		select {
		case <-time.After(time.Duration(i+1) * retryBackoff):
		case <-ctx.Done():
			return zero, fmt.Errorf("gave up after %d attempts: %w (last error: %v)", i+1, ctx.Err(), lastErr)
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

// inflight tracks sessions with a run in progress.
type inflight struct {
	mu       sync.Mutex
	sessions map[string]struct{}
}

func newInflight() *inflight {
	return &inflight{sessions: make(map[string]struct{})}
}

func (f *inflight) acquire(sessionID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.sessions[sessionID]; busy {
		return false
	}
	f.sessions[sessionID] = struct{}{}
	return true
}

func (f *inflight) release(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, sessionID)
}
