package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/pipeline"
)

// maxUploadBytes bounds request bodies, which may carry a base64 resume file.
const maxUploadBytes = 10 << 20

// CreateSessionRequest is the body of POST /sessions. File takes precedence over ResumeText.
type CreateSessionRequest struct {
	SessionID  string `json:"session_id,omitempty"`
	ResumeText string `json:"resume_text,omitempty"`
	FileName   string `json:"file_name,omitempty"`
	MIME       string `json:"mime,omitempty"`
	File       []byte `json:"file,omitempty"` // base64 in JSON
	Name       string `json:"name,omitempty"`
}

func (r *CreateSessionRequest) resumeInput() (pipeline.ResumeInput, error) {
	in := pipeline.ResumeInput{Text: r.ResumeText, FallbackName: r.Name}
	if len(r.File) > 0 {
		in.File = &extraction.File{Name: r.FileName, MIME: r.MIME, Data: r.File}
		return in, nil
	}
	if strings.TrimSpace(r.ResumeText) == "" {
		return in, &ErrValidation{Field: "resume_text", Message: "resume_text or file is required"}
	}
	return in, nil
}

// JobRequest is the body of POST /sessions/{id}/job.
type JobRequest struct {
	JobText string `json:"job_text,omitempty"`
	JobURL  string `json:"job_url,omitempty"`
}

func (r *JobRequest) jobInput() (pipeline.JobInput, error) {
	if strings.TrimSpace(r.JobText) == "" && r.JobURL == "" {
		return pipeline.JobInput{}, pipeline.ErrJobMissing
	}
	return pipeline.JobInput{Text: r.JobText, URL: r.JobURL}, nil
}

// RunRequest is the body of POST /run: an upload and a job submission in one call.
type RunRequest struct {
	CreateSessionRequest
	JobRequest
}

// SessionResponse describes a session and its latest snapshot.
type SessionResponse struct {
	SessionID string            `json:"session_id"`
	State     pipeline.State    `json:"state"`
	Snapshot  pipeline.Snapshot `json:"snapshot"`
}

// HistoryResponse lists the states a session has passed through.
type HistoryResponse struct {
	SessionID string              `json:"session_id"`
	Snapshots []pipeline.Snapshot `json:"snapshots"`
}

func sessionResponse(session *pipeline.Session) SessionResponse {
	snap, _ := session.Current()
	return SessionResponse{SessionID: session.ID, State: session.State(), Snapshot: snap}
}

// handleCreateSession uploads a resume into a new session.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !s.decode(w, r, &req) {
		return
	}
	in, err := req.resumeInput()
	if err != nil {
		s.failure(w, err)
		return
	}

	session := pipeline.NewSession(req.SessionID)
	if _, err := s.sessions.get(session.ID); err == nil {
		s.failure(w, ErrSessionExists)
		return
	}
	if err := s.newPipeline(nil).Upload(r.Context(), session, in); err != nil {
		s.failure(w, err)
		return
	}
	if err := s.sessions.add(session); err != nil {
		s.failure(w, err)
		return
	}

	log.Printf("Session %s created", session.ID)
	s.jsonResponse(w, http.StatusCreated, sessionResponse(session))
}

// handleGetSession returns the session's current state and snapshot.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.get(r.PathValue("id"))
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sessionResponse(session))
}

// handleDeleteSession discards a session.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.remove(r.PathValue("id")) {
		s.failure(w, ErrSessionNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSessionSnapshots returns every recorded snapshot, or the one for a state
// given by path or ?state=.
func (s *Server) handleSessionSnapshots(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.get(r.PathValue("id"))
	if err != nil {
		s.failure(w, err)
		return
	}

	state := r.PathValue("state")
	if state == "" {
		state = r.URL.Query().Get("state")
	}
	if state != "" {
		snap, ok := session.Snapshot(pipeline.State(state))
		if !ok {
			s.errorResponse(w, http.StatusNotFound, "No snapshot for state "+state)
			return
		}
		s.jsonResponse(w, http.StatusOK, snap)
		return
	}
	s.jsonResponse(w, http.StatusOK, HistoryResponse{SessionID: session.ID, Snapshots: session.History()})
}

// handleSubmitJob analyzes a posting and tailors the session's resume to it.
func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	var req JobRequest
	if !s.decode(w, r, &req) {
		return
	}
	in, err := req.jobInput()
	if err != nil {
		s.failure(w, err)
		return
	}

	id := r.PathValue("id")
	session, err := s.sessions.acquire(id)
	if err != nil {
		s.failure(w, err)
		return
	}
	defer s.sessions.release(id)

	result, err := s.newPipeline(nil).SubmitJob(r.Context(), session, in)
	if err != nil {
		log.Printf("Session %s: tailoring failed: %v", id, err)
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleSubmitJobStream is handleSubmitJob with progress streamed as server-sent events.
func (s *Server) handleSubmitJobStream(w http.ResponseWriter, r *http.Request) {
	var req JobRequest
	if !s.decode(w, r, &req) {
		return
	}
	in, err := req.jobInput()
	if err != nil {
		s.failure(w, err)
		return
	}

	id := r.PathValue("id")
	session, err := s.sessions.acquire(id)
	if err != nil {
		s.failure(w, err)
		return
	}
	defer s.sessions.release(id)

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	p := s.newPipeline(func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("state", event); err != nil {
			log.Printf("Error writing SSE event: %v", err)
		}
	})
	result, err := p.SubmitJob(r.Context(), session, in)
	if err != nil {
		log.Printf("Session %s: streaming run failed: %v", id, err)
		sse.WriteError(userMessage(err))
		return
	}
	sse.WriteComplete(result)
}

// handleRun uploads and tailors in one request on a fresh session.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if !s.decode(w, r, &req) {
		return
	}
	resumeIn, err := req.resumeInput()
	if err != nil {
		s.failure(w, err)
		return
	}
	jobIn, err := req.jobInput()
	if err != nil {
		s.failure(w, err)
		return
	}

	result, err := s.newPipeline(nil).Run(r.Context(), pipeline.Input{
		SessionID: req.SessionID,
		Resume:    resumeIn,
		Job:       jobIn,
	})
	if err != nil {
		log.Printf("Run failed: %v", err)
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleListSessionRuns lists persisted runs of a session, newest first.
func (s *Server) handleListSessionRuns(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.failure(w, ErrHistoryUnavailable)
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			s.failure(w, &ErrValidation{Field: "limit", Message: "must be between 1 and 100"})
			return
		}
		limit = n
	}

	runs, err := s.history.ListSessionRuns(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, runs)
}

// handleGetRun returns one persisted run.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.failure(w, ErrHistoryUnavailable)
		return
	}

	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID format")
		return
	}
	run, err := s.history.GetRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}

// handleRunArtifact returns a stored step artifact: JSON as-is, markdown as text.
func (s *Server) handleRunArtifact(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.failure(w, ErrHistoryUnavailable)
		return
	}

	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID format")
		return
	}
	step := r.PathValue("step")

	content, err := s.history.GetArtifact(r.Context(), runID, step)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if content != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
		return
	}

	text, err := s.history.GetTextArtifact(r.Context(), runID, step)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if text == "" {
		s.errorResponse(w, http.StatusNotFound, "Artifact not found")
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// decode reads a JSON body, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// failure maps err to a status and a client-safe message.
func (s *Server) failure(w http.ResponseWriter, err error) {
	var validationErr *ErrValidation
	if errors.As(err, &validationErr) {
		s.errorResponse(w, http.StatusBadRequest, validationErr.Message)
		return
	}
	s.errorResponse(w, HTTPStatus(err), userMessage(err))
}
