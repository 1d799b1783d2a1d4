package pipeline

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/types"
)

// State is a stage of a tailoring session.
type State string

// Session states, in order.
const (
	StateUpload    State = "upload"
	StateJobInput  State = "job_input"
	StateMatching  State = "matching"
	StateTailoring State = "tailoring"
	StatePortfolio State = "portfolio"
	StateExport    State = "export"
)

// States lists every session state in the order a session visits them.
var States = []State{StateUpload, StateJobInput, StateMatching, StateTailoring, StatePortfolio, StateExport}

func (s State) index() int {
	for i, st := range States {
		if st == s {
			return i
		}
	}
	return -1
}

// ErrInvalidTransition is returned for any transition the session does not allow.
var ErrInvalidTransition = errors.New("invalid session transition")

// TransitionError describes a rejected transition.
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	from := string(e.From)
	if from == "" {
		from = "start"
	}
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, from, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Snapshot is the pipeline data as of one state. Each snapshot carries everything
// produced up to and including its state and is never mutated after it is recorded.
type Snapshot struct {
	State     State                    `json:"state"`
	Resume    *types.StructuredResume  `json:"resume,omitempty"`
	Job       *types.StructuredJob     `json:"job,omitempty"`
	Match     *types.MatchResult       `json:"match,omitempty"`
	Tailored  *types.TailoredResume    `json:"tailored,omitempty"`
	Portfolio []types.PortfolioProject `json:"portfolio,omitempty"`
	Markdown  string                   `json:"markdown,omitempty"`
	At        time.Time                `json:"at"`
}

func (s Snapshot) clone() Snapshot {
	out := s
	if s.Resume != nil {
		r := s.Resume.Clone()
		out.Resume = &r
	}
	if s.Job != nil {
		j := s.Job.Clone()
		out.Job = &j
	}
	if s.Match != nil {
		m := s.Match.Clone()
		out.Match = &m
	}
	if s.Tailored != nil {
		t := s.Tailored.Clone()
		out.Tailored = &t
	}
	out.Portfolio = types.ClonePortfolio(s.Portfolio)
	return out
}

// Session is the state machine for one user's tailoring flow.
// Transitions move forward one state at a time; the only other move is back to
// JobInput, which discards the snapshots recorded after Upload.
type Session struct {
	ID string

	mu        sync.RWMutex
	snapshots []Snapshot
	now       func() time.Time
}

// NewSession starts an empty session. An empty id gets a generated one.
func NewSession(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{ID: id, now: time.Now}
}

// State returns the current state, or "" before a resume has been uploaded.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	if len(s.snapshots) == 0 {
		return ""
	}
	return s.snapshots[len(s.snapshots)-1].State
}

// CanTransition reports whether the session may move to the given state.
func (s *Session) CanTransition(to State) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allowed(to)
}

func (s *Session) allowed(to State) bool {
	target := to.index()
	if target < 0 {
		return false
	}
	current := s.stateLocked().index()
	if target == current+1 {
		return true
	}
	// back to job input for a new posting
	return to == StateJobInput && current >= StateJobInput.index()
}

// advance validates the transition, applies fill to a copy of the previous snapshot
// and records the result.
func (s *Session) advance(to State, fill func(*Snapshot)) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.allowed(to) {
		return Snapshot{}, &TransitionError{From: s.stateLocked(), To: to}
	}

	keep := to.index()
	var next Snapshot
	if keep > 0 {
		next = s.snapshots[keep-1].clone()
	}
	s.snapshots = s.snapshots[:keep]

	next.State = to
	next.At = s.now()
	fill(&next)
	next = next.clone()
	s.snapshots = append(s.snapshots, next)
	return next.clone(), nil
}

// UploadResume records the structured resume. Valid only on a new session.
func (s *Session) UploadResume(resume *types.StructuredResume) (Snapshot, error) {
	return s.advance(StateUpload, func(snap *Snapshot) {
		snap.Resume = resume
	})
}

// SetJob records the analyzed job. Valid after upload, and again from any later
// state to restart with a different posting.
func (s *Session) SetJob(job *types.StructuredJob) (Snapshot, error) {
	return s.advance(StateJobInput, func(snap *Snapshot) {
		snap.Job = job
	})
}

// RecordMatch records the skill match.
func (s *Session) RecordMatch(match types.MatchResult) (Snapshot, error) {
	return s.advance(StateMatching, func(snap *Snapshot) {
		snap.Match = &match
	})
}

// RecordTailored records the tailored resume.
func (s *Session) RecordTailored(tailored *types.TailoredResume) (Snapshot, error) {
	return s.advance(StateTailoring, func(snap *Snapshot) {
		snap.Tailored = tailored
	})
}

// RecordPortfolio records the ranked portfolio suggestions.
func (s *Session) RecordPortfolio(projects []types.PortfolioProject) (Snapshot, error) {
	return s.advance(StatePortfolio, func(snap *Snapshot) {
		snap.Portfolio = projects
	})
}

// Export records the rendered markdown. Export is terminal.
func (s *Session) Export(markdown string) (Snapshot, error) {
	return s.advance(StateExport, func(snap *Snapshot) {
		snap.Markdown = markdown
	})
}

// Snapshot returns a copy of the snapshot recorded for state.
func (s *Session) Snapshot(state State) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, snap := range s.snapshots {
		if snap.State == state {
			return snap.clone(), true
		}
	}
	return Snapshot{}, false
}

// Current returns a copy of the latest snapshot.
func (s *Session) Current() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.snapshots) == 0 {
		return Snapshot{}, false
	}
	return s.snapshots[len(s.snapshots)-1].clone(), true
}

// History returns copies of all recorded snapshots in state order.
func (s *Session) History() []Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Snapshot, len(s.snapshots))
	for i, snap := range s.snapshots {
		out[i] = snap.clone()
	}
	return out
}
