package server

import (
	"sync"

	"github.com/jonathan/resume-tailor/internal/pipeline"
)

type sessionEntry struct {
	session *pipeline.Session
	busy    bool
}

// sessionStore holds live sessions in memory. A session admits one job submission at a time.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*sessionEntry)}
}

func (st *sessionStore) add(s *pipeline.Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[s.ID]; ok {
		return ErrSessionExists
	}
	st.sessions[s.ID] = &sessionEntry{session: s}
	return nil
}

func (st *sessionStore) get(id string) (*pipeline.Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e.session, nil
}

// acquire marks the session busy. Callers must release it.
func (st *sessionStore) acquire(id string) (*pipeline.Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if e.busy {
		return nil, ErrSessionBusy
	}
	e.busy = true
	return e.session, nil
}

func (st *sessionStore) release(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if e, ok := st.sessions[id]; ok {
		e.busy = false
	}
}

func (st *sessionStore) remove(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	return ok
}
