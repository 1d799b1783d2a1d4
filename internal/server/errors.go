package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-tailor/internal/pipeline"
)

var (
	// ErrSessionNotFound is returned for unknown session IDs.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionBusy is returned when a session already has a job submission in flight.
	ErrSessionBusy = errors.New("session already has a tailoring run in progress")
	// ErrSessionExists is returned when an upload reuses a live session ID.
	ErrSessionExists = errors.New("session already exists")
	// ErrHistoryUnavailable is returned for history routes when no database is configured.
	ErrHistoryUnavailable = errors.New("run history requires a database")
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validationErr *ErrValidation
	var transitionErr *pipeline.TransitionError
	switch {
	case errors.As(err, &validationErr), errors.Is(err, pipeline.ErrJobMissing):
		return http.StatusBadRequest
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSessionBusy), errors.Is(err, ErrSessionExists), errors.As(err, &transitionErr):
		return http.StatusConflict
	case errors.Is(err, pipeline.ErrResumeUnreadable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrHistoryUnavailable):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// userMessage is the message shown to API clients. Internal failures are not echoed.
func userMessage(err error) string {
	switch {
	case errors.Is(err, pipeline.ErrResumeUnreadable):
		return pipeline.ErrResumeUnreadable.Error()
	case errors.Is(err, pipeline.ErrJobMissing):
		return pipeline.ErrJobMissing.Error()
	case HTTPStatus(err) == http.StatusInternalServerError:
		return "tailoring failed"
	default:
		return err.Error()
	}
}
