package llm

import "fmt"

// GenerationErrorKind classifies generation failures.
type GenerationErrorKind string

const (
	// GenerationUnavailable means no generator is configured.
	GenerationUnavailable GenerationErrorKind = "unavailable"
	// GenerationTimeout means the call exceeded its deadline.
	GenerationTimeout GenerationErrorKind = "timeout"
	// GenerationProvider means the provider returned an error.
	GenerationProvider GenerationErrorKind = "provider"
	// GenerationEmpty means the provider returned no text.
	GenerationEmpty GenerationErrorKind = "empty"
)

// GenerationError represents a failed content generation
type GenerationError struct {
	Kind    GenerationErrorKind
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("generation %s: %s", e.Kind, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}
