package parsing

import "fmt"

// EmptyJobTextError is returned when the job description has no content
type EmptyJobTextError struct {
	Source string
}

func (e *EmptyJobTextError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("job text is empty: %s", e.Source)
	}
	return "job text is empty"
}

// ExtractionError wraps a failure of the skill extraction strategy
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("skill extraction failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("skill extraction failed: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
