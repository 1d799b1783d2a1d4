package structuring

import "fmt"

// StructuringError is returned when a resume cannot be turned into a StructuredResume.
type StructuringError struct {
	Message string
	Cause   error
}

func (e *StructuringError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("structuring error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("structuring error: %s", e.Message)
}

func (e *StructuringError) Unwrap() error {
	return e.Cause
}
