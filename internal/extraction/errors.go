package extraction

import "fmt"

// ErrorKind classifies extraction failures.
type ErrorKind string

const (
	KindUnsupported ErrorKind = "unsupported"
	KindParse       ErrorKind = "parse"
	KindEmpty       ErrorKind = "empty"
	KindDownload    ErrorKind = "download"
)

// ExtractionError is returned when a file's text cannot be read.
type ExtractionError struct {
	Kind    ErrorKind
	File    string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction %s error for %q: %s: %v", e.Kind, e.File, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction %s error for %q: %s", e.Kind, e.File, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
