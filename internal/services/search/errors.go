package search

import "fmt"

// SearchError wraps failures talking to the search backend.
type SearchError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *SearchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("search %s failed: %s (cause: %v)", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("search %s failed: %s", e.Operation, e.Message)
}

func (e *SearchError) Unwrap() error {
	return e.Cause
}
