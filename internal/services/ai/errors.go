package ai

import "fmt"

const (
	ErrorTypeConnection = "CONNECTION_ERROR"
	ErrorTypeAPI        = "API_ERROR"
	ErrorTypeTimeout    = "TIMEOUT_ERROR"
	ErrorTypeStream     = "STREAM_ERROR"
)

// AIError wraps failures from the inference backend with enough context
// to log and to surface a readable message to the user.
type AIError struct {
	Type      string
	Operation string
	Message   string
	Cause     error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("AI %s failed [%s]: %s (cause: %v)", e.Operation, e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("AI %s failed [%s]: %s", e.Operation, e.Type, e.Message)
}

func (e *AIError) Unwrap() error {
	return e.Cause
}

func NewConnectionError(operation, message string, cause error) *AIError {
	return &AIError{Type: ErrorTypeConnection, Operation: operation, Message: message, Cause: cause}
}

func NewAPIError(operation, message string, cause error) *AIError {
	return &AIError{Type: ErrorTypeAPI, Operation: operation, Message: message, Cause: cause}
}

func NewStreamError(operation, message string, cause error) *AIError {
	return &AIError{Type: ErrorTypeStream, Operation: operation, Message: message, Cause: cause}
}
