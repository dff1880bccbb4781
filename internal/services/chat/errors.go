package chat

import "fmt"

const (
	ErrorTypeNotFound   = "NOT_FOUND"
	ErrorTypeForbidden  = "FORBIDDEN"
	ErrorTypeBusy       = "BUSY"
	ErrorTypeValidation = "VALIDATION_ERROR"
	ErrorTypeInternal   = "INTERNAL_ERROR"
)

// ChatError describes a failure in the chat service with a type the
// handler layer maps onto an HTTP status.
type ChatError struct {
	Type      string
	Operation string
	Message   string
	Cause     error
}

func (e *ChatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("chat %s failed [%s]: %s (cause: %v)", e.Operation, e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("chat %s failed [%s]: %s", e.Operation, e.Type, e.Message)
}

func (e *ChatError) Unwrap() error {
	return e.Cause
}

func NewNotFoundError(operation, message string) *ChatError {
	return &ChatError{Type: ErrorTypeNotFound, Operation: operation, Message: message}
}

func NewForbiddenError(operation, message string) *ChatError {
	return &ChatError{Type: ErrorTypeForbidden, Operation: operation, Message: message}
}

func NewBusyError(operation string) *ChatError {
	return &ChatError{Type: ErrorTypeBusy, Operation: operation, Message: "a response is already being generated for this user"}
}

func NewValidationError(operation, message string) *ChatError {
	return &ChatError{Type: ErrorTypeValidation, Operation: operation, Message: message}
}

func NewInternalError(operation, message string, cause error) *ChatError {
	return &ChatError{Type: ErrorTypeInternal, Operation: operation, Message: message, Cause: cause}
}
