package ragErrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	UnreadablePDF          Kind = "UnreadablePDF"
	InvalidFileType        Kind = "InvalidFileType"
	EmbeddingService       Kind = "EmbeddingServiceError"
	GenerationService      Kind = "GenerationServiceError"
	VectorStoreUnavailable Kind = "VectorStoreUnavailable"
	Validation             Kind = "ValidationError"
)

// Error tags a failure with the Kind the API layer maps to a status code.
// Downstream causes stay reachable through Unwrap.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf digs the Kind out of err; empty when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Message returns the outward-facing message for err. Untagged errors stay
// opaque to the caller.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal Server Error"
}

// HTTPStatus maps a failure to its response code: caller mistakes are 4xx,
// downstream service failures 5xx.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Validation, InvalidFileType:
		return http.StatusBadRequest
	case UnreadablePDF:
		return http.StatusUnprocessableEntity
	case EmbeddingService, GenerationService:
		return http.StatusBadGateway
	case VectorStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
