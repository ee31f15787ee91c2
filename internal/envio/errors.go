package envio

import (
	"errors"
	"fmt"

	"kairosconsole/internal/models"
)

var errNotObject = errors.New("response body is not a JSON object")

// ResponseParseError means the backend answered with a body that is not JSON
type ResponseParseError struct {
	Message string
	Err     error
}

func (e *ResponseParseError) Error() string {
	return e.Message
}

func (e *ResponseParseError) Unwrap() error {
	return e.Err
}

// StatusError is a non-2xx answer. Message is the server's mensagem or the endpoint fallback.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return e.Message
}

// TransportError wraps a failure to reach the backend at all
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("Erro de conexão: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err was raised before any request was sent
func IsValidation(err error) bool {
	var verr *models.ValidationError
	return errors.As(err, &verr)
}

// ErrorText is the inline message shown in a result panel for err
func ErrorText(err error) string {
	var (
		verr      *models.ValidationError
		parseErr  *ResponseParseError
		statusErr *StatusError
		transErr  *TransportError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.Message
	case errors.As(err, &parseErr):
		return parseErr.Message
	case errors.As(err, &statusErr):
		return statusErr.Message
	case errors.As(err, &transErr):
		return transErr.Error()
	default:
		return fmt.Sprintf("Erro de conexão: %v", err)
	}
}
