package goosed

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Kind classifies a failed backend interaction.
type Kind string

const (
	KindFetch        Kind = "fetch"
	KindRegistration Kind = "registration"
	KindParse        Kind = "parse"
)

// Sentinels matched by errors.Is against any *APIError of the same kind.
var (
	ErrFetch        = errors.New("goosed: fetch failed")
	ErrRegistration = errors.New("goosed: registration failed")
	ErrParse        = errors.New("goosed: malformed response")
)

// APIError is returned by every Client operation that fails after (or instead
// of) talking to the backend.
type APIError struct {
	Kind       Kind
	Op         string
	StatusCode int
	StatusText string
	Err        error
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.StatusText != "" {
		b.WriteString(": ")
		b.WriteString(e.StatusText)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrFetch:
		return e.Kind == KindFetch
	case ErrRegistration:
		return e.Kind == KindRegistration
	case ErrParse:
		return e.Kind == KindParse
	}
	return false
}

func fetchError(op string, code int, status string) *APIError {
	return &APIError{Kind: KindFetch, Op: op, StatusCode: code, StatusText: statusText(code, status)}
}

func registrationError(op string, code int, status string) *APIError {
	return &APIError{Kind: KindRegistration, Op: op, StatusCode: code, StatusText: statusText(code, status)}
}

func parseError(op string, err error) *APIError {
	return &APIError{Kind: KindParse, Op: op, Err: err}
}

// statusText strips the numeric code from an HTTP status line ("404 Not Found"
// becomes "Not Found"), falling back to the canonical text for the code.
func statusText(code int, status string) string {
	text := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
	if text == "" {
		text = http.StatusText(code)
	}
	if text == "" {
		text = fmt.Sprintf("status %d", code)
	}
	return text
}
