package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrUnavailable wraps transport failures: the server could not be reached
// or did not answer.
var ErrUnavailable = errors.New("server unavailable")

// Error is a non-2xx answer from the server.
type Error struct {
	Status  int
	Code    string
	Message string
	Fields  map[string][]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Code)
	}

	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e.Fields[f], " "))
	}
	return fmt.Sprintf("%s (%d %s): %s", e.Message, e.Status, e.Code, strings.Join(parts, "; "))
}

// IsSessionInvalid reports whether err means the token the request carried
// is no longer any good. Credential failures do not count.
func IsSessionInvalid(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized && (apiErr.Code == "" || apiErr.Code == "invalid_token")
}

// IsValidation reports whether err carries field errors.
func IsValidation(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnprocessableEntity
}

func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
