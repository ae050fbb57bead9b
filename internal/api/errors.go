package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized matches 401 and 403 responses.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound matches 404 responses.
	ErrNotFound = errors.New("not found")
)

// Error is a non-2xx response from the backend
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// newError extracts the best message from an error body: a JSON message
// or error field, then the plain text, then the status text.
func newError(status int, body []byte) *Error {
	msg := ""
	var wire struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &wire) == nil {
		msg = wire.Message
		if msg == "" {
			msg = wire.Error
		}
	}
	if msg == "" {
		if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "{") && len(text) <= 512 {
			msg = text
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{StatusCode: status, Message: msg}
}

// Message returns the text to show a user for err: the server's message
// when there is one, otherwise the error itself.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
