package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	jerrors "github.com/tessro/jukebar/internal/errors"
)

// APIError represents a non-2xx server response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Unwrap maps the status onto the error taxonomy.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusNotFound:
		return jerrors.ErrNotFound
	case e.Status == http.StatusUnauthorized:
		return jerrors.ErrUnauthorized
	case e.Status == http.StatusUnsupportedMediaType:
		return jerrors.ErrUnsupportedFormat
	case e.Status >= 500:
		return jerrors.ErrServer
	}
	return jerrors.ErrNetwork
}

// errorBody covers the error shapes the server uses:
// {"error": ...}, {"status": "error", "message": ...} and {"success": false, "message": ...}.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		e.Message = eb.Message
		if e.Message == "" {
			e.Message = eb.Error
		}
	}
	if e.Message == "" && len(body) > 0 && len(body) < 200 && !strings.HasPrefix(strings.TrimSpace(string(body)), "<") {
		e.Message = strings.TrimSpace(string(body))
	}
	return e
}
