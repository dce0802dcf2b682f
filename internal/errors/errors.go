package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrNetwork           = errors.New("network error")
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("not authenticated")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrServer            = errors.New("server error")
	ErrValidation        = errors.New("validation failed")
	ErrNoSongLoaded      = errors.New("no song selected")
	ErrEmptyPlaylist     = errors.New("playlist is empty")
	ErrConfigNotFound    = errors.New("config file not found")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// JukebarError wraps an error with a user-friendly suggestion.
type JukebarError struct {
	Err        error
	Suggestion string
}

func (e *JukebarError) Error() string {
	return e.Err.Error()
}

func (e *JukebarError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &JukebarError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// Validation returns an ErrValidation carrying the given reason.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var jbErr *JukebarError
	if errors.As(err, &jbErr) && jbErr.Suggestion != "" {
		return jbErr.Suggestion
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return "Run 'jukebar auth login' to sign in"
	case errors.Is(err, ErrNotFound):
		return "The song may have been removed. Refresh the listing and try again"
	case errors.Is(err, ErrUnsupportedFormat):
		return "The server returned audio jukebar cannot decode (mp3 and wav are supported)"
	case errors.Is(err, ErrNetwork):
		return "Check that the server is reachable, then retry"
	case errors.Is(err, ErrServer):
		return "The server is having issues. Retry in a moment"
	case errors.Is(err, ErrNoSongLoaded):
		return "Pick a song first with 'jukebar play <id>' or from the listing"
	case errors.Is(err, ErrEmptyPlaylist):
		return "Open a listing with 'jukebar list' to build a playlist"
	case errors.Is(err, ErrConfigNotFound), errors.Is(err, ErrInvalidConfig):
		return "Run 'jukebar config init' to create a configuration"
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "timeout") {
		return "Check that the server is reachable, then retry"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// Notice returns the short, single-line form of err used for toasts.
func Notice(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrNoSongLoaded):
		return "No song selected"
	case errors.Is(err, ErrUnauthorized):
		return "Please log in to continue"
	}
	return "Error: " + err.Error()
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(p.Errors)))
	for i, err := range p.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}
