// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import (
	"errors"
	"fmt"
	"os"

	"github.com/llehouerou/moosack/internal/backend"
	"github.com/llehouerou/moosack/internal/loader"
	"github.com/llehouerou/moosack/internal/playback"
)

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Playback operations
	OpQueue   Op = "queue"
	OpPlay    Op = "play"
	OpPause   Op = "pause"
	OpSkip    Op = "skip"
	OpStop    Op = "stop"
	OpAdvance Op = "advance to the next track"

	// Sources
	OpCollect Op = "read arguments"
	OpScan    Op = "scan library"

	// Integrations
	OpScrobble   Op = "scrobble"
	OpNowPlaying Op = "update now playing"

	// Initialization
	OpConfigLoad Op = "load config"
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %s", op, Describe(err))
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %s", op, context, Describe(err))
}

// Describe renders err for the status line. Load and backend errors name the
// source by its display name; joined errors show the first one and a count.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs := joined.Unwrap()
		switch len(errs) {
		case 0:
		case 1:
			return Describe(errs[0])
		default:
			return fmt.Sprintf("%s (and %d more)", Describe(errs[0]), len(errs)-1)
		}
	}

	var loadErr *loader.LoadError
	if errors.As(err, &loadErr) {
		return fmt.Sprintf("cannot load %s: %s", loadErr.Source.DisplayName(), reason(loadErr.Err))
	}

	var backendErr *playback.BackendError
	if errors.As(err, &backendErr) {
		if backendErr.Source.IsZero() {
			return fmt.Sprintf("audio output failed to %s: %v", backendErr.Op, backendErr.Err)
		}
		return fmt.Sprintf("audio output failed to %s %s: %v",
			backendErr.Op, backendErr.Source.DisplayName(), backendErr.Err)
	}

	return err.Error()
}

// reason shortens well-known causes.
func reason(err error) string {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return "file not found"
	case errors.Is(err, os.ErrPermission):
		return "permission denied"
	case errors.Is(err, backend.ErrUnsupportedFormat):
		return "unsupported format"
	case errors.Is(err, loader.ErrNoFetcher):
		return "remote sources are not available"
	}
	return err.Error()
}
