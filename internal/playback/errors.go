package playback

import (
	"fmt"

	"github.com/llehouerou/moosack/internal/source"
)

// Op names a backend call.
type Op string

const (
	OpPrepare Op = "prepare"
	OpPlay    Op = "play"
	OpPause   Op = "pause"
	OpResume  Op = "resume"
	OpStop    Op = "stop"
)

// BackendError reports a backend call that failed. The transition it belonged
// to did not happen and emitted no event.
type BackendError struct {
	Op     Op
	Source source.Source
	Err    error
}

func (e *BackendError) Error() string {
	if e.Source.IsZero() {
		return fmt.Sprintf("backend %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("backend %s %s: %v", e.Op, e.Source, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
