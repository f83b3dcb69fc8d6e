package playback

import (
	"errors"
	"testing"

	"github.com/llehouerou/moosack/internal/source"
)

func TestEventType_String(t *testing.T) {
	tests := []struct {
		typ  EventType
		want string
	}{
		{EventPlay, "Play"},
		{EventPause, "Pause"},
		{EventResume, "Resume"},
		{EventStop, "Stop"},
		{EventType(42), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestEventType_IsPlaying(t *testing.T) {
	tests := []struct {
		typ  EventType
		want bool
	}{
		{EventPlay, true},
		{EventResume, true},
		{EventPause, false},
		{EventStop, false},
	}
	for _, tt := range tests {
		if got := tt.typ.IsPlaying(); got != tt.want {
			t.Errorf("%v.IsPlaying() = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestEvent_String(t *testing.T) {
	ev := Event{Type: EventPause, Source: source.URL("http://x/y.ogg")}
	if got, want := ev.String(), "Pause(Url(http://x/y.ogg))"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestEvent_Comparable(t *testing.T) {
	a := Event{Type: EventPlay, Source: source.File("a.mp3")}
	b := Event{Type: EventPlay, Source: source.File("a.mp3")}
	if a != b {
		t.Error("events with the same type and source should be equal")
	}
	if a == (Event{Type: EventStop, Source: source.File("a.mp3")}) {
		t.Error("events with different types should differ")
	}
}

func TestBackendError(t *testing.T) {
	cause := errors.New("device busy")
	err := &BackendError{Op: OpPlay, Source: source.File("a.mp3"), Err: cause}

	if !errors.Is(err, cause) {
		t.Error("BackendError should unwrap to its cause")
	}
	if got := err.Error(); got == "" {
		t.Error("Error() should not be empty")
	}
}
