package backend

import "testing"

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{NothingSpecial, "NothingSpecial"},
		{Playing, "Playing"},
		{Paused, "Paused"},
		{Stopped, "Stopped"},
		{State(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestState_Predicates(t *testing.T) {
	tests := []struct {
		state     State
		idle      bool
		canPause  bool
		canResume bool
	}{
		{NothingSpecial, true, false, false},
		{Playing, false, true, false},
		{Paused, false, false, true},
		{Stopped, true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := tt.state.IsIdle(); got != tt.idle {
				t.Errorf("IsIdle() = %v, want %v", got, tt.idle)
			}
			if got := tt.state.CanPause(); got != tt.canPause {
				t.Errorf("CanPause() = %v, want %v", got, tt.canPause)
			}
			if got := tt.state.CanResume(); got != tt.canResume {
				t.Errorf("CanResume() = %v, want %v", got, tt.canResume)
			}
		})
	}
}
