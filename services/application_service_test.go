package services

import (
	"testing"

	"github.com/campusgate/admissions-api/model"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{model.ApplicationPending, model.ApplicationSubmitted, true},
		{model.ApplicationPending, model.ApplicationWithdrawn, true},
		{model.ApplicationPending, model.ApplicationShortlisted, false},
		{model.ApplicationPending, model.ApplicationAccepted, false},

		{model.ApplicationSubmitted, model.ApplicationShortlisted, true},
		{model.ApplicationSubmitted, model.ApplicationAccepted, true},
		{model.ApplicationSubmitted, model.ApplicationRejected, true},
		{model.ApplicationSubmitted, model.ApplicationWithdrawn, true},
		{model.ApplicationSubmitted, model.ApplicationPending, false},

		{model.ApplicationShortlisted, model.ApplicationAccepted, true},
		{model.ApplicationShortlisted, model.ApplicationRejected, true},
		{model.ApplicationShortlisted, model.ApplicationWithdrawn, true},
		{model.ApplicationShortlisted, model.ApplicationSubmitted, false},

		// Terminal statuses allow nothing
		{model.ApplicationAccepted, model.ApplicationWithdrawn, false},
		{model.ApplicationAccepted, model.ApplicationRejected, false},
		{model.ApplicationRejected, model.ApplicationWithdrawn, false},
		{model.ApplicationRejected, model.ApplicationAccepted, false},
		{model.ApplicationWithdrawn, model.ApplicationPending, false},
		{model.ApplicationWithdrawn, model.ApplicationSubmitted, false},

		// Unknown statuses
		{"bogus", model.ApplicationSubmitted, false},
		{model.ApplicationPending, "bogus", false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.allowed {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestIsTerminalStatus(t *testing.T) {
	terminal := []string{model.ApplicationAccepted, model.ApplicationRejected, model.ApplicationWithdrawn}
	for _, status := range terminal {
		if !IsTerminalStatus(status) {
			t.Errorf("expected %q to be terminal", status)
		}
	}

	live := []string{model.ApplicationPending, model.ApplicationSubmitted, model.ApplicationShortlisted}
	for _, status := range live {
		if IsTerminalStatus(status) {
			t.Errorf("expected %q to be non-terminal", status)
		}
	}
}

func TestStatusMessagesCoverReviewOutcomes(t *testing.T) {
	// Every review outcome a university can set must have a student-facing
	// message; ChangeStatus refuses anything outside this map.
	for _, status := range []string{model.ApplicationShortlisted, model.ApplicationAccepted, model.ApplicationRejected} {
		if _, ok := statusMessages[status]; !ok {
			t.Errorf("missing status message for %q", status)
		}
	}
	if _, ok := statusMessages[model.ApplicationWithdrawn]; ok {
		t.Error("withdrawn must not be reachable through ChangeStatus")
	}
}
