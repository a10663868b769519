package domain

import "testing"

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to ApplicationStatus
		want     bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCompleted, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusRejected, true},
		{StatusInProgress, StatusApproved, false},
		{StatusInProgress, StatusPending, false},
		{StatusApproved, StatusRejected, false},
		{StatusCompleted, StatusPending, false},
		{StatusRejected, StatusInProgress, false},
		{StatusPending, StatusPending, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	terminal := []ApplicationStatus{StatusApproved, StatusCompleted, StatusRejected}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	for _, s := range []ApplicationStatus{StatusPending, StatusInProgress} {
		if s.Terminal() {
			t.Errorf("expected %s to be non-terminal", s)
		}
	}
}

func TestApplicationShortID(t *testing.T) {
	cases := []struct {
		id   string
		want string
	}{
		{"app_1735689600123_a1b2c3d4", "1735689600123"},
		{"app_42_ff", "42"},
		{"weird", "weird"},
		{"", ""},
	}
	for _, tc := range cases {
		a := &Application{ID: tc.id}
		if got := a.ShortID(); got != tc.want {
			t.Errorf("ShortID(%q) = %q, want %q", tc.id, got, tc.want)
		}
	}
}

func TestLabelsHaveUnknownFallbacks(t *testing.T) {
	if ApplicationType("bogus").TypeLabel() == "" {
		t.Fatalf("type label must not be empty for unknown types")
	}
	if ApplicationStatus("bogus").StatusLabel() == "" {
		t.Fatalf("status label must not be empty for unknown statuses")
	}
	if ApplicationStatus("bogus").StatusIcon() == "" {
		t.Fatalf("status icon must not be empty for unknown statuses")
	}
}
