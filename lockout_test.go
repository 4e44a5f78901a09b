package authlane

import "testing"

func TestIsLockedOut(t *testing.T) {
	cases := []struct {
		name   string
		latest *LoginAttempt
		want   bool
	}{
		{name: "no history", latest: nil, want: false},
		{name: "latest success", latest: &LoginAttempt{Status: true}, want: false},
		{name: "failure below max", latest: &LoginAttempt{Attempt: 4}, want: false},
		{name: "failure at max", latest: &LoginAttempt{Attempt: 5}, want: true},
		{name: "failure above max", latest: &LoginAttempt{Attempt: 7}, want: true},
		{name: "success at max attempt field", latest: &LoginAttempt{Attempt: 5, Status: true}, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isLockedOut(tc.latest, 5); got != tc.want {
				t.Fatalf("isLockedOut = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNextAttemptOrdinal(t *testing.T) {
	cases := []struct {
		name   string
		latest *LoginAttempt
		want   int
	}{
		{name: "no history starts at one", latest: nil, want: 1},
		{name: "success resets window", latest: &LoginAttempt{Attempt: 3, Status: true}, want: 1},
		{name: "continues window", latest: &LoginAttempt{Attempt: 2}, want: 3},
		{name: "caps at max", latest: &LoginAttempt{Attempt: 5}, want: 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := nextAttemptOrdinal(tc.latest, 5); got != tc.want {
				t.Fatalf("nextAttemptOrdinal = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestFailureMessagePolicy(t *testing.T) {
	const base = "wrong password"

	cases := []struct {
		attempt       int
		wantMessage   string
		wantRemaining int
	}{
		{attempt: 1, wantMessage: "wrong password", wantRemaining: 4},
		{attempt: 2, wantMessage: "wrong password - you have 3 attempts left", wantRemaining: 3},
		{attempt: 3, wantMessage: "wrong password - you have 2 attempts left", wantRemaining: 2},
		// The failure that leaves one attempt carries no warning either, so
		// the singular suffix never surfaces.
		{attempt: 4, wantMessage: "wrong password", wantRemaining: 1},
		{attempt: 5, wantMessage: "wrong password - login not allowed", wantRemaining: 0},
	}

	for _, tc := range cases {
		message, remaining := failureMessage(base, "en", tc.attempt, 5)
		if message != tc.wantMessage {
			t.Fatalf("attempt %d: message %q, want %q", tc.attempt, message, tc.wantMessage)
		}
		if remaining != tc.wantRemaining {
			t.Fatalf("attempt %d: remaining %d, want %d", tc.attempt, remaining, tc.wantRemaining)
		}
	}
}

func TestFailureMessageSmallWindow(t *testing.T) {
	// With a two-attempt window the first failure is also the
	// one-attempt-left failure; it still carries no suffix.
	message, remaining := failureMessage("wrong password", "en", 1, 2)
	if message != "wrong password" || remaining != 1 {
		t.Fatalf("got (%q, %d), want (wrong password, 1)", message, remaining)
	}

	message, remaining = failureMessage("wrong password", "en", 2, 2)
	if message != "wrong password - login not allowed" || remaining != 0 {
		t.Fatalf("got (%q, %d)", message, remaining)
	}
}
