package authlane

// Lockout is derived state, never stored: the latest record of a user's
// login log decides everything. A success record resolves the failure window
// on its own.

func isLockedOut(latest *LoginAttempt, maxAttempts int) bool {
	return latest != nil && !latest.Status && latest.Attempt >= maxAttempts
}

// nextAttemptOrdinal numbers a new failure within the current unresolved
// window. A success (or empty history) starts the count over.
func nextAttemptOrdinal(latest *LoginAttempt, maxAttempts int) int {
	if latest == nil || latest.Status {
		return 1
	}
	next := latest.Attempt + 1
	if next > maxAttempts {
		next = maxAttempts
	}
	return next
}

// failureMessage builds the user-facing message for a failed credential or
// OTP check. attempt is the ordinal just recorded. The first failure of a
// window carries no warning, and neither does the failure that leaves
// exactly one attempt, so the singular suffix never reaches users.
func failureMessage(base, lang string, attempt, maxAttempts int) (message string, remaining int) {
	remaining = maxAttempts - attempt

	switch {
	case remaining <= 0:
		return base + attemptsSuffix(lang, 0), 0
	case attempt == 1 || remaining == 1:
		return base, remaining
	default:
		return base + attemptsSuffix(lang, remaining), remaining
	}
}
