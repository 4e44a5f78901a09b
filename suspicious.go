package authlane

import "context"

// suspiciousLoginActive reports whether the country heuristic runs at all.
// The feature toggle is necessary but not sufficient: without a mail
// transport there is no way to deliver the confirmation code, and without a
// geo resolver every lookup would come back empty, so both are operational
// preconditions.
func (e *Engine) suspiciousLoginActive() bool {
	return e.config.SuspiciousLogin.Enabled && e.mailConfigured && e.geo != nil
}

// evaluateSuspicious applies the country-equality heuristic against the
// user's full login history. A user with no history is never flagged: the
// first login is always trusted. Only the country is compared; the
// device-based variant of this check is deliberately not implemented.
func (e *Engine) evaluateSuspicious(ctx context.Context, user *UserRecord, country string) (bool, error) {
	history, err := e.loginLog.History(ctx, user.UserID, 0)
	if err != nil {
		return false, err
	}
	if len(history) == 0 {
		return false, nil
	}

	for i := range history {
		if !history[i].Status {
			continue
		}
		if history[i].Country == country {
			return false, nil
		}
	}

	return true, nil
}
