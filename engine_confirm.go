package authlane

import (
	"context"
	"errors"

	"github.com/authlane/authlane/internal/stores"
)

// ConfirmLogin describes the confirmlogin operation and its observable behavior.
//
// ConfirmLogin may return an error when input validation, dependency calls, or security checks fail.
// ConfirmLogin does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// ConfirmLogin redeems the short-lived confirm-login record for a code the
// user received by email. Redemption is single-use: a second call returns
// [ErrCodeNotFound]. The freeze-account record for the same code stays
// intact; the two protect different actions over different windows.
func (e *Engine) ConfirmLogin(ctx context.Context, code string) (*ConfirmationPayload, error) {
	if e == nil || e.confirmStore == nil {
		return nil, ErrEngineNotReady
	}
	if code == "" {
		return nil, ErrInvalidInput
	}

	payload, err := e.confirmStore.RedeemConfirm(ctx, code)
	if err != nil {
		if errors.Is(err, stores.ErrConfirmationNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}

	e.metricInc(MetricCodeConfirmed)
	e.emitAudit(ctx, AuditEvent{
		EventType: "login_confirmed",
		UserID:    payload.UserID,
		Email:     payload.Email,
		IP:        payload.IP,
		Country:   payload.Country,
		Device:    payload.Device,
		Success:   true,
	})

	return payload, nil
}

// FreezeAccount describes the freezeaccount operation and its observable behavior.
//
// FreezeAccount may return an error when input validation, dependency calls, or security checks fail.
// FreezeAccount does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// FreezeAccount redeems the long-lived freeze-account record and deactivates
// the account through the [UserProvider]. Used when the owner reports the
// suspicious login as unauthorized.
func (e *Engine) FreezeAccount(ctx context.Context, code string) (*ConfirmationPayload, error) {
	if e == nil || e.confirmStore == nil {
		return nil, ErrEngineNotReady
	}
	if code == "" {
		return nil, ErrInvalidInput
	}

	payload, err := e.confirmStore.RedeemFreeze(ctx, code)
	if err != nil {
		if errors.Is(err, stores.ErrConfirmationNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}

	if err := e.userProvider.UpdateAccountStatus(ctx, payload.UserID, AccountFrozen); err != nil {
		return nil, backendErr(err)
	}

	e.metricInc(MetricAccountFrozen)
	e.emitAudit(ctx, AuditEvent{
		EventType: "account_frozen",
		UserID:    payload.UserID,
		Email:     payload.Email,
		IP:        payload.IP,
		Country:   payload.Country,
		Device:    payload.Device,
		Success:   true,
	})
	e.sendMail(ctx, accountFrozenMail(payload.Email, payload.UserID))

	return payload, nil
}
