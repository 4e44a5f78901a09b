package authlane

import (
	"context"
	"time"

	"github.com/authlane/authlane/geoip"
	"github.com/authlane/authlane/internal/rate"
	"github.com/authlane/authlane/internal/stores"
	"github.com/authlane/authlane/mailer"
	"github.com/authlane/authlane/password"
	"github.com/authlane/authlane/permission"
	"github.com/authlane/authlane/token"
)

// Engine defines a public type used by authlane APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// An Engine is created through [Builder.Build] and is safe for concurrent
// use afterwards.
type Engine struct {
	config   Config
	registry *permission.Registry

	userProvider UserProvider
	captcha      CaptchaVerifier
	geo          geoip.Resolver

	loginLog     *stores.LoginLogStore
	confirmStore *stores.ConfirmationStore
	rateLimiter  *rate.Limiter

	passwordHash *password.Argon2
	tokens       *token.Manager
	totp         *totpManager

	audit   *auditDispatcher
	mail    *mailer.Dispatcher
	metrics *Metrics

	// mailConfigured records whether the embedding application wired a real
	// transport. The suspicious-login feature is inert without one.
	mailConfigured bool
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Close drains the audit and mail dispatchers. The Engine must not be used
// after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
	e.mail.Close()
}

// ParseToken describes the parsetoken operation and its observable behavior.
//
// ParseToken may return an error when input validation, dependency calls, or security checks fail.
// ParseToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ParseToken(tokenStr string) (*token.SessionClaims, error) {
	if e == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}
	return e.tokens.Parse(tokenStr)
}

// GenerateOTPSecret describes the generateotpsecret operation and its observable behavior.
//
// GenerateOTPSecret may return an error when input validation, dependency calls, or security checks fail.
// GenerateOTPSecret does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The raw secret is what the [UserProvider] should persist; the base32 form
// and provisioning URI are for the user's authenticator app.
func (e *Engine) GenerateOTPSecret(account string) (raw []byte, base32Secret string, uri string, err error) {
	if e == nil || e.totp == nil {
		return nil, "", "", ErrEngineNotReady
	}

	raw, base32Secret, err = e.totp.GenerateSecret()
	if err != nil {
		return nil, "", "", err
	}
	return raw, base32Secret, e.totp.ProvisionURI(base32Secret, account), nil
}

// LoginHistory describes the loginhistory operation and its observable behavior.
//
// LoginHistory may return an error when input validation, dependency calls, or security checks fail.
// LoginHistory does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) LoginHistory(ctx context.Context, userID string, n int64) ([]LoginAttempt, error) {
	if e == nil || e.loginLog == nil {
		return nil, ErrEngineNotReady
	}
	return e.loginLog.History(ctx, userID, n)
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}, Histograms: map[MetricID][]uint64{}}
	}
	return e.metrics.Snapshot()
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MailDropped describes the maildropped operation and its observable behavior.
//
// MailDropped may return an error when input validation, dependency calls, or security checks fail.
// MailDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MailDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.mail.Dropped()
}

func (e *Engine) metricInc(id MetricID) {
	e.metrics.Inc(id)
}

func (e *Engine) observeLoginLatency(start time.Time) {
	e.metrics.Observe(MetricLoginLatency, time.Since(start))
}

func (e *Engine) emitAudit(ctx context.Context, event AuditEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	e.audit.Emit(ctx, event)
}

func (e *Engine) sendMail(ctx context.Context, msg mailer.Message) {
	if !e.mailConfigured {
		return
	}
	e.mail.Enqueue(ctx, msg)
}

func (e *Engine) resolveCountry(ctx context.Context, ip string) string {
	if e.geo == nil || ip == "" {
		return ""
	}

	country, err := e.geo.Country(ctx, ip)
	if err != nil {
		return ""
	}
	return country
}
