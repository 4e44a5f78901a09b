package authlane

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/authlane/authlane/internal"
	"github.com/authlane/authlane/internal/rate"
	"github.com/authlane/authlane/token"
)

// attemptContext carries the request metadata every login record needs.
type attemptContext struct {
	user     *UserRecord
	ip       string
	device   string
	domain   string
	origin   string
	referer  string
	country  string
	longTerm bool
}

// Login runs the full pipeline for one request. The step order is a
// correctness requirement, not a convenience: the OTP gate must have
// recorded its failed attempt before the CAPTCHA check runs, and the audit
// event is emitted exactly once whichever way the request ends.
//
// Request metadata (IP, device string, origin, referer, domain) is taken
// from ctx via the With* helpers.
func (e *Engine) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if e == nil || e.userProvider == nil {
		return nil, ErrEngineNotReady
	}

	start := time.Now()
	defer e.observeLoginLatency(start)

	ip := clientIPFromContext(ctx)
	device := deviceFromContext(ctx)
	domain := domainFromContext(ctx)
	lang := e.config.DefaultLang

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Step 1: input precheck and request throttle, before any lookup.
	if !validLoginEmail(email, e.config.Email.AllowedDomains) {
		e.metricInc(MetricLoginFailure)
		e.auditLogin(ctx, "", email, ip, device, "", false, ErrInvalidInput)
		return nil, ErrInvalidInput
	}
	if e.config.RateLimit.Enabled {
		if err := e.rateLimiter.Check(ctx, email, ip); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				e.metricInc(MetricLoginRateLimited)
				e.auditLogin(ctx, "", email, ip, device, "", false, ErrRateLimited)
				return nil, ErrRateLimited
			}
			err = backendErr(err)
			e.auditLogin(ctx, "", email, ip, device, "", false, err)
			return nil, err
		}
	}

	// Step 2: user lookup and account-state checks.
	user, err := e.userProvider.GetUserByEmail(ctx, email)
	if err != nil {
		err = backendErr(err)
		e.auditLogin(ctx, "", email, ip, device, "", false, err)
		return nil, err
	}
	if user == nil {
		e.metricInc(MetricLoginFailure)
		e.auditLogin(ctx, "", email, ip, device, "", false, ErrUserNotFound)
		return nil, ErrUserNotFound
	}
	if user.Locale != "" {
		lang = user.Locale
	}
	if user.VerificationLevel == 0 {
		e.metricInc(MetricLoginFailure)
		e.auditLogin(ctx, user.UserID, email, ip, device, "", false, ErrUserNotVerified)
		return nil, ErrUserNotVerified
	}
	if e.config.Email.RequireVerified && !user.EmailVerified {
		e.metricInc(MetricLoginFailure)
		e.auditLogin(ctx, user.UserID, email, ip, device, "", false, ErrEmailNotVerified)
		return nil, ErrEmailNotVerified
	}
	if user.Status != AccountActive {
		e.metricInc(MetricLoginFailure)
		e.auditLogin(ctx, user.UserID, email, ip, device, "", false, ErrUserNotActivated)
		return nil, ErrUserNotActivated
	}

	// Step 3: lockout, derived from the latest record only.
	latest, err := e.loginLog.Latest(ctx, user.UserID)
	if err != nil {
		e.auditLogin(ctx, user.UserID, email, ip, device, "", false, err)
		return nil, err
	}
	if isLockedOut(latest, e.config.Lockout.MaxAttempts) {
		e.metricInc(MetricLoginLocked)
		e.auditLogin(ctx, user.UserID, email, ip, device, "", false, ErrLoginNotAllowed)
		return nil, ErrLoginNotAllowed
	}

	// Country is resolved once per attempt and recorded with it.
	country := e.resolveCountry(ctx, ip)

	ac := attemptContext{
		user:     user,
		ip:       ip,
		device:   device,
		domain:   domain,
		origin:   originFromContext(ctx),
		referer:  refererFromContext(ctx),
		country:  country,
		longTerm: req.LongTerm,
	}

	// Step 4: password verification.
	passwordOK := false
	if req.Password != "" {
		passwordOK, err = e.passwordHash.Verify(req.Password, user.PasswordHash)
		if err != nil {
			err = backendErr(err)
			e.auditLogin(ctx, user.UserID, email, ip, device, country, false, err)
			return nil, err
		}
	}
	if !passwordOK {
		return nil, e.recordLoginFailure(ctx, ac, latest, ErrInvalidCredentials, lang)
	}

	// Step 5: suspicious-login heuristic; may short-circuit to a
	// confirmation code instead of a token.
	if e.suspiciousLoginActive() {
		suspicious, err := e.evaluateSuspicious(ctx, user, country)
		if err != nil {
			e.auditLogin(ctx, user.UserID, email, ip, device, country, false, err)
			return nil, err
		}
		if suspicious {
			if err := e.issueConfirmationCode(ctx, ac); err != nil {
				e.auditLogin(ctx, user.UserID, email, ip, device, country, false, err)
				return nil, err
			}
			e.metricInc(MetricLoginSuspicious)
			e.auditLogin(ctx, user.UserID, email, ip, device, country, false, ErrSuspiciousLogin)
			return nil, ErrSuspiciousLogin
		}
	}

	// Step 6: OTP gate. A wrong or missing code counts against the lockout
	// window exactly like a wrong password.
	if user.OTPEnabled {
		otpOK, counter, err := e.totp.VerifyCode(user.OTPSecret, req.OTPCode, time.Now())
		if err != nil {
			err = backendErr(err)
			e.auditLogin(ctx, user.UserID, email, ip, device, country, false, err)
			return nil, err
		}
		if otpOK && user.OTPLastUsedCounter > 0 && counter <= user.OTPLastUsedCounter {
			// Replay of an already-consumed code.
			otpOK = false
		}
		if !otpOK {
			return nil, e.recordLoginFailure(ctx, ac, latest, ErrOTPInvalid, lang)
		}
		if err := e.userProvider.UpdateOTPLastUsedCounter(ctx, user.UserID, counter); err != nil {
			err = backendErr(err)
			e.auditLogin(ctx, user.UserID, email, ip, device, country, false, err)
			return nil, err
		}
	}

	// Step 7: CAPTCHA, strictly after OTP. Its errors pass through
	// unmodified; they never get the attempts-remaining suffix.
	if e.captcha != nil {
		if err := e.captcha.Verify(ctx, req.Captcha, ip); err != nil {
			e.metricInc(MetricCaptchaFailure)
			e.auditLogin(ctx, user.UserID, email, ip, device, country, false, err)
			return nil, err
		}
	}

	// Step 8: audit and lockout policy require a client IP; issuing a token
	// without one is a hard failure.
	if ip == "" {
		e.metricInc(MetricNoIPFound)
		e.auditLogin(ctx, user.UserID, email, ip, device, country, false, ErrNoIPFound)
		return nil, ErrNoIPFound
	}

	// Step 9: token issuance, success record, audit.
	role, ok := e.registry.Lookup(user.Role)
	if !ok {
		e.auditLogin(ctx, user.UserID, email, ip, device, country, false, ErrUnknownRole)
		return nil, ErrUnknownRole
	}

	tokenStr, err := e.tokens.Issue(token.Identity{
		UserID:      user.UserID,
		NetworkID:   user.NetworkID,
		Email:       user.Email,
		Role:        user.Role,
		Permissions: role.Permissions,
		Configs:     role.Configs,
		IP:          ip,
	}, req.LongTerm)
	if err != nil {
		e.auditLogin(ctx, user.UserID, email, ip, device, country, false, err)
		return nil, err
	}

	record := LoginAttempt{
		ID:        uuid.NewString(),
		UserID:    user.UserID,
		Timestamp: time.Now(),
		IP:        ip,
		Device:    device,
		Domain:    ac.domain,
		Origin:    ac.origin,
		Referer:   ac.referer,
		Token:     tokenStr,
		Country:   country,
		LongTerm:  req.LongTerm,
		Status:    true,
	}
	if err := e.loginLog.Append(ctx, &record); err != nil {
		e.auditLogin(ctx, user.UserID, email, ip, device, country, false, err)
		return nil, err
	}

	if e.config.RateLimit.Enabled {
		_ = e.rateLimiter.Reset(ctx, email, ip)
	}

	e.metricInc(MetricLoginSuccess)
	e.auditLogin(ctx, user.UserID, email, ip, device, country, true, nil)

	if req.Service == "" {
		e.sendMail(ctx, newLoginMail(user, ip, device, country, ac.domain))
	}

	return &LoginResult{Token: tokenStr, Attempt: record}, nil
}

// recordLoginFailure appends the failed attempt, applies the lockout message
// policy, dispatches the account-locked email when the window closes, and
// returns the wrapped sentinel.
func (e *Engine) recordLoginFailure(
	ctx context.Context,
	ac attemptContext,
	latest *LoginAttempt,
	sentinel error,
	lang string,
) error {
	maxAttempts := e.config.Lockout.MaxAttempts
	ordinal := nextAttemptOrdinal(latest, maxAttempts)

	record := &LoginAttempt{
		ID:        uuid.NewString(),
		UserID:    ac.user.UserID,
		Timestamp: time.Now(),
		IP:        ac.ip,
		Device:    ac.device,
		Domain:    ac.domain,
		Origin:    ac.origin,
		Referer:   ac.referer,
		Attempt:   ordinal,
		Country:   ac.country,
		LongTerm:  ac.longTerm,
		Status:    false,
	}
	if err := e.loginLog.Append(ctx, record); err != nil {
		e.auditLogin(ctx, ac.user.UserID, ac.user.Email, ac.ip, ac.device, ac.country, false, err)
		return err
	}

	message, remaining := failureMessage(baseMessage(sentinel, lang), lang, ordinal, maxAttempts)
	if remaining == 0 {
		e.metricInc(MetricLockedEmailSent)
		e.sendMail(ctx, lockedAccountMail(ac.user, ac.domain))
	}

	if errors.Is(sentinel, ErrOTPInvalid) {
		e.metricInc(MetricOTPFailure)
	} else {
		e.metricInc(MetricLoginFailure)
	}
	e.auditLogin(ctx, ac.user.UserID, ac.user.Email, ac.ip, ac.device, ac.country, false, sentinel)

	return loginDenied(sentinel, message, remaining)
}

// issueConfirmationCode creates the dual-TTL code pair for a suspicious
// login and mails it to the account owner.
func (e *Engine) issueConfirmationCode(ctx context.Context, ac attemptContext) error {
	code, err := internal.NewConfirmationCode()
	if err != nil {
		return err
	}

	payload := &ConfirmationPayload{
		ID:               uuid.NewString(),
		Email:            ac.user.Email,
		VerificationCode: code,
		IP:               ac.ip,
		Time:             time.Now(),
		Device:           ac.device,
		Country:          ac.country,
		UserID:           ac.user.UserID,
	}
	if err := e.confirmStore.Issue(ctx, code, payload); err != nil {
		return err
	}

	e.metricInc(MetricCodeIssued)
	e.sendMail(ctx, suspiciousLoginMail(ac.user, payload))
	return nil
}

func (e *Engine) auditLogin(ctx context.Context, userID, email, ip, device, country string, success bool, cause error) {
	event := AuditEvent{
		EventType: "login",
		UserID:    userID,
		Email:     email,
		IP:        ip,
		Device:    device,
		Country:   country,
		Success:   success,
	}
	if cause != nil {
		event.Error = cause.Error()
	}
	e.emitAudit(ctx, event)
}

func validLoginEmail(email string, allowedDomains []string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	if strings.ContainsAny(email, " \t\r\n") {
		return false
	}

	at := strings.LastIndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	if !strings.Contains(domain, ".") {
		return false
	}

	if len(allowedDomains) == 0 {
		return true
	}
	for _, allowed := range allowedDomains {
		if strings.EqualFold(domain, allowed) {
			return true
		}
	}
	return false
}
