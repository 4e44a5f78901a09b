package authlane

import (
	"errors"
	"fmt"
)

// Login pipeline taxonomy. Every terminal outcome of [Engine.Login] is one of
// these sentinels (possibly wrapped in a [LoginDeniedError] carrying the
// user-facing message) and can be tested with errors.Is.
var (
	// ErrInvalidInput is an exported constant or variable used by the login-security engine.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUserNotFound is an exported constant or variable used by the login-security engine.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserNotVerified is an exported constant or variable used by the login-security engine.
	ErrUserNotVerified = errors.New("user not verified")
	// ErrEmailNotVerified is an exported constant or variable used by the login-security engine.
	ErrEmailNotVerified = errors.New("email not verified")
	// ErrUserNotActivated is an exported constant or variable used by the login-security engine.
	ErrUserNotActivated = errors.New("user not activated")
	// ErrLoginNotAllowed is an exported constant or variable used by the login-security engine.
	ErrLoginNotAllowed = errors.New("login not allowed")
	// ErrInvalidCredentials is an exported constant or variable used by the login-security engine.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrOTPInvalid is an exported constant or variable used by the login-security engine.
	ErrOTPInvalid = errors.New("invalid otp")
	// ErrCaptchaInvalid is an exported constant or variable used by the login-security engine.
	ErrCaptchaInvalid = errors.New("invalid captcha")
	// ErrSuspiciousLogin is an exported constant or variable used by the login-security engine.
	ErrSuspiciousLogin = errors.New("suspicious login detected")
	// ErrNoIPFound is an exported constant or variable used by the login-security engine.
	ErrNoIPFound = errors.New("no ip found")
)

var (
	// ErrRateLimited is an exported constant or variable used by the login-security engine.
	ErrRateLimited = errors.New("rate limited")
	// ErrCodeNotFound is an exported constant or variable used by the login-security engine.
	ErrCodeNotFound = errors.New("confirmation code not found")
	// ErrBackend is an exported constant or variable used by the login-security engine.
	ErrBackend = errors.New("backend unavailable")
	// ErrEngineNotReady is an exported constant or variable used by the login-security engine.
	ErrEngineNotReady = errors.New("engine not ready")
	// ErrUnknownRole is an exported constant or variable used by the login-security engine.
	ErrUnknownRole = errors.New("unknown role")
)

// LoginDeniedError defines a public type used by authlane APIs.
//
// LoginDeniedError instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// It wraps one of the login sentinels and carries the user-facing message,
// including the attempts-remaining suffix when the lockout policy adds one.
type LoginDeniedError struct {
	Err       error
	Message   string
	Remaining int
}

// Error describes the error operation and its observable behavior.
//
// Error may return an error when input validation, dependency calls, or security checks fail.
// Error does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *LoginDeniedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "login denied"
}

// Unwrap describes the unwrap operation and its observable behavior.
//
// Unwrap may return an error when input validation, dependency calls, or security checks fail.
// Unwrap does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *LoginDeniedError) Unwrap() error {
	return e.Err
}

func loginDenied(sentinel error, message string, remaining int) error {
	return &LoginDeniedError{
		Err:       sentinel,
		Message:   message,
		Remaining: remaining,
	}
}

func backendErr(err error) error {
	return fmt.Errorf("%w: %v", ErrBackend, err)
}
