package internaldefs

import (
	authlane "github.com/authlane/authlane"
)

// CounterDef defines a public type used by authlane APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   authlane.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by authlane APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   authlane.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the login-security engine.
var CounterDefs = []CounterDef{
	{ID: authlane.MetricLoginSuccess, Name: "authlane_login_success_total", Help: "Successful login attempts."},
	{ID: authlane.MetricLoginFailure, Name: "authlane_login_failure_total", Help: "Failed login attempts."},
	{ID: authlane.MetricLoginRateLimited, Name: "authlane_login_rate_limited_total", Help: "Rate-limited login attempts."},
	{ID: authlane.MetricLoginLocked, Name: "authlane_login_locked_total", Help: "Logins rejected by the lockout policy."},
	{ID: authlane.MetricLoginSuspicious, Name: "authlane_login_suspicious_total", Help: "Logins flagged by the suspicious-login heuristic."},
	{ID: authlane.MetricOTPFailure, Name: "authlane_otp_failure_total", Help: "Failed OTP verifications."},
	{ID: authlane.MetricCaptchaFailure, Name: "authlane_captcha_failure_total", Help: "Failed CAPTCHA verifications."},
	{ID: authlane.MetricNoIPFound, Name: "authlane_no_ip_found_total", Help: "Logins rejected for missing client IP."},
	{ID: authlane.MetricCodeIssued, Name: "authlane_code_issued_total", Help: "Issued confirmation code pairs."},
	{ID: authlane.MetricCodeConfirmed, Name: "authlane_code_confirmed_total", Help: "Redeemed confirm-login codes."},
	{ID: authlane.MetricAccountFrozen, Name: "authlane_account_frozen_total", Help: "Accounts frozen via freeze codes."},
	{ID: authlane.MetricLockedEmailSent, Name: "authlane_locked_email_sent_total", Help: "Account-locked notification emails dispatched."},
}

// HistogramDefs is an exported constant or variable used by the login-security engine.
var HistogramDefs = []HistogramDef{
	{ID: authlane.MetricLoginLatency, Name: "authlane_login_latency_seconds", Help: "Login latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the login-security engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the login-security engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
