// Package authlane provides an embeddable login-security engine: constant-time
// credential verification, Redis-backed brute-force lockout, geo-based
// suspicious-login detection with dual-TTL confirmation codes, TOTP challenge
// gating, and signed session-token issuance.
//
// The package is designed for concurrent server workloads: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// authlane is the public surface. It exposes [Engine], [Builder], [Config], and value types
// (LoginRequest, LoginAttempt, AuditEvent, MetricsSnapshot, etc.). Internal
// coordination such as attempt bookkeeping, confirmation-code storage, and
// rate limiting lives under internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Expose Redis clients, internal stores, or encoding details in its public API.
//   - Perform I/O outside of Engine methods (construction via Builder is allocation-only
//     until Build).
//   - Block a login request on email delivery: notification dispatch is
//     fire-and-forget and its failures never fail the request.
//
// # Performance contract
//
// Login is the hot path. Ordering of its steps is a correctness requirement:
// later gates (CAPTCHA) depend on earlier gates (OTP) having already recorded a
// failed attempt. Each login performs a bounded number of Redis round-trips and
// exactly one audit emit.
package authlane
