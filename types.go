package authlane

import (
	"context"

	"github.com/authlane/authlane/internal/stores"
)

// AccountStatus defines a public type used by authlane APIs.
//
// AccountStatus instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AccountStatus uint8

const (
	// AccountActive is an exported constant or variable used by the login-security engine.
	AccountActive AccountStatus = iota
	// AccountDeactivated is an exported constant or variable used by the login-security engine.
	AccountDeactivated
	// AccountFrozen is an exported constant or variable used by the login-security engine.
	AccountFrozen
)

// TTLClass defines a public type used by authlane APIs.
//
// TTLClass instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TTLClass uint8

const (
	// TTLNormal is an exported constant or variable used by the login-security engine.
	TTLNormal TTLClass = iota
	// TTLLongTerm is an exported constant or variable used by the login-security engine.
	TTLLongTerm
)

// UserRecord defines a public type used by authlane APIs.
//
// UserRecord instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// UserRecord is read-only to the engine except for the narrow mutations the
// [UserProvider] interface allows (account status, OTP replay counter).
type UserRecord struct {
	UserID             string
	NetworkID          string
	Email              string
	PasswordHash       string
	Role               string
	VerificationLevel  int
	Status             AccountStatus
	EmailVerified      bool
	OTPEnabled         bool
	OTPSecret          []byte
	OTPLastUsedCounter int64
	Locale             string
}

// UserProvider defines a public type used by authlane APIs.
//
// UserProvider instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// GetUserByEmail returns (nil, nil) when no account matches; errors are
// reserved for backend failures.
type UserProvider interface {
	GetUserByEmail(ctx context.Context, email string) (*UserRecord, error)
	UpdateAccountStatus(ctx context.Context, userID string, status AccountStatus) error
	UpdateOTPLastUsedCounter(ctx context.Context, userID string, counter int64) error
}

// CaptchaVerifier defines a public type used by authlane APIs.
//
// CaptchaVerifier instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// Verify returns nil for a passing response. Its errors terminate the login
// pipeline unmodified: the engine never wraps them with lockout messaging.
type CaptchaVerifier interface {
	Verify(ctx context.Context, response, ip string) error
}

// LoginRequest defines a public type used by authlane APIs.
//
// LoginRequest instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LoginRequest struct {
	Email    string
	Password string
	OTPCode  string
	Captcha  string
	// Service marks machine-triggered logins; they skip the "new login"
	// notification email on success.
	Service  string
	LongTerm bool
}

// LoginResult defines a public type used by authlane APIs.
//
// LoginResult instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LoginResult struct {
	Token   string
	Attempt LoginAttempt
}

// LoginAttempt defines a public type used by authlane APIs.
//
// LoginAttempt instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LoginAttempt = stores.LoginAttempt

// ConfirmationPayload defines a public type used by authlane APIs.
//
// ConfirmationPayload instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ConfirmationPayload = stores.ConfirmationPayload
