package authlane

import (
	"errors"
	"time"

	"github.com/authlane/authlane/token"
)

// Config defines a public type used by authlane APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	// ProductionMode tightens Validate: weak signing keys and disabled
	// audit are rejected instead of tolerated.
	ProductionMode bool

	// DefaultLang is the language used for user-facing failure messages
	// when the account has no locale of its own.
	DefaultLang string

	Lockout         LockoutConfig
	SuspiciousLogin SuspiciousLoginConfig
	OTP             OTPConfig
	Token           TokenConfig
	Password        PasswordConfig
	RateLimit       RateLimitConfig
	Email           EmailConfig
	Audit           AuditConfig
	Metrics         MetricsConfig
}

// LockoutConfig defines a public type used by authlane APIs.
//
// LockoutConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LockoutConfig struct {
	// MaxAttempts is the number of consecutive failed attempts after which
	// the account is locked until a successful login is recorded.
	MaxAttempts int
	// HistoryDepth caps the retained login log per user; zero keeps all.
	HistoryDepth int64
	RedisPrefix  string
}

// SuspiciousLoginConfig defines a public type used by authlane APIs.
//
// SuspiciousLoginConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SuspiciousLoginConfig struct {
	// Enabled is the global feature toggle. Detection additionally
	// requires a configured mailer; without a transport there is no way
	// to deliver the confirmation code, so the check is skipped.
	Enabled    bool
	ConfirmTTL time.Duration
	FreezeTTL  time.Duration
}

// OTPConfig defines a public type used by authlane APIs.
//
// OTPConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type OTPConfig struct {
	Issuer    string
	Digits    int
	Period    int
	Skew      int
	Algorithm string
}

// TokenConfig defines a public type used by authlane APIs.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	NormalTTL     time.Duration
	LongTermTTL   time.Duration
	SigningMethod string
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Audience      string
	Leeway        time.Duration
}

// PasswordConfig defines a public type used by authlane APIs.
//
// PasswordConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PasswordConfig struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// RateLimitConfig defines a public type used by authlane APIs.
//
// RateLimitConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RateLimitConfig struct {
	Enabled          bool
	EnableIPThrottle bool
	MaxRequests      int
	WindowDuration   time.Duration
}

// EmailConfig defines a public type used by authlane APIs.
//
// EmailConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type EmailConfig struct {
	// RequireVerified rejects logins from accounts whose email address has
	// not been verified.
	RequireVerified bool
	// AllowedDomains, when non-empty, restricts login to email addresses
	// under the listed domains.
	AllowedDomains []string
	BufferSize     int
	DropIfFull     bool
}

// AuditConfig defines a public type used by authlane APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by authlane APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig may return an error when input validation, dependency calls, or security checks fail.
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		DefaultLang: "en",
		Lockout: LockoutConfig{
			MaxAttempts:  5,
			HistoryDepth: 0,
			RedisPrefix:  "alg",
		},
		SuspiciousLogin: SuspiciousLoginConfig{
			Enabled:    true,
			ConfirmTTL: 5 * time.Minute,
			FreezeTTL:  6 * time.Hour,
		},
		OTP: OTPConfig{
			Issuer:    "authlane",
			Digits:    6,
			Period:    30,
			Skew:      1,
			Algorithm: "SHA1",
		},
		Token: TokenConfig{
			NormalTTL:     24 * time.Hour,
			LongTermTTL:   30 * 24 * time.Hour,
			SigningMethod: string(token.MethodHS256),
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        2,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		RateLimit: RateLimitConfig{
			Enabled:          true,
			EnableIPThrottle: true,
			MaxRequests:      30,
			WindowDuration:   time.Minute,
		},
		Email: EmailConfig{
			RequireVerified: false,
			BufferSize:      64,
			DropIfFull:      true,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	if c.Lockout.MaxAttempts < 1 {
		return errors.New("Lockout.MaxAttempts must be >= 1")
	}
	if c.Lockout.HistoryDepth < 0 {
		return errors.New("Lockout.HistoryDepth must be >= 0")
	}
	if c.Lockout.HistoryDepth > 0 && c.Lockout.HistoryDepth < int64(c.Lockout.MaxAttempts) {
		return errors.New("Lockout.HistoryDepth must cover at least MaxAttempts records")
	}

	if c.SuspiciousLogin.ConfirmTTL <= 0 {
		return errors.New("SuspiciousLogin.ConfirmTTL must be > 0")
	}
	if c.SuspiciousLogin.FreezeTTL <= 0 {
		return errors.New("SuspiciousLogin.FreezeTTL must be > 0")
	}
	if c.SuspiciousLogin.FreezeTTL < c.SuspiciousLogin.ConfirmTTL {
		return errors.New("SuspiciousLogin.FreezeTTL must be >= ConfirmTTL")
	}

	if c.OTP.Digits < 6 || c.OTP.Digits > 8 {
		return errors.New("OTP.Digits must be between 6 and 8")
	}
	if c.OTP.Period <= 0 {
		return errors.New("OTP.Period must be > 0")
	}
	if c.OTP.Skew < 0 || c.OTP.Skew > 2 {
		return errors.New("OTP.Skew must be between 0 and 2")
	}

	if c.Token.NormalTTL <= 0 || c.Token.LongTermTTL <= 0 {
		return errors.New("Token TTLs must be > 0")
	}
	if c.Token.LongTermTTL < c.Token.NormalTTL {
		return errors.New("Token.LongTermTTL must be >= NormalTTL")
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.MaxRequests < 1 {
			return errors.New("RateLimit.MaxRequests must be >= 1")
		}
		if c.RateLimit.WindowDuration <= 0 {
			return errors.New("RateLimit.WindowDuration must be > 0")
		}
	}

	if c.ProductionMode {
		if c.Token.SigningMethod == string(token.MethodHS256) && len(c.Token.PrivateKey) < 32 {
			return errors.New("ProductionMode requires an hs256 key of at least 32 bytes")
		}
		if !c.Audit.Enabled {
			return errors.New("ProductionMode requires audit to be enabled")
		}
	}

	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg

	out.Token.PrivateKey = cloneBytes(cfg.Token.PrivateKey)
	out.Token.PublicKey = cloneBytes(cfg.Token.PublicKey)

	if cfg.Email.AllowedDomains != nil {
		out.Email.AllowedDomains = make([]string, len(cfg.Email.AllowedDomains))
		copy(out.Email.AllowedDomains, cfg.Email.AllowedDomains)
	}

	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
