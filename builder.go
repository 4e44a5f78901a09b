package authlane

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/authlane/authlane/geoip"
	"github.com/authlane/authlane/internal/rate"
	"github.com/authlane/authlane/internal/stores"
	"github.com/authlane/authlane/mailer"
	"github.com/authlane/authlane/password"
	"github.com/authlane/authlane/permission"
	"github.com/authlane/authlane/token"
)

// Builder defines a public type used by authlane APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  *redis.Client

	permissions []string
	roles       map[string][]string
	roleConfigs map[string][]string

	userProvider UserProvider
	captcha      CaptchaVerifier
	geo          geoip.Resolver
	mail         mailer.Mailer
	auditSink    AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis may return an error when input validation, dependency calls, or security checks fail.
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithPermissions describes the withpermissions operation and its observable behavior.
//
// WithPermissions may return an error when input validation, dependency calls, or security checks fail.
// WithPermissions does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithPermissions(perms []string) *Builder {
	b.permissions = perms
	return b
}

// WithRoles describes the withroles operation and its observable behavior.
//
// WithRoles may return an error when input validation, dependency calls, or security checks fail.
// WithRoles does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRoles(r map[string][]string) *Builder {
	b.roles = r
	return b
}

// WithRoleConfigs describes the withroleconfigs operation and its observable behavior.
//
// WithRoleConfigs may return an error when input validation, dependency calls, or security checks fail.
// WithRoleConfigs does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Role-scoped config names are embedded in session tokens next to the
// permission list.
func (b *Builder) WithRoleConfigs(rc map[string][]string) *Builder {
	b.roleConfigs = rc
	return b
}

// WithUserProvider describes the withuserprovider operation and its observable behavior.
//
// WithUserProvider may return an error when input validation, dependency calls, or security checks fail.
// WithUserProvider does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithUserProvider(up UserProvider) *Builder {
	b.userProvider = up
	return b
}

// WithCaptchaVerifier describes the withcaptchaverifier operation and its observable behavior.
//
// WithCaptchaVerifier may return an error when input validation, dependency calls, or security checks fail.
// WithCaptchaVerifier does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithCaptchaVerifier(cv CaptchaVerifier) *Builder {
	b.captcha = cv
	return b
}

// WithGeoResolver describes the withgeoresolver operation and its observable behavior.
//
// WithGeoResolver may return an error when input validation, dependency calls, or security checks fail.
// WithGeoResolver does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithGeoResolver(r geoip.Resolver) *Builder {
	b.geo = r
	return b
}

// WithMailer describes the withmailer operation and its observable behavior.
//
// WithMailer may return an error when input validation, dependency calls, or security checks fail.
// WithMailer does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Without a mailer the engine still works, but notification emails are
// dropped and suspicious-login detection stays inert.
func (b *Builder) WithMailer(m mailer.Mailer) *Builder {
	b.mail = m
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if len(b.permissions) == 0 {
		return nil, errors.New("permissions must be provided")
	}
	if len(b.roles) == 0 {
		return nil, errors.New("roles must be provided")
	}
	if b.userProvider == nil {
		return nil, errors.New("user provider required")
	}

	// -------- ROLE REGISTRY --------
	registry, err := permission.NewRegistry(b.permissions)
	if err != nil {
		return nil, err
	}

	for roleName, permList := range b.roles {
		if err := registry.RegisterRole(roleName, permList, b.roleConfigs[roleName]); err != nil {
			return nil, err
		}
	}
	for roleName := range b.roleConfigs {
		if _, ok := registry.Lookup(roleName); !ok {
			return nil, errors.New("role configs reference unknown role " + roleName)
		}
	}

	registry.Freeze()

	engine := &Engine{
		config:   cfg,
		registry: registry,
	}

	engine.userProvider = b.userProvider
	engine.captcha = b.captcha
	engine.geo = b.geo

	engine.loginLog = stores.NewLoginLogStore(b.redis, cfg.Lockout.RedisPrefix, cfg.Lockout.HistoryDepth)
	engine.confirmStore = stores.NewConfirmationStore(b.redis, cfg.SuspiciousLogin.ConfirmTTL, cfg.SuspiciousLogin.FreezeTTL)
	engine.rateLimiter = rate.New(b.redis, rate.Config{
		EnableIPThrottle: cfg.RateLimit.EnableIPThrottle,
		MaxRequests:      cfg.RateLimit.MaxRequests,
		WindowDuration:   cfg.RateLimit.WindowDuration,
	})

	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)
	engine.totp = newTOTPManager(cfg.OTP)

	engine.mailConfigured = b.mail != nil
	engine.mail = mailer.NewDispatcher(mailer.DispatcherConfig{
		BufferSize: cfg.Email.BufferSize,
		DropIfFull: cfg.Email.DropIfFull,
	}, b.mail)

	ph, err := password.NewArgon2(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}
	engine.passwordHash = ph

	tm, err := token.NewManager(token.Config{
		NormalTTL:     cfg.Token.NormalTTL,
		LongTermTTL:   cfg.Token.LongTermTTL,
		SigningMethod: token.SigningMethod(cfg.Token.SigningMethod),
		PrivateKey:    cloneBytes(cfg.Token.PrivateKey),
		PublicKey:     cloneBytes(cfg.Token.PublicKey),
		Issuer:        cfg.Token.Issuer,
		Audience:      cfg.Token.Audience,
		Leeway:        cfg.Token.Leeway,
	})
	if err != nil {
		return nil, err
	}
	engine.tokens = tm

	b.built = true

	return engine, nil
}
