package authlane

import (
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/authlane/authlane/geoip"
	"github.com/authlane/authlane/mailer"
)

var testGeoTable = map[string]string{
	"203.0.113.10": "US",
	"198.51.100.7": "FR",
}

func newSuspiciousEngine(t *testing.T, rdb *redis.Client, up UserProvider, outbox *mailer.Channel) *Engine {
	t.Helper()

	return newLoginEngine(t, rdb, newTestConfig(), up, func(b *Builder) {
		b.WithMailer(outbox).WithGeoResolver(geoip.NewStatic(testGeoTable))
	})
}

func waitForMail(t *testing.T, outbox *mailer.Channel, kind string) mailer.Message {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-outbox.Messages():
			if msg.Kind == kind {
				return msg
			}
		case <-deadline:
			t.Fatalf("no %q mail arrived", kind)
		}
	}
}

func TestSuspiciousLoginFirstLoginTrusted(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	up, _ := seedUser(t, "alice@example.com", "correct-horse-battery")
	outbox := mailer.NewChannel(16)
	engine := newSuspiciousEngine(t, rdb, up, outbox)

	// No history at all: the first login is trusted wherever it comes from.
	if _, err := engine.Login(loginCtx("198.51.100.7"), LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse-battery",
	}); err != nil {
		t.Fatalf("first login should never be flagged: %v", err)
	}
}

func TestSuspiciousLoginNewCountryFlaggedAndResolved(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	up, _ := seedUser(t, "alice@example.com", "correct-horse-battery")
	outbox := mailer.NewChannel(16)
	engine := newSuspiciousEngine(t, rdb, up, outbox)

	if _, err := engine.Login(loginCtx("203.0.113.10"), LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse-battery",
	}); err != nil {
		t.Fatalf("seed US login failed: %v", err)
	}

	_, err := engine.Login(loginCtx("198.51.100.7"), LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse-battery",
	})
	if !errors.Is(err, ErrSuspiciousLogin) {
		t.Fatalf("expected ErrSuspiciousLogin from new country, got %v", err)
	}

	// The blocked attempt leaves no login record of its own.
	history, err := engine.LoginHistory(loginCtx(""), "u1", 0)
	if err != nil {
		t.Fatalf("LoginHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected only the seed record, got %d", len(history))
	}

	msg := waitForMail(t, outbox, "suspicious-login")
	code := msg.Metadata["code"]
	if len(code) != 12 {
		t.Fatalf("expected 12-character code, got %q", code)
	}

	// The code carries two independent records with their own windows.
	confirmTTL := mr.TTL("user:confirm-login:" + code)
	freezeTTL := mr.TTL("user:freeze-account:" + code)
	if confirmTTL <= 0 || confirmTTL > 5*time.Minute {
		t.Fatalf("confirm TTL out of range: %v", confirmTTL)
	}
	if freezeTTL <= 5*time.Minute || freezeTTL > 6*time.Hour {
		t.Fatalf("freeze TTL out of range: %v", freezeTTL)
	}

	ctx := loginCtx("")
	payload, err := engine.ConfirmLogin(ctx, code)
	if err != nil {
		t.Fatalf("ConfirmLogin failed: %v", err)
	}
	if payload.UserID != "u1" || payload.Country != "FR" || payload.VerificationCode != code {
		t.Fatalf("unexpected payload: %+v", payload)
	}

	// Single use.
	if _, err := engine.ConfirmLogin(ctx, code); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("expected ErrCodeNotFound on second redemption, got %v", err)
	}

	// Redeeming the confirm record must not consume the freeze record.
	frozen, err := engine.FreezeAccount(ctx, code)
	if err != nil {
		t.Fatalf("FreezeAccount after ConfirmLogin failed: %v", err)
	}
	if frozen.UserID != "u1" {
		t.Fatalf("unexpected freeze payload: %+v", frozen)
	}
	if up.user("alice@example.com").Status != AccountFrozen {
		t.Fatal("expected account frozen")
	}

	if _, err := engine.FreezeAccount(ctx, code); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("expected ErrCodeNotFound on second freeze, got %v", err)
	}

	// Frozen accounts cannot log in.
	_, err = engine.Login(loginCtx("203.0.113.10"), LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse-battery",
	})
	if !errors.Is(err, ErrUserNotActivated) {
		t.Fatalf("expected ErrUserNotActivated for frozen account, got %v", err)
	}
}

func TestSuspiciousLoginKnownCountryAccepted(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	up, _ := seedUser(t, "alice@example.com", "correct-horse-battery")
	outbox := mailer.NewChannel(16)
	engine := newSuspiciousEngine(t, rdb, up, outbox)

	if _, err := engine.Login(loginCtx("198.51.100.7"), LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse-battery",
	}); err != nil {
		t.Fatalf("seed FR login failed: %v", err)
	}

	// A successful FR record exists, so FR is a known location.
	if _, err := engine.Login(loginCtx("198.51.100.7"), LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse-battery",
	}); err != nil {
		t.Fatalf("repeat FR login should be accepted: %v", err)
	}
}

func TestSuspiciousLoginFailedHistoryDoesNotVouch(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	up, _ := seedUser(t, "alice@example.com", "correct-horse-battery")
	outbox := mailer.NewChannel(16)
	engine := newSuspiciousEngine(t, rdb, up, outbox)

	if _, err := engine.Login(loginCtx("203.0.113.10"), LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse-battery",
	}); err != nil {
		t.Fatalf("seed US login failed: %v", err)
	}

	// A failed attempt from FR does not make FR trusted.
	if _, err := engine.Login(loginCtx("198.51.100.7"), LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-pass",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	_, err := engine.Login(loginCtx("198.51.100.7"), LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse-battery",
	})
	if !errors.Is(err, ErrSuspiciousLogin) {
		t.Fatalf("expected ErrSuspiciousLogin, got %v", err)
	}
}

func TestSuspiciousLoginInertWithoutMailTransport(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	up, _ := seedUser(t, "alice@example.com", "correct-horse-battery")

	// Toggle on, geo resolver present, but no mailer: the heuristic cannot
	// deliver its code, so it must not run.
	engine := newLoginEngine(t, rdb, newTestConfig(), up, func(b *Builder) {
		b.WithGeoResolver(geoip.NewStatic(testGeoTable))
	})

	if _, err := engine.Login(loginCtx("203.0.113.10"), LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse-battery",
	}); err != nil {
		t.Fatalf("seed US login failed: %v", err)
	}

	if _, err := engine.Login(loginCtx("198.51.100.7"), LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse-battery",
	}); err != nil {
		t.Fatalf("expected login accepted without mail transport, got %v", err)
	}
}

func TestSuspiciousLoginInertWhenDisabled(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	cfg := newTestConfig()
	cfg.SuspiciousLogin.Enabled = false

	up, _ := seedUser(t, "alice@example.com", "correct-horse-battery")
	outbox := mailer.NewChannel(16)
	engine := newLoginEngine(t, rdb, cfg, up, func(b *Builder) {
		b.WithMailer(outbox).WithGeoResolver(geoip.NewStatic(testGeoTable))
	})

	if _, err := engine.Login(loginCtx("203.0.113.10"), LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse-battery",
	}); err != nil {
		t.Fatalf("seed US login failed: %v", err)
	}

	if _, err := engine.Login(loginCtx("198.51.100.7"), LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse-battery",
	}); err != nil {
		t.Fatalf("expected login accepted with feature disabled, got %v", err)
	}
}

func TestConfirmLoginInputValidation(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	up, _ := seedUser(t, "alice@example.com", "correct-horse-battery")
	engine := newLoginEngine(t, rdb, newTestConfig(), up)

	ctx := loginCtx("")
	if _, err := engine.ConfirmLogin(ctx, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty code, got %v", err)
	}
	if _, err := engine.ConfirmLogin(ctx, "nosuchcode99"); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("expected ErrCodeNotFound, got %v", err)
	}
	if _, err := engine.FreezeAccount(ctx, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty code, got %v", err)
	}
	if _, err := engine.FreezeAccount(ctx, "nosuchcode99"); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("expected ErrCodeNotFound, got %v", err)
	}
}

func TestConfirmCodeExpiryWindows(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	up, _ := seedUser(t, "alice@example.com", "correct-horse-battery")
	outbox := mailer.NewChannel(16)
	engine := newSuspiciousEngine(t, rdb, up, outbox)

	if _, err := engine.Login(loginCtx("203.0.113.10"), LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse-battery",
	}); err != nil {
		t.Fatalf("seed US login failed: %v", err)
	}
	if _, err := engine.Login(loginCtx("198.51.100.7"), LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse-battery",
	}); !errors.Is(err, ErrSuspiciousLogin) {
		t.Fatalf("expected ErrSuspiciousLogin, got %v", err)
	}

	code := waitForMail(t, outbox, "suspicious-login").Metadata["code"]

	// Past the confirm window the short-lived record is gone, but the freeze
	// record still has hours left.
	mr.FastForward(10 * time.Minute)

	ctx := loginCtx("")
	if _, err := engine.ConfirmLogin(ctx, code); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("expected expired confirm code, got %v", err)
	}
	if _, err := engine.FreezeAccount(ctx, code); err != nil {
		t.Fatalf("freeze should outlive the confirm window: %v", err)
	}
}
