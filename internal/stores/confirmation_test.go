package stores

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testPayload() *ConfirmationPayload {
	return &ConfirmationPayload{
		ID:               "p1",
		Email:            "alice@example.com",
		VerificationCode: "a1B2c3D4e5F6",
		IP:               "198.51.100.7",
		Time:             time.Now().Truncate(time.Second),
		Device:           "Apple iPhone",
		Country:          "FR",
		UserID:           "u1",
	}
}

func TestConfirmationIssueWritesBothRecords(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	s := NewConfirmationStore(rdb, 5*time.Minute, 6*time.Hour)
	payload := testPayload()

	if err := s.Issue(context.Background(), payload.VerificationCode, payload); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	confirmKey := "user:confirm-login:" + payload.VerificationCode
	freezeKey := "user:freeze-account:" + payload.VerificationCode

	if !mr.Exists(confirmKey) || !mr.Exists(freezeKey) {
		t.Fatal("expected both records written")
	}

	if ttl := mr.TTL(confirmKey); ttl != 5*time.Minute {
		t.Fatalf("confirm TTL = %v, want 5m", ttl)
	}
	if ttl := mr.TTL(freezeKey); ttl != 6*time.Hour {
		t.Fatalf("freeze TTL = %v, want 6h", ttl)
	}
}

func TestConfirmationRedeemConfirmSingleUse(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	s := NewConfirmationStore(rdb, 5*time.Minute, 6*time.Hour)
	payload := testPayload()

	if err := s.Issue(ctx, payload.VerificationCode, payload); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	got, err := s.RedeemConfirm(ctx, payload.VerificationCode)
	if err != nil {
		t.Fatalf("RedeemConfirm failed: %v", err)
	}
	if got.UserID != "u1" || got.Country != "FR" || got.VerificationCode != payload.VerificationCode {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if !got.Time.Equal(payload.Time) {
		t.Fatalf("time %v, want %v", got.Time, payload.Time)
	}

	if _, err := s.RedeemConfirm(ctx, payload.VerificationCode); !errors.Is(err, ErrConfirmationNotFound) {
		t.Fatalf("expected ErrConfirmationNotFound on reuse, got %v", err)
	}

	// The freeze record is untouched by confirm redemption.
	if !mr.Exists("user:freeze-account:" + payload.VerificationCode) {
		t.Fatal("freeze record must survive confirm redemption")
	}
}

func TestConfirmationRedeemFreezeLeavesConfirm(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	s := NewConfirmationStore(rdb, 5*time.Minute, 6*time.Hour)
	payload := testPayload()

	if err := s.Issue(ctx, payload.VerificationCode, payload); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := s.RedeemFreeze(ctx, payload.VerificationCode); err != nil {
		t.Fatalf("RedeemFreeze failed: %v", err)
	}
	if _, err := s.RedeemFreeze(ctx, payload.VerificationCode); !errors.Is(err, ErrConfirmationNotFound) {
		t.Fatalf("expected ErrConfirmationNotFound on reuse, got %v", err)
	}

	if !mr.Exists("user:confirm-login:" + payload.VerificationCode) {
		t.Fatal("confirm record must survive freeze redemption")
	}
}

func TestConfirmationUnknownCode(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	s := NewConfirmationStore(rdb, 5*time.Minute, 6*time.Hour)

	if _, err := s.RedeemConfirm(context.Background(), "nosuchcode99"); !errors.Is(err, ErrConfirmationNotFound) {
		t.Fatalf("expected ErrConfirmationNotFound, got %v", err)
	}
	if _, err := s.RedeemFreeze(context.Background(), "nosuchcode99"); !errors.Is(err, ErrConfirmationNotFound) {
		t.Fatalf("expected ErrConfirmationNotFound, got %v", err)
	}
}

func TestConfirmationExpiry(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	s := NewConfirmationStore(rdb, 5*time.Minute, 6*time.Hour)
	payload := testPayload()

	if err := s.Issue(ctx, payload.VerificationCode, payload); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	mr.FastForward(10 * time.Minute)

	if _, err := s.RedeemConfirm(ctx, payload.VerificationCode); !errors.Is(err, ErrConfirmationNotFound) {
		t.Fatalf("expected confirm record expired, got %v", err)
	}
	if _, err := s.RedeemFreeze(ctx, payload.VerificationCode); err != nil {
		t.Fatalf("freeze record should still be live: %v", err)
	}

	if err := s.Issue(ctx, payload.VerificationCode, payload); err != nil {
		t.Fatalf("reissue failed: %v", err)
	}
	mr.FastForward(7 * time.Hour)

	if _, err := s.RedeemFreeze(ctx, payload.VerificationCode); !errors.Is(err, ErrConfirmationNotFound) {
		t.Fatalf("expected freeze record expired, got %v", err)
	}
}
