package stores

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

func appendAttempt(t *testing.T, s *LoginLogStore, userID string, n int, status bool) *LoginAttempt {
	t.Helper()

	record := &LoginAttempt{
		ID:        fmt.Sprintf("r%d", n),
		UserID:    userID,
		Timestamp: time.Now(),
		IP:        "203.0.113.10",
		Device:    "test-device",
		Attempt:   n,
		Status:    status,
	}
	if err := s.Append(context.Background(), record); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	return record
}

func TestLoginLogNewestFirst(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	s := NewLoginLogStore(rdb, "alg", 0)

	appendAttempt(t, s, "u1", 1, false)
	appendAttempt(t, s, "u1", 2, false)
	last := appendAttempt(t, s, "u1", 3, false)

	latest, err := s.Latest(ctx, "u1")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest == nil || latest.ID != last.ID {
		t.Fatalf("Latest = %+v, want %s", latest, last.ID)
	}

	history, err := s.History(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 records, got %d", len(history))
	}
	for i, want := range []string{"r3", "r2", "r1"} {
		if history[i].ID != want {
			t.Fatalf("history[%d].ID = %s, want %s", i, history[i].ID, want)
		}
	}

	limited, err := s.History(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("History(2) failed: %v", err)
	}
	if len(limited) != 2 || limited[0].ID != "r3" || limited[1].ID != "r2" {
		t.Fatalf("unexpected limited history: %+v", limited)
	}
}

func TestLoginLogLatestEmptyHistory(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	s := NewLoginLogStore(rdb, "alg", 0)

	latest, err := s.Latest(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected nil for empty history, got %+v", latest)
	}

	history, err := s.History(context.Background(), "nobody", 0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d records", len(history))
	}
}

func TestLoginLogHistoryDepthTrim(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	s := NewLoginLogStore(rdb, "alg", 3)

	for i := 1; i <= 6; i++ {
		appendAttempt(t, s, "u1", i, false)
	}

	history, err := s.History(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected trimmed history of 3, got %d", len(history))
	}
	if history[0].ID != "r6" || history[2].ID != "r4" {
		t.Fatalf("trim kept the wrong records: %+v", history)
	}
}

func TestLoginLogKeyIsolation(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	s := NewLoginLogStore(rdb, "alg", 0)

	appendAttempt(t, s, "u1", 1, true)
	appendAttempt(t, s, "u2", 1, false)

	h1, err := s.History(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(h1) != 1 || !h1[0].Status {
		t.Fatalf("u1 history polluted: %+v", h1)
	}
}

func TestLoginLogRecordRoundTrip(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	s := NewLoginLogStore(rdb, "alg", 0)
	record := &LoginAttempt{
		ID:        "r1",
		UserID:    "u1",
		Timestamp: time.Now().Truncate(time.Second),
		IP:        "203.0.113.10",
		Device:    "Apple iPhone",
		Domain:    "example.com",
		Origin:    "https://app.example.com",
		Referer:   "https://app.example.com/login",
		Token:     "jwt-token",
		Attempt:   0,
		Country:   "US",
		LongTerm:  true,
		Status:    true,
	}
	if err := s.Append(context.Background(), record); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	got, err := s.Latest(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if got.Country != "US" || got.Domain != "example.com" || !got.LongTerm || got.Token != "jwt-token" {
		t.Fatalf("record fields lost in round trip: %+v", got)
	}
	if !got.Timestamp.Equal(record.Timestamp) {
		t.Fatalf("timestamp %v, want %v", got.Timestamp, record.Timestamp)
	}
}
