package stores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrLoginRecordBackend = errors.New("login record backend unavailable")
)

// LoginAttempt is one row of the per-user login log. Records are append-only:
// once written they are never mutated, only read for lockout and
// suspicious-login evaluation.
type LoginAttempt struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"time"`
	IP        string    `json:"ip"`
	Device    string    `json:"device"`
	Domain    string    `json:"domain,omitempty"`
	Origin    string    `json:"origin,omitempty"`
	Referer   string    `json:"referer,omitempty"`
	// Token is the issued session token on success, empty on failure.
	Token    string `json:"token,omitempty"`
	Attempt  int    `json:"attempt"`
	Country  string `json:"country,omitempty"`
	LongTerm bool   `json:"long_term"`
	Status   bool   `json:"status"`
}

// LoginLogStore keeps each user's login history as a Redis list, newest
// record first.
type LoginLogStore struct {
	redis      redis.UniversalClient
	prefix     string
	maxHistory int64
}

// NewLoginLogStore creates the store. maxHistory caps the retained list
// length per user; zero keeps the full history (retention then belongs to
// the backing deployment).
func NewLoginLogStore(redisClient redis.UniversalClient, prefix string, maxHistory int64) *LoginLogStore {
	if prefix == "" {
		prefix = "alg"
	}
	return &LoginLogStore{
		redis:      redisClient,
		prefix:     prefix,
		maxHistory: maxHistory,
	}
}

func (s *LoginLogStore) key(userID string) string {
	return s.prefix + ":" + userID
}

// Append writes a new record at the head of the user's log.
func (s *LoginLogStore) Append(ctx context.Context, record *LoginAttempt) error {
	encoded, err := json.Marshal(record)
	if err != nil {
		return err
	}

	key := s.key(record.UserID)
	if err := s.redis.LPush(ctx, key, encoded).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrLoginRecordBackend, err)
	}

	if s.maxHistory > 0 {
		if err := s.redis.LTrim(ctx, key, 0, s.maxHistory-1).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrLoginRecordBackend, err)
		}
	}

	return nil
}

// Latest returns the most recent record, or nil when the user has no history.
func (s *LoginLogStore) Latest(ctx context.Context, userID string) (*LoginAttempt, error) {
	data, err := s.redis.LIndex(ctx, s.key(userID), 0).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrLoginRecordBackend, err)
	}

	record := &LoginAttempt{}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, err
	}
	return record, nil
}

// History returns up to n records, newest first. n <= 0 returns the full log.
func (s *LoginLogStore) History(ctx context.Context, userID string, n int64) ([]LoginAttempt, error) {
	stop := n - 1
	if n <= 0 {
		stop = -1
	}

	rows, err := s.redis.LRange(ctx, s.key(userID), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoginRecordBackend, err)
	}

	records := make([]LoginAttempt, 0, len(rows))
	for _, row := range rows {
		var record LoginAttempt
		if err := json.Unmarshal([]byte(row), &record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
