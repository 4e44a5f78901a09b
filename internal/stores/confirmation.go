package stores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// One generated code maps to two independent records: a short-lived
// confirm-login entry and a long-lived freeze-account entry. Redeeming one
// must not touch the other.
const (
	confirmLoginKeyPrefix  = "user:confirm-login:"
	freezeAccountKeyPrefix = "user:freeze-account:"
)

var (
	ErrConfirmationNotFound = errors.New("confirmation record not found")
	ErrConfirmationBackend  = errors.New("confirmation backend unavailable")
)

// ConfirmationPayload is the shared body of both records for one code.
type ConfirmationPayload struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	VerificationCode string    `json:"verification_code"`
	IP               string    `json:"ip"`
	Time             time.Time `json:"time"`
	Device           string    `json:"device"`
	Country          string    `json:"country"`
	UserID           string    `json:"user_id"`
}

// ConfirmationStore issues and redeems dual-TTL confirmation codes.
type ConfirmationStore struct {
	redis      redis.UniversalClient
	confirmTTL time.Duration
	freezeTTL  time.Duration
}

func NewConfirmationStore(redisClient redis.UniversalClient, confirmTTL, freezeTTL time.Duration) *ConfirmationStore {
	return &ConfirmationStore{
		redis:      redisClient,
		confirmTTL: confirmTTL,
		freezeTTL:  freezeTTL,
	}
}

// Issue writes both records for the code in one transaction so a reader can
// never observe one without the other.
func (s *ConfirmationStore) Issue(ctx context.Context, code string, payload *ConfirmationPayload) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, confirmLoginKeyPrefix+code, encoded, s.confirmTTL)
		pipe.Set(ctx, freezeAccountKeyPrefix+code, encoded, s.freezeTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfirmationBackend, err)
	}
	return nil
}

// RedeemConfirm consumes the confirm-login record. A second call for the
// same code returns ErrConfirmationNotFound.
func (s *ConfirmationStore) RedeemConfirm(ctx context.Context, code string) (*ConfirmationPayload, error) {
	return s.redeem(ctx, confirmLoginKeyPrefix+code)
}

// RedeemFreeze consumes the freeze-account record.
func (s *ConfirmationStore) RedeemFreeze(ctx context.Context, code string) (*ConfirmationPayload, error) {
	return s.redeem(ctx, freezeAccountKeyPrefix+code)
}

func (s *ConfirmationStore) redeem(ctx context.Context, key string) (*ConfirmationPayload, error) {
	// GETDEL makes redemption single-use without extra locking.
	data, err := s.redis.GetDel(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrConfirmationNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrConfirmationBackend, err)
	}

	payload := &ConfirmationPayload{}
	if err := json.Unmarshal(data, payload); err != nil {
		return nil, err
	}
	return payload, nil
}
