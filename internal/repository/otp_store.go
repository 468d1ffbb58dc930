package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const otpKeyPrefix = "otp:"

// OTPStore keeps pending one-time passcode hashes keyed by phone number.
// Expiry is delegated to the store's TTL.
type OTPStore interface {
	Put(ctx context.Context, phoneNumber, codeHash string, ttl time.Duration) error
	Get(ctx context.Context, phoneNumber string) (string, error)
	Delete(ctx context.Context, phoneNumber string) error
}

// ErrOTPNotFound is returned when no pending passcode exists for a phone.
var ErrOTPNotFound = redis.Nil

type otpStore struct {
	client *redis.Client
}

// NewOTPStore returns a Redis-backed implementation.
func NewOTPStore(client *redis.Client) OTPStore {
	return &otpStore{client: client}
}

func (s *otpStore) Put(ctx context.Context, phoneNumber, codeHash string, ttl time.Duration) error {
	return s.client.Set(ctx, otpKeyPrefix+phoneNumber, codeHash, ttl).Err()
}

func (s *otpStore) Get(ctx context.Context, phoneNumber string) (string, error) {
	return s.client.Get(ctx, otpKeyPrefix+phoneNumber).Result()
}

func (s *otpStore) Delete(ctx context.Context, phoneNumber string) error {
	return s.client.Del(ctx, otpKeyPrefix+phoneNumber).Err()
}
