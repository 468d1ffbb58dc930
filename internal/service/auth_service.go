package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/salon-admin-service/internal/auth"
	"github.com/spec-kit/salon-admin-service/internal/config"
	"github.com/spec-kit/salon-admin-service/internal/events"
	"github.com/spec-kit/salon-admin-service/internal/repository"
	apperrors "github.com/spec-kit/salon-admin-service/pkg/util"
)

// AuthService coordinates the OTP login flow that mints access tokens.
type AuthService struct {
	staff      repository.StaffRepository
	otps       repository.OTPStore
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
	otpTTL     time.Duration
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, staff repository.StaffRepository, otps repository.OTPStore, dispatcher events.Dispatcher) *AuthService {
	return &AuthService{
		staff:      staff,
		otps:       otps,
		dispatcher: dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.TokenSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
		otpTTL:     cfg.OTPTTL(),
	}
}

// RequestOTP issues a pending passcode for the phone number. Only the
// bcrypt hash is stored; delivery rides on the otp_requested event.
func (s *AuthService) RequestOTP(ctx context.Context, phoneNumber string) (time.Time, error) {
	if phoneNumber == "" {
		return time.Time{}, apperrors.NewValidationError("phoneNumber required", nil)
	}

	code, err := auth.GenerateOTPCode()
	if err != nil {
		return time.Time{}, apperrors.MapError(err)
	}
	hash, err := auth.HashOTP(code, s.bcryptCost)
	if err != nil {
		return time.Time{}, apperrors.MapError(err)
	}

	if err := s.otps.Put(ctx, phoneNumber, hash, s.otpTTL); err != nil {
		return time.Time{}, apperrors.MapError(err)
	}

	expiry := auth.OTPExpiry(s.otpTTL)
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventOTPRequested,
			Timestamp: time.Now(),
			Payload: events.OTPRequestedPayload{
				PhoneNumber: phoneNumber,
				ExpiresAt:   expiry,
			},
		})
	}
	return expiry, nil
}

// VerifyOTP checks the passcode and mints a role-bearing token for the
// matching staff user.
func (s *AuthService) VerifyOTP(ctx context.Context, phoneNumber, code string) (string, time.Time, error) {
	if phoneNumber == "" || code == "" {
		return "", time.Time{}, apperrors.NewValidationError("phoneNumber and code required", nil)
	}

	hash, err := s.otps.Get(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, repository.ErrOTPNotFound) {
			return "", time.Time{}, apperrors.NewUnauthorized("invalid or expired code")
		}
		return "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.CompareOTP(hash, code); err != nil {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid or expired code")
	}

	staff, err := s.staff.GetByPhone(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, apperrors.NewUnauthorized("no account for phone number")
		}
		return "", time.Time{}, apperrors.MapError(err)
	}

	// Single use: a verified code is gone regardless of what happens next.
	_ = s.otps.Delete(ctx, phoneNumber)

	token, exp, err := s.tokenMgr.GenerateToken(staff.ID, staff.PhoneNumber, staff.Role)
	if err != nil {
		return "", time.Time{}, apperrors.MapError(err)
	}
	return token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
