package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/salon-admin-service/internal/auth"
	"github.com/spec-kit/salon-admin-service/internal/domain"
	"github.com/spec-kit/salon-admin-service/internal/events"
	"github.com/spec-kit/salon-admin-service/internal/repository"
	apperrors "github.com/spec-kit/salon-admin-service/pkg/util"
)

// StaffService manages staff user accounts.
type StaffService struct {
	staff      repository.StaffRepository
	dispatcher events.Dispatcher
	otpTTL     time.Duration
}

// NewStaffService constructs the service.
func NewStaffService(staff repository.StaffRepository, dispatcher events.Dispatcher, otpTTL time.Duration) *StaffService {
	return &StaffService{staff: staff, dispatcher: dispatcher, otpTTL: otpTTL}
}

// StaffPatch carries a partial update. Nil fields are left untouched;
// presence, not truthiness, governs each overwrite.
type StaffPatch struct {
	Username     *string
	Services     *[]string
	IsOnHoliday  *bool
	WorkingHours *domain.WorkingHours
	HolidayDates *[]time.Time
	Role         *domain.Role
	Feedback     *string
	Rating       *float64
}

// CreateStaff registers a new verified staff account on behalf of an admin.
func (s *StaffService) CreateStaff(ctx context.Context, phoneNumber, username string, svcList []string, hours domain.WorkingHours) (*domain.StaffUser, error) {
	if !hours.Valid() {
		return nil, apperrors.NewValidationError("invalid workingHours format", nil)
	}

	// Advisory pre-check for a friendly conflict message. Correctness does
	// not depend on it: the partial unique index on verified phone numbers
	// rejects a racing duplicate at insert time.
	existing, err := s.staff.GetByPhone(ctx, phoneNumber)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if existing != nil && existing.IsVerified {
		return nil, apperrors.NewConflict("user already exists and is verified", nil)
	}

	expiry := auth.OTPExpiry(s.otpTTL)
	staff := &domain.StaffUser{
		PhoneNumber:  phoneNumber,
		Username:     username,
		Role:         domain.RoleStaff,
		IsVerified:   true,
		IsOnHoliday:  false,
		WorkingHours: hours,
		Services:     svcList,
		OTPExpiry:    &expiry,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventStaffCreated, events.StaffCreatedPayload{
		StaffID:     staff.ID,
		PhoneNumber: staff.PhoneNumber,
		Username:    staff.Username,
		Role:        staff.Role,
	})
	return staff, nil
}

// ListStaff returns every account carrying the staff role.
func (s *StaffService) ListStaff(ctx context.Context) ([]domain.StaffUser, error) {
	list, err := s.staff.ListByRole(ctx, domain.RoleStaff)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// UpdateStaff applies a partial patch to an existing account.
func (s *StaffService) UpdateStaff(ctx context.Context, id string, patch StaffPatch) (*domain.StaffUser, error) {
	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	changed := applyPatch(staff, patch)

	if err := s.staff.Update(ctx, staff); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventStaffUpdated, events.StaffUpdatedPayload{
		StaffID:       staff.ID,
		ChangedFields: changed,
	})
	return staff, nil
}

// DeleteStaff removes an account by id.
func (s *StaffService) DeleteStaff(ctx context.Context, id string) error {
	if err := s.staff.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.EventStaffDeleted, events.StaffDeletedPayload{StaffID: id})
	return nil
}

func applyPatch(staff *domain.StaffUser, patch StaffPatch) []string {
	var changed []string
	if patch.Username != nil {
		staff.Username = *patch.Username
		changed = append(changed, "username")
	}
	if patch.Services != nil {
		staff.Services = *patch.Services
		changed = append(changed, "services")
	}
	if patch.IsOnHoliday != nil {
		staff.IsOnHoliday = *patch.IsOnHoliday
		changed = append(changed, "isOnHoliday")
	}
	if patch.WorkingHours != nil {
		staff.WorkingHours = *patch.WorkingHours
		changed = append(changed, "workingHours")
	}
	if patch.HolidayDates != nil {
		staff.HolidayDates = *patch.HolidayDates
		changed = append(changed, "holidayDates")
	}
	if patch.Role != nil {
		staff.Role = *patch.Role
		changed = append(changed, "role")
	}
	if patch.Feedback != nil {
		staff.Feedback = patch.Feedback
		changed = append(changed, "feedback")
	}
	if patch.Rating != nil {
		staff.Rating = patch.Rating
		changed = append(changed, "rating")
	}
	return changed
}

func (s *StaffService) publish(ctx context.Context, eventType events.EventType, payload events.Payload) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
