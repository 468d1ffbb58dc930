package dto

import (
	"time"

	"github.com/spec-kit/salon-admin-service/internal/domain"
)

// StaffCreateRequest payload for admin staff signup. WorkingHours is a
// pointer so a missing object is distinguishable from an empty one.
type StaffCreateRequest struct {
	PhoneNumber  string               `json:"phoneNumber"`
	Username     string               `json:"username"`
	Services     []string             `json:"services"`
	WorkingHours *domain.WorkingHours `json:"workingHours"`
}

// StaffPatchRequest carries a partial update. Every field is a pointer:
// absent fields stay nil and the stored value is left unchanged, so an
// explicit false or zero still overwrites.
type StaffPatchRequest struct {
	Username     *string              `json:"username"`
	Services     *[]string            `json:"services"`
	IsOnHoliday  *bool                `json:"isOnHoliday"`
	WorkingHours *domain.WorkingHours `json:"workingHours"`
	HolidayDates *[]time.Time         `json:"holidayDates"`
	Role         *domain.Role         `json:"role"`
	Feedback     *string              `json:"feedback"`
	Rating       *float64             `json:"rating"`
}

// StaffResponse mirrors the stored staff document.
type StaffResponse struct {
	ID           string              `json:"id"`
	PhoneNumber  string              `json:"phoneNumber"`
	Username     string              `json:"username"`
	Role         domain.Role         `json:"role"`
	IsVerified   bool                `json:"isVerified"`
	IsOnHoliday  bool                `json:"isOnHoliday"`
	WorkingHours domain.WorkingHours `json:"workingHours"`
	HolidayDates []time.Time         `json:"holidayDates,omitempty"`
	Services     []string            `json:"services"`
	Feedback     *string             `json:"feedback,omitempty"`
	Rating       *float64            `json:"rating,omitempty"`
	OTPExpiry    *time.Time          `json:"otpExpiry,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}
