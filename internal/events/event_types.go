package events

import (
	"time"

	"github.com/spec-kit/salon-admin-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventStaffCreated EventType = "staff_created"
	EventStaffUpdated EventType = "staff_updated"
	EventStaffDeleted EventType = "staff_deleted"
	EventOTPRequested EventType = "otp_requested"
)

// Payload is implemented by every event payload and names the event type
// it belongs to, so the dispatcher can reject a mislabeled event.
type Payload interface {
	Kind() EventType
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   Payload   `json:"payload"`
}

// StaffCreatedPayload payload.
type StaffCreatedPayload struct {
	StaffID     string      `json:"staff_id"`
	PhoneNumber string      `json:"phone_number"`
	Username    string      `json:"username"`
	Role        domain.Role `json:"role"`
}

// Kind implements Payload.
func (StaffCreatedPayload) Kind() EventType { return EventStaffCreated }

// StaffUpdatedPayload payload.
type StaffUpdatedPayload struct {
	StaffID       string   `json:"staff_id"`
	ChangedFields []string `json:"changed_fields"`
}

// Kind implements Payload.
func (StaffUpdatedPayload) Kind() EventType { return EventStaffUpdated }

// StaffDeletedPayload payload.
type StaffDeletedPayload struct {
	StaffID string `json:"staff_id"`
}

// Kind implements Payload.
func (StaffDeletedPayload) Kind() EventType { return EventStaffDeleted }

// OTPRequestedPayload payload. The code itself never rides on the event;
// only its expiry does.
type OTPRequestedPayload struct {
	PhoneNumber string    `json:"phone_number"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Kind implements Payload.
func (OTPRequestedPayload) Kind() EventType { return EventOTPRequested }
