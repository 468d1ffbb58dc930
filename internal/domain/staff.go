package domain

import "time"

// Role enumerates account roles carried by both stored users and token claims.
type Role string

const (
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

// WorkingHours is the daily availability window of a staff member.
// Start and End are clock times in "HH:MM" form; both must be present.
type WorkingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Valid reports whether both boundaries are set.
func (w WorkingHours) Valid() bool {
	return w.Start != "" && w.End != ""
}

// StaffUser models a service-providing employee account.
type StaffUser struct {
	ID           string
	PhoneNumber  string
	Username     string
	Role         Role
	IsVerified   bool
	IsOnHoliday  bool
	WorkingHours WorkingHours
	HolidayDates []time.Time
	Services     []string
	Feedback     *string
	Rating       *float64
	OTPExpiry    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
