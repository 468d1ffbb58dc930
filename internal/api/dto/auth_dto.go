package dto

import "time"

// OTPRequest payload for requesting a login passcode.
type OTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

// OTPVerifyRequest payload for redeeming a passcode.
type OTPVerifyRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Code        string `json:"code"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
