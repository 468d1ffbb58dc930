package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const otpDigits = 6

// GenerateOTPCode produces a random numeric one-time passcode.
func GenerateOTPCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n), nil
}

// HashOTP hashes a passcode before it is stored.
func HashOTP(code string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CompareOTP verifies a passcode against its stored hash.
func CompareOTP(hashed, code string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(code))
}

// OTPExpiry returns the moment a passcode issued now becomes invalid.
func OTPExpiry(ttl time.Duration) time.Time {
	return time.Now().Add(ttl)
}
