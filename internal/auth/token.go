package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/salon-admin-service/internal/domain"
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// Claims describes the JWT payload. Role is the only field the handlers
// act on; a payload that does not decode into this structure is invalid.
type Claims struct {
	SubjectID string      `json:"sub"`
	Phone     string      `json:"phone,omitempty"`
	Role      domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// VerificationStatus discriminates the outcome of request verification.
type VerificationStatus int

const (
	// VerificationValid means a well-formed, correctly signed token was found.
	VerificationValid VerificationStatus = iota
	// VerificationMissing means no token was present on the request.
	VerificationMissing
	// VerificationInvalid means a token was present but failed validation.
	VerificationInvalid
)

// Verification is the typed outcome of verifying a request credential.
type Verification struct {
	Status VerificationStatus
	Claims *Claims
	Reason error
}

// GenerateToken builds and signs a JWT for the subject.
func (tm *TokenManager) GenerateToken(subjectID, phone string, role domain.Role) (string, time.Time, error) {
	expiresAt := time.Now().Add(tm.ttl)
	claims := &Claims{
		SubjectID: subjectID,
		Phone:     phone,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Role == "" {
		return nil, errors.New("token payload missing role")
	}
	return claims, nil
}

// VerifyRequest extracts a credential from the Authorization header,
// falling back to the "token" cookie, and verifies it. It never fails the
// request itself; callers decide how to respond to each outcome.
func (tm *TokenManager) VerifyRequest(c *fiber.Ctx) Verification {
	token := BearerFromRequest(c)
	if token == "" {
		return Verification{Status: VerificationMissing}
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		return Verification{Status: VerificationInvalid, Reason: err}
	}
	return Verification{Status: VerificationValid, Claims: claims}
}

// BearerFromRequest returns the raw token string, header before cookie.
func BearerFromRequest(c *fiber.Ctx) string {
	const prefix = "Bearer "
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return c.Cookies("token")
}
