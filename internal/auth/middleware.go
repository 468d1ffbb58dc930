package auth

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/salon-admin-service/internal/domain"
	apperrors "github.com/spec-kit/salon-admin-service/pkg/util"
)

const claimsKey = "auth_claims"

// Middleware validates bearer tokens and attaches claims to the request.
type Middleware struct {
	tokens *TokenManager
	logger *zap.Logger
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, logger *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, logger: logger}
}

// Handle enforces authentication for protected routes. Missing and invalid
// credentials are logged separately but both answer with the same
// sanitized unauthorized error.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	verification := m.tokens.VerifyRequest(c)

	switch verification.Status {
	case VerificationMissing:
		m.logger.Warn("no authorization token found",
			zap.String("path", c.Path()),
			zap.String("method", c.Method()))
		return apperrors.NewUnauthorized("invalid or missing token")
	case VerificationInvalid:
		m.logger.Error("token verification failed",
			zap.String("path", c.Path()),
			zap.Error(verification.Reason))
		return apperrors.NewUnauthorized("invalid or missing token")
	}

	c.Locals(claimsKey, verification.Claims)
	return c.Next()
}

// ClaimsFromContext retrieves the verified claims for the request.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}

// RequireAdmin ensures the verified claim carries the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("invalid or missing token")
		}
		if claims.Role != domain.RoleAdmin {
			return apperrors.NewForbidden("admin privileges required")
		}
		return c.Next()
	}
}
