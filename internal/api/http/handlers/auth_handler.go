package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/salon-admin-service/internal/api/dto"
	"github.com/spec-kit/salon-admin-service/internal/service"
	apperrors "github.com/spec-kit/salon-admin-service/pkg/util"
)

// AuthHandler exposes the OTP login endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RequestOTP handles POST /api/auth/otp/request.
func (h *AuthHandler) RequestOTP(c *fiber.Ctx) error {
	var req dto.OTPRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	expiry, err := h.authService.RequestOTP(c.Context(), req.PhoneNumber)
	if err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"message":    "otp sent",
		"expires_at": expiry,
	})
}

// VerifyOTP handles POST /api/auth/otp/verify.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.OTPVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	token, exp, err := h.authService.VerifyOTP(c.Context(), req.PhoneNumber, req.Code)
	if err != nil {
		return err
	}
	return c.JSON(dto.AuthResponse{Token: token, ExpiresAt: exp})
}
