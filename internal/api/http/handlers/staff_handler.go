package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/salon-admin-service/internal/api/dto"
	"github.com/spec-kit/salon-admin-service/internal/domain"
	"github.com/spec-kit/salon-admin-service/internal/service"
	apperrors "github.com/spec-kit/salon-admin-service/pkg/util"
)

// StaffHandler exposes the admin staff CRUD endpoints.
type StaffHandler struct {
	staffService *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

// Create handles POST /api/admin/staff.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	var req dto.StaffCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.WorkingHours == nil || !req.WorkingHours.Valid() {
		return apperrors.NewValidationError("invalid workingHours format", nil)
	}

	staff, err := h.staffService.CreateStaff(c.Context(), req.PhoneNumber, req.Username, req.Services, *req.WorkingHours)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "signup by admin successful",
		"staff":   staffResponse(staff),
	})
}

// List handles GET /api/admin/staff.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	list, err := h.staffService.ListStaff(c.Context())
	if err != nil {
		return err
	}

	resp := make([]dto.StaffResponse, 0, len(list))
	for i := range list {
		resp = append(resp, staffResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"staff": resp})
}

// Update handles PATCH /api/admin/staff?id=<id>.
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return apperrors.NewValidationError("user id is required", nil)
	}

	var req dto.StaffPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	staff, err := h.staffService.UpdateStaff(c.Context(), id, service.StaffPatch{
		Username:     req.Username,
		Services:     req.Services,
		IsOnHoliday:  req.IsOnHoliday,
		WorkingHours: req.WorkingHours,
		HolidayDates: req.HolidayDates,
		Role:         req.Role,
		Feedback:     req.Feedback,
		Rating:       req.Rating,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "user updated successfully",
		"staff":   staffResponse(staff),
	})
}

// Delete handles DELETE /api/admin/staff?id=<id>. The admin-role guard
// runs as route middleware before this.
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return apperrors.NewValidationError("user id is required", nil)
	}

	if err := h.staffService.DeleteStaff(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "user deleted successfully"})
}

func staffResponse(staff *domain.StaffUser) dto.StaffResponse {
	return dto.StaffResponse{
		ID:           staff.ID,
		PhoneNumber:  staff.PhoneNumber,
		Username:     staff.Username,
		Role:         staff.Role,
		IsVerified:   staff.IsVerified,
		IsOnHoliday:  staff.IsOnHoliday,
		WorkingHours: staff.WorkingHours,
		HolidayDates: staff.HolidayDates,
		Services:     staff.Services,
		Feedback:     staff.Feedback,
		Rating:       staff.Rating,
		OTPExpiry:    staff.OTPExpiry,
		CreatedAt:    staff.CreatedAt,
		UpdatedAt:    staff.UpdatedAt,
	}
}
