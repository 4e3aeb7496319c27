package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-issue-service/internal/api/dto"
	"github.com/spec-kit/civic-issue-service/internal/auth"
	"github.com/spec-kit/civic-issue-service/internal/domain"
	"github.com/spec-kit/civic-issue-service/internal/repository"
	"github.com/spec-kit/civic-issue-service/internal/service"
	apperrors "github.com/spec-kit/civic-issue-service/pkg/util"
)

// StaffHandler manages staff authentication and officer administration.
type StaffHandler struct {
	auth     *service.AuthService
	officers *service.OfficerService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(authService *service.AuthService, officers *service.OfficerService) *StaffHandler {
	return &StaffHandler{auth: authService, officers: officers}
}

// Login POST /auth/staff/login.
func (h *StaffHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}
	_, token, exp, err := h.auth.LoginStaff(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{Token: token, ExpiresAt: exp}})
}

// ChangePassword POST /auth/password/change.
func (h *StaffHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("old and new passwords required", nil)
	}
	if err := h.auth.ChangePassword(c.UserContext(), principal, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"changed": true}})
}

// CreateOfficer POST /api/officers.
func (h *StaffHandler) CreateOfficer(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateOfficerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	officer, err := h.officers.CreateOfficer(c.UserContext(), principal, service.OfficerCreateInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		Escalation:   req.EscalationLevel,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": officerResponse(officer)})
}

// ListOfficers GET /api/officers.
func (h *StaffHandler) ListOfficers(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := repository.OfficerFilter{
		Limit:  parseInt(c.Query("page_size"), 50),
		Offset: (parseInt(c.Query("page"), 1) - 1) * parseInt(c.Query("page_size"), 50),
	}
	if departmentID := c.Query("department_id"); departmentID != "" {
		filter.DepartmentID = &departmentID
	}
	if roleStr := c.Query("role"); roleStr != "" {
		role := domain.StaffRole(roleStr)
		filter.Role = &role
	}
	officers, err := h.officers.ListOfficers(c.UserContext(), principal, filter)
	if err != nil {
		return err
	}
	items := make([]dto.OfficerResponse, 0, len(officers))
	for i := range officers {
		items = append(items, officerResponse(&officers[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateOfficer PATCH /api/officers/:id.
func (h *StaffHandler) UpdateOfficer(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateOfficerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	officer, err := h.officers.UpdateOfficer(c.UserContext(), principal, c.Params("id"), service.OfficerUpdateInput{
		Role:         req.Role,
		Escalation:   req.EscalationLevel,
		DepartmentID: req.DepartmentID,
		Active:       req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": officerResponse(officer)})
}

func officerResponse(officer *domain.Officer) dto.OfficerResponse {
	return dto.OfficerResponse{
		ID:              officer.ID,
		Name:            officer.Name,
		Email:           officer.Email,
		Role:            officer.Role,
		EscalationLevel: officer.Escalation,
		DepartmentID:    officer.DepartmentID,
		Active:          officer.Active,
		CreatedAt:       officer.CreatedAt,
	}
}
