package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-issue-service/internal/api/dto"
	"github.com/spec-kit/civic-issue-service/internal/service"
	apperrors "github.com/spec-kit/civic-issue-service/pkg/util"
)

// CitizensHandler manages reporter account endpoints.
type CitizensHandler struct {
	auth *service.AuthService
}

// NewCitizensHandler constructs handler.
func NewCitizensHandler(authService *service.AuthService) *CitizensHandler {
	return &CitizensHandler{auth: authService}
}

// Register POST /auth/citizens/register.
func (h *CitizensHandler) Register(c *fiber.Ctx) error {
	var req dto.CitizenRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email and password required", nil)
	}
	_, token, exp, err := h.auth.RegisterCitizen(c.UserContext(), req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.AuthResponse{Token: token, ExpiresAt: exp}})
}

// Login POST /auth/citizens/login.
func (h *CitizensHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}
	_, token, exp, err := h.auth.LoginCitizen(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{Token: token, ExpiresAt: exp}})
}
