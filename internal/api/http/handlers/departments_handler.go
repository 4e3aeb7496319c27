package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-issue-service/internal/api/dto"
	"github.com/spec-kit/civic-issue-service/internal/repository"
)

// DepartmentsHandler serves the public department listing.
type DepartmentsHandler struct {
	departments repository.DepartmentRepository
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(departments repository.DepartmentRepository) *DepartmentsHandler {
	return &DepartmentsHandler{departments: departments}
}

// List GET /api/departments.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	depts, err := h.departments.ListActive(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(depts))
	for _, dept := range depts {
		items = append(items, dto.DepartmentResponse{
			ID:         dept.ID,
			Name:       dept.Name,
			Categories: dept.Categories,
			SLAHours:   dept.SLAHours,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
