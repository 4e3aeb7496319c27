package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-issue-service/internal/api/dto"
	"github.com/spec-kit/civic-issue-service/internal/auth"
	"github.com/spec-kit/civic-issue-service/internal/domain"
	"github.com/spec-kit/civic-issue-service/internal/service"
	apperrors "github.com/spec-kit/civic-issue-service/pkg/util"
)

// StaffIssuesHandler serves triage, assignment and escalation endpoints.
type StaffIssuesHandler struct {
	issues      *service.IssueService
	assignments *service.AssignmentService
}

// NewStaffIssuesHandler constructs handler.
func NewStaffIssuesHandler(issues *service.IssueService, assignments *service.AssignmentService) *StaffIssuesHandler {
	return &StaffIssuesHandler{issues: issues, assignments: assignments}
}

// ListIssues GET /api/issues.
func (h *StaffIssuesHandler) ListIssues(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := parseIssueQuery(c)
	issues, err := h.issues.ListIssues(c.UserContext(), principal, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueSummaries(issues)})
}

// UpdateIssue PATCH /api/issues/:id.
func (h *StaffIssuesHandler) UpdateIssue(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	issue, err := h.issues.UpdateIssue(c.UserContext(), principal, c.Params("id"), service.IssueUpdateInput{
		Status:   req.Status,
		Priority: req.Priority,
		Severity: req.Severity,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueSummary(issue)})
}

// AssignIssue POST /api/issues/:id/assign.
func (h *StaffIssuesHandler) AssignIssue(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AssignIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	issue, err := h.assignments.Assign(c.UserContext(), principal, c.Params("id"), service.AssignInput{
		DepartmentID: req.DepartmentID,
		OfficerID:    req.OfficerID,
		Escalation:   req.EscalationLevel,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueSummary(issue)})
}

// EscalateIssue POST /api/issues/:id/escalate.
func (h *StaffIssuesHandler) EscalateIssue(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	issue, err := h.assignments.Escalate(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueSummary(issue)})
}

func parseIssueQuery(c *fiber.Ctx) service.IssueListFilter {
	filter := service.IssueListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.IssueStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.IssuePriority(strings.TrimSpace(part)))
		}
	}
	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}
	if citizenID := c.Query("citizen_id"); citizenID != "" {
		filter.ReporterID = &citizenID
	}
	if departmentID := c.Query("department_id"); departmentID != "" {
		filter.DepartmentID = &departmentID
	}
	if from := parseTime(c.Query("start_date")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseTime(c.Query("end_date")); to != nil {
		filter.CreatedTo = to
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}
