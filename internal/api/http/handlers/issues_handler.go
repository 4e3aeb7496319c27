package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-issue-service/internal/api/dto"
	"github.com/spec-kit/civic-issue-service/internal/auth"
	"github.com/spec-kit/civic-issue-service/internal/domain"
	"github.com/spec-kit/civic-issue-service/internal/service"
	apperrors "github.com/spec-kit/civic-issue-service/pkg/util"
)

// IssuesHandler serves the citizen-facing and public issue endpoints.
type IssuesHandler struct {
	issues *service.IssueService
}

// NewIssuesHandler constructs handler.
func NewIssuesHandler(issues *service.IssueService) *IssuesHandler {
	return &IssuesHandler{issues: issues}
}

// CreateIssue POST /api/issues.
func (h *IssuesHandler) CreateIssue(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.CreateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input := service.IssueCreateInput{
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		Location:          req.Location,
		Priority:          req.Priority,
		Severity:          req.Severity,
		ConfirmDuplicates: req.ConfirmDuplicates,
	}
	if req.Latitude != nil && req.Longitude != nil {
		input.Coordinates = &domain.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}
	} else if req.Latitude != nil || req.Longitude != nil {
		return apperrors.NewValidationError("latitude and longitude must be provided together", nil)
	}

	issue, _, err := h.issues.CreateIssue(c.UserContext(), principal, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": issueSummary(issue)})
}

// Nearby GET /api/issues/nearby.
func (h *IssuesHandler) Nearby(c *fiber.Ctx) error {
	lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
	lng, err2 := strconv.ParseFloat(c.Query("lng"), 64)
	if err1 != nil || err2 != nil {
		return apperrors.NewValidationError("lat and lng query parameters required", nil)
	}
	radius, _ := strconv.ParseFloat(c.Query("radius"), 64)

	issues, err := h.issues.Nearby(c.UserContext(), domain.Coordinates{Latitude: lat, Longitude: lng}, radius)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueSummaries(issues)})
}

// GetIssue GET /api/issues/:id.
func (h *IssuesHandler) GetIssue(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	issue, err := h.issues.GetIssue(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	timeline, err := h.issues.GetTimeline(c.UserContext(), principal, issue.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueDetail(issue, timeline)})
}

// GetTimeline GET /api/issues/:id/timeline.
func (h *IssuesHandler) GetTimeline(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	entries, err := h.issues.GetTimeline(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": timelineResponses(entries)})
}

// AddComment POST /api/issues/:id/comments.
func (h *IssuesHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	entry, err := h.issues.AddComment(c.UserContext(), principal, c.Params("id"), req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": timelineResponse(entry)})
}

// ListMyIssues GET /api/my/issues.
func (h *IssuesHandler) ListMyIssues(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.CitizenID == nil {
		return apperrors.NewUnauthorized("citizen account required")
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	issues, err := h.issues.ListCitizenIssues(c.UserContext(), *principal.CitizenID, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueSummaries(issues)})
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func issueSummary(issue *domain.Issue) dto.IssueSummary {
	summary := dto.IssueSummary{
		ID:             issue.ID,
		TrackingCode:   issue.TrackingCode,
		Title:          issue.Title,
		Category:       issue.Category,
		Location:       issue.Location,
		Status:         issue.Status,
		Priority:       issue.Priority,
		Severity:       issue.Severity,
		Escalation:     issue.Escalation,
		DepartmentID:   issue.DepartmentID,
		OfficerID:      issue.OfficerID,
		JurisdictionID: issue.JurisdictionID,
		CreatedAt:      issue.CreatedAt,
		UpdatedAt:      issue.UpdatedAt,
	}
	if issue.Coordinates != nil {
		summary.Latitude = &issue.Coordinates.Latitude
		summary.Longitude = &issue.Coordinates.Longitude
	}
	return summary
}

func issueSummaries(issues []domain.Issue) []dto.IssueSummary {
	items := make([]dto.IssueSummary, 0, len(issues))
	for i := range issues {
		items = append(items, issueSummary(&issues[i]))
	}
	return items
}

func issueDetail(issue *domain.Issue, timeline []domain.TimelineEntry) dto.IssueDetailResponse {
	return dto.IssueDetailResponse{
		IssueSummary: issueSummary(issue),
		Description:  issue.Description,
		ReporterID:   issue.ReporterID,
		ResolvedAt:   issue.ResolvedAt,
		Timeline:     timelineResponses(timeline),
	}
}

func timelineResponse(entry *domain.TimelineEntry) dto.TimelineEntryResponse {
	return dto.TimelineEntryResponse{
		ID:          entry.ID,
		EventType:   entry.EventType,
		Title:       entry.Title,
		Description: entry.Description,
		Actor:       entry.Actor,
		CreatedAt:   entry.CreatedAt,
	}
}

func timelineResponses(entries []domain.TimelineEntry) []dto.TimelineEntryResponse {
	resp := make([]dto.TimelineEntryResponse, 0, len(entries))
	for i := range entries {
		resp = append(resp, timelineResponse(&entries[i]))
	}
	return resp
}
