package dto

import (
	"time"

	"github.com/spec-kit/civic-issue-service/internal/domain"
)

// CreateIssueRequest payload.
type CreateIssueRequest struct {
	Title             string               `json:"title"`
	Description       string               `json:"description"`
	Category          string               `json:"category"`
	Location          string               `json:"location"`
	Latitude          *float64             `json:"latitude"`
	Longitude         *float64             `json:"longitude"`
	Priority          domain.IssuePriority `json:"priority"`
	Severity          int                  `json:"severity"`
	ConfirmDuplicates bool                 `json:"confirm_duplicates"`
}

// UpdateIssueRequest carries a partial staff update.
type UpdateIssueRequest struct {
	Status   *domain.IssueStatus   `json:"status"`
	Priority *domain.IssuePriority `json:"priority"`
	Severity *int                  `json:"severity"`
}

// AssignIssueRequest payload.
type AssignIssueRequest struct {
	DepartmentID    *string                 `json:"department_id"`
	OfficerID       *string                 `json:"officer_id"`
	EscalationLevel *domain.EscalationLevel `json:"escalation_level"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// IssueSummary response.
type IssueSummary struct {
	ID             string                 `json:"id"`
	TrackingCode   string                 `json:"tracking_code"`
	Title          string                 `json:"title"`
	Category       string                 `json:"category"`
	Location       string                 `json:"location"`
	Latitude       *float64               `json:"latitude,omitempty"`
	Longitude      *float64               `json:"longitude,omitempty"`
	Status         domain.IssueStatus     `json:"status"`
	Priority       domain.IssuePriority   `json:"priority"`
	Severity       int                    `json:"severity"`
	Escalation     domain.EscalationLevel `json:"escalation_level"`
	DepartmentID   *string                `json:"department_id,omitempty"`
	OfficerID      *string                `json:"officer_id,omitempty"`
	JurisdictionID *string                `json:"jurisdiction_id,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// IssueDetailResponse provides full issue info including the audit trail.
type IssueDetailResponse struct {
	IssueSummary
	Description string                  `json:"description"`
	ReporterID  *string                 `json:"reporter_id,omitempty"`
	ResolvedAt  *time.Time              `json:"resolved_at,omitempty"`
	Timeline    []TimelineEntryResponse `json:"timeline"`
}

// TimelineEntryResponse represents one audit record.
type TimelineEntryResponse struct {
	ID          string                   `json:"id"`
	EventType   domain.TimelineEventType `json:"event_type"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Actor       string                   `json:"actor"`
	CreatedAt   time.Time                `json:"created_at"`
}

// DepartmentResponse metadata.
type DepartmentResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
	SLAHours   int      `json:"sla_hours"`
}
