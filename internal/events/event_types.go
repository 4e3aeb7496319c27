package events

import (
	"time"

	"github.com/spec-kit/civic-issue-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIssueReported      EventType = "issue_reported"
	EventIssueStatusChanged EventType = "issue_status_changed"
	EventIssueAssigned      EventType = "issue_assigned"
	EventIssueEscalated     EventType = "issue_escalated"
	EventIssueCommented     EventType = "issue_commented"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type      domain.SubjectType `json:"type"`
	CitizenID *string            `json:"citizen_id,omitempty"`
	OfficerID *string            `json:"officer_id,omitempty"`
	Label     string             `json:"label"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	IssueID   string      `json:"issue_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// IssueReportedPayload payload.
type IssueReportedPayload struct {
	TrackingCode   string               `json:"tracking_code"`
	Category       string               `json:"category"`
	Priority       domain.IssuePriority `json:"priority"`
	Title          string               `json:"title"`
	JurisdictionID *string              `json:"jurisdiction_id,omitempty"`
	DuplicateCount int                  `json:"duplicate_count"`
}

// IssueStatusChangedPayload payload.
type IssueStatusChangedPayload struct {
	OldStatus domain.IssueStatus `json:"old_status"`
	NewStatus domain.IssueStatus `json:"new_status"`
	Comment   string             `json:"comment,omitempty"`
}

// IssueAssignedPayload payload.
type IssueAssignedPayload struct {
	DepartmentID *string                `json:"department_id,omitempty"`
	OfficerID    *string                `json:"officer_id,omitempty"`
	Escalation   domain.EscalationLevel `json:"escalation_level"`
}

// IssueEscalatedPayload payload.
type IssueEscalatedPayload struct {
	OldLevel domain.EscalationLevel `json:"old_level"`
	NewLevel domain.EscalationLevel `json:"new_level"`
}

// IssueCommentedPayload payload.
type IssueCommentedPayload struct {
	EntryID     string `json:"entry_id"`
	BodyPreview string `json:"body_preview"`
}
