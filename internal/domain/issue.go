package domain

import "time"

// IssueStatus enumerates lifecycle states for reported issues.
type IssueStatus string

const (
	IssueStatusSubmitted  IssueStatus = "submitted"
	IssueStatusVerified   IssueStatus = "verified"
	IssueStatusInProgress IssueStatus = "in_progress"
	IssueStatusResolved   IssueStatus = "resolved"
	IssueStatusClosed     IssueStatus = "closed"
)

// IsTerminal reports whether the status retires the issue.
func (s IssueStatus) IsTerminal() bool {
	return s == IssueStatusResolved || s == IssueStatusClosed
}

// IssuePriority enumerates triage urgency.
type IssuePriority string

const (
	IssuePriorityLow      IssuePriority = "low"
	IssuePriorityMedium   IssuePriority = "medium"
	IssuePriorityHigh     IssuePriority = "high"
	IssuePriorityCritical IssuePriority = "critical"
)

// Coordinates is a decimal-degree point.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Issue is the aggregate for citizen-reported problems.
type Issue struct {
	ID             string
	TrackingCode   string
	Title          string
	Description    string
	Category       string
	Location       string
	Coordinates    *Coordinates
	Status         IssueStatus
	Priority       IssuePriority
	Severity       int
	ReporterID     *string
	DepartmentID   *string
	OfficerID      *string
	Escalation     EscalationLevel
	JurisdictionID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ResolvedAt     *time.Time
}
