package domain

import "time"

// TimelineEventType captures what kind of change an entry records.
type TimelineEventType string

const (
	TimelineEventCreated   TimelineEventType = "created"
	TimelineEventStatus    TimelineEventType = "status"
	TimelineEventAssigned  TimelineEventType = "assigned"
	TimelineEventEscalated TimelineEventType = "escalated"
	TimelineEventComment   TimelineEventType = "comment"
)

// TimelineEntry is an immutable audit record of one change on an issue.
// Entries are appended by the engine and never mutated or deleted.
type TimelineEntry struct {
	ID          string
	IssueID     string
	EventType   TimelineEventType
	Title       string
	Description string
	Actor       string
	CreatedAt   time.Time
}
