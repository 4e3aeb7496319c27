package domain

import "time"

// Officer models a staff member acting within the administrative hierarchy.
// An officer belongs to exactly one department.
type Officer struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         StaffRole
	Escalation   EscalationLevel
	DepartmentID *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
