package dto

import (
	"time"

	"github.com/spec-kit/civic-issue-service/internal/domain"
)

// CitizenRegisterRequest payload for new reporter accounts.
type CitizenRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginRequest payload for citizen and staff login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateOfficerRequest payload for provisioning staff.
type CreateOfficerRequest struct {
	Name            string                 `json:"name"`
	Email           string                 `json:"email"`
	Password        string                 `json:"password"`
	Role            domain.StaffRole       `json:"role"`
	EscalationLevel domain.EscalationLevel `json:"escalation_level"`
	DepartmentID    *string                `json:"department_id"`
}

// UpdateOfficerRequest carries a partial staff update.
type UpdateOfficerRequest struct {
	Role            *domain.StaffRole       `json:"role"`
	EscalationLevel *domain.EscalationLevel `json:"escalation_level"`
	DepartmentID    *string                 `json:"department_id"`
	Active          *bool                   `json:"active"`
}

// OfficerResponse metadata.
type OfficerResponse struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Email           string                 `json:"email"`
	Role            domain.StaffRole       `json:"role"`
	EscalationLevel domain.EscalationLevel `json:"escalation_level"`
	DepartmentID    *string                `json:"department_id,omitempty"`
	Active          bool                   `json:"active"`
	CreatedAt       time.Time              `json:"created_at"`
}
