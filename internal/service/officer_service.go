package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/civic-issue-service/internal/auth"
	"github.com/spec-kit/civic-issue-service/internal/config"
	"github.com/spec-kit/civic-issue-service/internal/domain"
	"github.com/spec-kit/civic-issue-service/internal/hierarchy"
	"github.com/spec-kit/civic-issue-service/internal/repository"
	apperrors "github.com/spec-kit/civic-issue-service/pkg/util"
)

// OfficerService manages staff accounts within the hierarchy. Only admins
// provision officers, and nobody may grant a role above their own.
type OfficerService struct {
	officers    repository.OfficerRepository
	departments repository.DepartmentRepository
	bcryptCost  int
}

// NewOfficerService builds the service.
func NewOfficerService(cfg config.Config, officers repository.OfficerRepository, departments repository.DepartmentRepository) *OfficerService {
	return &OfficerService{
		officers:    officers,
		departments: departments,
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

// OfficerCreateInput describes a new staff account.
type OfficerCreateInput struct {
	Name         string
	Email        string
	Password     string
	Role         domain.StaffRole
	Escalation   domain.EscalationLevel
	DepartmentID *string
}

// CreateOfficer provisions a staff account.
func (s *OfficerService) CreateOfficer(ctx context.Context, principal *domain.Principal, input OfficerCreateInput) (*domain.Officer, error) {
	if !principal.IsStaff() || !hierarchy.RoleAtLeast(principal.Role, domain.RoleAdmin) {
		return nil, apperrors.NewForbidden("admin role required")
	}
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("name, email and password required", nil)
	}
	if !hierarchy.ValidRole(input.Role) {
		return nil, apperrors.NewValidationError("unrecognized role", map[string]any{"role": input.Role})
	}
	if !hierarchy.ValidLevel(input.Escalation) {
		return nil, apperrors.NewValidationError("unrecognized escalation level", map[string]any{"escalation_level": input.Escalation})
	}
	if hierarchy.CompareRoles(input.Role, principal.Role) > 0 {
		return nil, apperrors.NewForbidden("cannot grant a role above your own")
	}
	if input.DepartmentID != nil {
		dept, err := s.departments.GetByID(ctx, *input.DepartmentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("department", map[string]any{"department_id": *input.DepartmentID})
			}
			return nil, apperrors.MapError(err)
		}
		if !dept.IsActive {
			return nil, apperrors.NewConflict("department inactive", map[string]any{"department_id": dept.ID})
		}
	}
	if _, err := s.officers.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	officer := &domain.Officer{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
		Escalation:   input.Escalation,
		DepartmentID: input.DepartmentID,
		Active:       true,
	}
	if err := s.officers.Create(ctx, officer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return officer, nil
}

// ListOfficers returns staff visible to administrators.
func (s *OfficerService) ListOfficers(ctx context.Context, principal *domain.Principal, filter repository.OfficerFilter) ([]domain.Officer, error) {
	if !principal.IsStaff() || !hierarchy.RoleAtLeast(principal.Role, domain.RoleManager) {
		return nil, apperrors.NewForbidden("manager role required")
	}
	officers, err := s.officers.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return officers, nil
}

// OfficerUpdateInput describes a partial staff update.
type OfficerUpdateInput struct {
	Role         *domain.StaffRole
	Escalation   *domain.EscalationLevel
	DepartmentID *string
	Active       *bool
}

// UpdateOfficer adjusts role, level, department or active flag.
func (s *OfficerService) UpdateOfficer(ctx context.Context, principal *domain.Principal, officerID string, input OfficerUpdateInput) (*domain.Officer, error) {
	if !principal.IsStaff() || !hierarchy.RoleAtLeast(principal.Role, domain.RoleAdmin) {
		return nil, apperrors.NewForbidden("admin role required")
	}
	officer, err := s.officers.GetByID(ctx, officerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("officer", map[string]any{"officer_id": officerID})
		}
		return nil, apperrors.MapError(err)
	}

	if input.Role != nil {
		if !hierarchy.ValidRole(*input.Role) {
			return nil, apperrors.NewValidationError("unrecognized role", map[string]any{"role": *input.Role})
		}
		if hierarchy.CompareRoles(*input.Role, principal.Role) > 0 {
			return nil, apperrors.NewForbidden("cannot grant a role above your own")
		}
		officer.Role = *input.Role
	}
	if input.Escalation != nil {
		if !hierarchy.ValidLevel(*input.Escalation) {
			return nil, apperrors.NewValidationError("unrecognized escalation level", map[string]any{"escalation_level": *input.Escalation})
		}
		officer.Escalation = *input.Escalation
	}
	if input.DepartmentID != nil {
		officer.DepartmentID = input.DepartmentID
	}
	if input.Active != nil {
		officer.Active = *input.Active
	}

	if err := s.officers.Update(ctx, officer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return officer, nil
}
