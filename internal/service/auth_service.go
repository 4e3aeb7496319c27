package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/civic-issue-service/internal/auth"
	"github.com/spec-kit/civic-issue-service/internal/config"
	"github.com/spec-kit/civic-issue-service/internal/domain"
	"github.com/spec-kit/civic-issue-service/internal/repository"
	apperrors "github.com/spec-kit/civic-issue-service/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	citizens   repository.CitizenRepository
	officers   repository.OfficerRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for the auth service.
type AuthDependencies struct {
	CitizenRepo repository.CitizenRepository
	OfficerRepo repository.OfficerRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		citizens:   deps.CitizenRepo,
		officers:   deps.OfficerRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// RegisterCitizen creates a new reporter account.
func (s *AuthService) RegisterCitizen(ctx context.Context, name, email, phone, password string) (*domain.Citizen, string, time.Time, error) {
	if _, err := s.citizens.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	citizen := &domain.Citizen{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		Status:       domain.CitizenStatusActive,
	}
	if err := s.citizens.Create(ctx, citizen); err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(citizen.ID, domain.SubjectTypeCitizen, nil)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return citizen, token, exp, nil
}

// LoginCitizen authenticates a reporter.
func (s *AuthService) LoginCitizen(ctx context.Context, email, password string) (*domain.Citizen, string, time.Time, error) {
	citizen, err := s.citizens.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(citizen.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if citizen.Status != domain.CitizenStatusActive {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("account suspended")
	}
	token, exp, err := s.tokenMgr.GenerateToken(citizen.ID, domain.SubjectTypeCitizen, nil)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return citizen, token, exp, nil
}

// LoginStaff authenticates an officer and returns a role-bearing token.
func (s *AuthService) LoginStaff(ctx context.Context, email, password string) (*domain.Officer, string, time.Time, error) {
	officer, err := s.officers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if !officer.Active {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("account inactive")
	}
	if err := auth.ComparePassword(officer.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(officer.ID, domain.SubjectTypeStaff, &officer.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return officer, token, exp, nil
}

// ChangePassword rotates the caller's credential after verifying the old one.
func (s *AuthService) ChangePassword(ctx context.Context, principal *domain.Principal, oldPassword, newPassword string) error {
	if principal == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}

	switch principal.SubjectType {
	case domain.SubjectTypeCitizen:
		citizen, err := s.citizens.GetByID(ctx, *principal.CitizenID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if err := auth.ComparePassword(citizen.PasswordHash, oldPassword); err != nil {
			return apperrors.NewUnauthorized("invalid credentials")
		}
		citizen.PasswordHash = hash
		if err := s.citizens.Update(ctx, citizen); err != nil {
			return apperrors.MapError(err)
		}
		return nil
	case domain.SubjectTypeStaff:
		officer, err := s.officers.GetByID(ctx, *principal.OfficerID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if err := auth.ComparePassword(officer.PasswordHash, oldPassword); err != nil {
			return apperrors.NewUnauthorized("invalid credentials")
		}
		officer.PasswordHash = hash
		if err := s.officers.Update(ctx, officer); err != nil {
			return apperrors.MapError(err)
		}
		return nil
	default:
		return apperrors.NewUnauthorized("unknown subject")
	}
}
