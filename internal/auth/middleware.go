package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/civic-issue-service/internal/domain"
	"github.com/spec-kit/civic-issue-service/internal/repository"
	apperrors "github.com/spec-kit/civic-issue-service/pkg/util"
)

const principalKey = "auth_principal"

// AuthMiddleware validates bearer tokens and loads the acting principal.
type AuthMiddleware struct {
	tokens   *TokenManager
	citizens repository.CitizenRepository
	officers repository.OfficerRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, citizens repository.CitizenRepository, officers repository.OfficerRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, citizens: citizens, officers: officers}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	principal, err := m.resolve(c)
	if err != nil {
		return err
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// HandleOptional loads a principal when a token is present but lets
// anonymous requests through. Used on the public report-submission route.
func (m *AuthMiddleware) HandleOptional(c *fiber.Ctx) error {
	if c.Get("Authorization") == "" {
		return c.Next()
	}
	principal, err := m.resolve(c)
	if err != nil {
		return err
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

func (m *AuthMiddleware) resolve(c *fiber.Ctx) (*domain.Principal, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid token")
	}

	switch claims.Subject {
	case domain.SubjectTypeCitizen:
		citizen, err := m.citizens.GetByID(c.Context(), claims.SubjectID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewUnauthorized("citizen not found")
			}
			return nil, apperrors.MapError(err)
		}
		if citizen.Status != domain.CitizenStatusActive {
			return nil, apperrors.NewUnauthorized("account suspended")
		}
		return &domain.Principal{
			SubjectType: domain.SubjectTypeCitizen,
			CitizenID:   &citizen.ID,
			Name:        citizen.Name,
		}, nil
	case domain.SubjectTypeStaff:
		officer, err := m.officers.GetByID(c.Context(), claims.SubjectID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewUnauthorized("officer not found")
			}
			return nil, apperrors.MapError(err)
		}
		if !officer.Active {
			return nil, apperrors.NewUnauthorized("account inactive")
		}
		return &domain.Principal{
			SubjectType:  domain.SubjectTypeStaff,
			OfficerID:    &officer.ID,
			Name:         officer.Name,
			Role:         officer.Role,
			Escalation:   officer.Escalation,
			DepartmentID: officer.DepartmentID,
		}, nil
	default:
		return nil, apperrors.NewUnauthorized("unknown subject")
	}
}

// PrincipalFromContext retrieves the authenticated principal.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.Principal)
	return principal, ok
}
