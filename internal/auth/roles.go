package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-issue-service/internal/domain"
	"github.com/spec-kit/civic-issue-service/internal/hierarchy"
	apperrors "github.com/spec-kit/civic-issue-service/pkg/util"
)

// RequireCitizen ensures an authenticated citizen.
func RequireCitizen() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.SubjectType != domain.SubjectTypeCitizen {
			return apperrors.NewForbidden("citizen account required")
		}
		return c.Next()
	}
}

// RequireStaffRole ensures the staff principal holds one of the allowed
// roles. Unknown role labels deny.
func RequireStaffRole(allowed ...domain.StaffRole) fiber.Handler {
	allowedSet := make(map[domain.StaffRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.IsStaff() || !hierarchy.ValidRole(principal.Role) {
			return apperrors.NewForbidden("staff role required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireMinRole ensures the staff principal ranks at or above min.
func RequireMinRole(min domain.StaffRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.IsStaff() {
			return apperrors.NewForbidden("staff role required")
		}
		if !hierarchy.RoleAtLeast(principal.Role, min) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAnySession ensures the caller is authenticated, citizen or staff.
func RequireAnySession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
