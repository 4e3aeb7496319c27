// Package hierarchy holds the pure comparators for staff roles and
// escalation levels. Every authority decision in the engine reduces to the
// rank functions here; unrecognized labels fail closed.
package hierarchy

import (
	"fmt"

	"github.com/spec-kit/civic-issue-service/internal/domain"
)

var roleRanks = map[domain.StaffRole]int{
	domain.RoleOfficer:    1,
	domain.RoleManager:    2,
	domain.RoleAdmin:      3,
	domain.RoleSuperAdmin: 4,
}

var levelRanks = map[domain.EscalationLevel]int{
	domain.EscalationWard:     1,
	domain.EscalationDistrict: 2,
	domain.EscalationTown:     3,
	domain.EscalationMinistry: 4,
}

// RoleRank returns the ordinal rank of a role. An unknown label is a data
// error and yields rank 0, below every valid role.
func RoleRank(role domain.StaffRole) int {
	return roleRanks[role]
}

// LevelRank returns the ordinal rank of an escalation level, 0 for unknown.
func LevelRank(level domain.EscalationLevel) int {
	return levelRanks[level]
}

// CompareRoles returns a negative value when a ranks below b, zero when
// equal, positive when above.
func CompareRoles(a, b domain.StaffRole) int {
	return RoleRank(a) - RoleRank(b)
}

// CompareLevels returns a negative value when a ranks below b, zero when
// equal, positive when above.
func CompareLevels(a, b domain.EscalationLevel) int {
	return LevelRank(a) - LevelRank(b)
}

// RoleAtLeast reports whether role ranks at or above the given minimum.
// Unknown labels on either side deny.
func RoleAtLeast(role, min domain.StaffRole) bool {
	r, m := RoleRank(role), RoleRank(min)
	return r > 0 && m > 0 && r >= m
}

// CanActAtLevel reports whether a principal holding the given role and level
// may act on an issue currently at target. super_admin is treated as
// rank-infinite for level-gated checks and passes regardless of target.
func CanActAtLevel(role domain.StaffRole, held, target domain.EscalationLevel) bool {
	if role == domain.RoleSuperAdmin {
		return true
	}
	h, t := LevelRank(held), LevelRank(target)
	return h > 0 && t > 0 && h >= t
}

// NextLevel returns the level one rank above current. The top level has no
// successor and returns an error.
func NextLevel(current domain.EscalationLevel) (domain.EscalationLevel, error) {
	switch current {
	case domain.EscalationWard:
		return domain.EscalationDistrict, nil
	case domain.EscalationDistrict:
		return domain.EscalationTown, nil
	case domain.EscalationTown:
		return domain.EscalationMinistry, nil
	case domain.EscalationMinistry:
		return "", fmt.Errorf("issue already at maximum escalation level %s", current)
	default:
		return "", fmt.Errorf("unknown escalation level %q", current)
	}
}

// ValidLevel reports whether the label is a recognized escalation level.
func ValidLevel(level domain.EscalationLevel) bool {
	return LevelRank(level) > 0
}

// ValidRole reports whether the label is a recognized staff role.
func ValidRole(role domain.StaffRole) bool {
	return RoleRank(role) > 0
}
