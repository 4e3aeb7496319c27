package hierarchy

import (
	"testing"

	"github.com/spec-kit/civic-issue-service/internal/domain"
)

func TestCompareRoles(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.StaffRole
		want int // sign only
	}{
		{"officer below manager", domain.RoleOfficer, domain.RoleManager, -1},
		{"manager below admin", domain.RoleManager, domain.RoleAdmin, -1},
		{"admin below super_admin", domain.RoleAdmin, domain.RoleSuperAdmin, -1},
		{"equal roles", domain.RoleManager, domain.RoleManager, 0},
		{"super_admin above officer", domain.RoleSuperAdmin, domain.RoleOfficer, 1},
		{"unknown below officer", domain.StaffRole("intern"), domain.RoleOfficer, -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CompareRoles(tc.a, tc.b)
			if sign(got) != tc.want {
				t.Errorf("CompareRoles(%s, %s) = %d, want sign %d", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestCompareRolesAntisymmetric(t *testing.T) {
	roles := []domain.StaffRole{domain.RoleOfficer, domain.RoleManager, domain.RoleAdmin, domain.RoleSuperAdmin}
	for _, a := range roles {
		for _, b := range roles {
			if sign(CompareRoles(a, b)) != -sign(CompareRoles(b, a)) {
				t.Errorf("CompareRoles(%s, %s) and CompareRoles(%s, %s) are not antisymmetric", a, b, b, a)
			}
		}
	}
}

func TestCompareLevels(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.EscalationLevel
		want int
	}{
		{"ward below district", domain.EscalationWard, domain.EscalationDistrict, -1},
		{"district below town", domain.EscalationDistrict, domain.EscalationTown, -1},
		{"town below ministry", domain.EscalationTown, domain.EscalationMinistry, -1},
		{"equal levels", domain.EscalationTown, domain.EscalationTown, 0},
		{"ministry above ward", domain.EscalationMinistry, domain.EscalationWard, 1},
		{"unknown below ward", domain.EscalationLevel("L9"), domain.EscalationWard, -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CompareLevels(tc.a, tc.b)
			if sign(got) != tc.want {
				t.Errorf("CompareLevels(%s, %s) = %d, want sign %d", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		name      string
		role, min domain.StaffRole
		want      bool
	}{
		{"manager meets officer minimum", domain.RoleManager, domain.RoleOfficer, true},
		{"manager meets manager minimum", domain.RoleManager, domain.RoleManager, true},
		{"officer fails manager minimum", domain.RoleOfficer, domain.RoleManager, false},
		{"unknown role always fails", domain.StaffRole("clerk"), domain.RoleOfficer, false},
		{"unknown minimum always fails", domain.RoleAdmin, domain.StaffRole("clerk"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := RoleAtLeast(tc.role, tc.min); got != tc.want {
				t.Errorf("RoleAtLeast(%s, %s) = %v, want %v", tc.role, tc.min, got, tc.want)
			}
		})
	}
}

func TestCanActAtLevel(t *testing.T) {
	tests := []struct {
		name         string
		role         domain.StaffRole
		held, target domain.EscalationLevel
		want         bool
	}{
		{"same level allowed", domain.RoleOfficer, domain.EscalationWard, domain.EscalationWard, true},
		{"higher held allowed", domain.RoleManager, domain.EscalationTown, domain.EscalationWard, true},
		{"lower held denied", domain.RoleManager, domain.EscalationWard, domain.EscalationDistrict, false},
		{"super_admin bypasses level", domain.RoleSuperAdmin, domain.EscalationWard, domain.EscalationMinistry, true},
		{"super_admin with no held level", domain.RoleSuperAdmin, "", domain.EscalationTown, true},
		{"unknown held level denied", domain.RoleAdmin, domain.EscalationLevel("L0"), domain.EscalationWard, false},
		{"unknown target level denied", domain.RoleAdmin, domain.EscalationMinistry, domain.EscalationLevel("L9"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanActAtLevel(tc.role, tc.held, tc.target); got != tc.want {
				t.Errorf("CanActAtLevel(%s, %s, %s) = %v, want %v", tc.role, tc.held, tc.target, got, tc.want)
			}
		})
	}
}

func TestNextLevel(t *testing.T) {
	steps := []struct {
		current domain.EscalationLevel
		next    domain.EscalationLevel
	}{
		{domain.EscalationWard, domain.EscalationDistrict},
		{domain.EscalationDistrict, domain.EscalationTown},
		{domain.EscalationTown, domain.EscalationMinistry},
	}
	for _, step := range steps {
		got, err := NextLevel(step.current)
		if err != nil {
			t.Fatalf("NextLevel(%s): unexpected error %v", step.current, err)
		}
		if got != step.next {
			t.Errorf("NextLevel(%s) = %s, want %s", step.current, got, step.next)
		}
	}

	if _, err := NextLevel(domain.EscalationMinistry); err == nil {
		t.Error("NextLevel(L4): want error, got nil")
	}
	if _, err := NextLevel(domain.EscalationLevel("L7")); err == nil {
		t.Error("NextLevel(unknown): want error, got nil")
	}
}

func TestValidLabels(t *testing.T) {
	if !ValidLevel(domain.EscalationWard) || ValidLevel("L0") {
		t.Error("ValidLevel misclassifies labels")
	}
	if !ValidRole(domain.RoleSuperAdmin) || ValidRole("clerk") {
		t.Error("ValidRole misclassifies labels")
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
