package service

import (
	"context"
	"testing"

	"github.com/spec-kit/civic-issue-service/internal/config"
	"github.com/spec-kit/civic-issue-service/internal/domain"
	"github.com/spec-kit/civic-issue-service/internal/repository"
)

func newOfficerService(s *fakeStore) *OfficerService {
	cfg := config.Config{Auth: config.AuthConfig{BcryptCost: 4}}
	return NewOfficerService(cfg, &fakeOfficerRepo{s: s}, &fakeDepartmentRepo{s: s})
}

func validOfficerInput() OfficerCreateInput {
	return OfficerCreateInput{
		Name:       "B Chikore",
		Email:      "chikore@council.test",
		Password:   "ward-duty-7",
		Role:       domain.RoleOfficer,
		Escalation: domain.EscalationWard,
	}
}

func TestCreateOfficer(t *testing.T) {
	store := newFakeStore()
	svc := newOfficerService(store)
	admin := staffPrincipal(domain.RoleAdmin, domain.EscalationTown)

	officer, err := svc.CreateOfficer(context.Background(), admin, validOfficerInput())
	if err != nil {
		t.Fatalf("CreateOfficer: %v", err)
	}
	if !officer.Active {
		t.Error("new officer not active")
	}
	if officer.PasswordHash == "ward-duty-7" {
		t.Error("password stored in the clear")
	}

	_, err = svc.CreateOfficer(context.Background(), admin, validOfficerInput())
	if code := errCode(t, err); code != "CONFLICT" {
		t.Errorf("duplicate email: code = %s, want CONFLICT", code)
	}
}

func TestCreateOfficerAuthority(t *testing.T) {
	store := newFakeStore()
	svc := newOfficerService(store)

	grantSuper := validOfficerInput()
	grantSuper.Role = domain.RoleSuperAdmin

	tests := []struct {
		name      string
		principal *domain.Principal
		input     OfficerCreateInput
		wantCode  string
	}{
		{"manager cannot provision", staffPrincipal(domain.RoleManager, domain.EscalationTown), validOfficerInput(), "FORBIDDEN"},
		{"citizen cannot provision", citizenPrincipal("c1"), validOfficerInput(), "FORBIDDEN"},
		{"admin cannot grant super_admin", staffPrincipal(domain.RoleAdmin, domain.EscalationTown), grantSuper, "FORBIDDEN"},
		{"super_admin can grant super_admin", staffPrincipal(domain.RoleSuperAdmin, domain.EscalationMinistry), grantSuper, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateOfficer(context.Background(), tc.principal, tc.input)
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if code := errCode(t, err); code != tc.wantCode {
				t.Errorf("code = %s, want %s", code, tc.wantCode)
			}
		})
	}
}

func TestCreateOfficerValidation(t *testing.T) {
	store := newFakeStore()
	svc := newOfficerService(store)
	admin := staffPrincipal(domain.RoleAdmin, domain.EscalationTown)

	tests := []struct {
		name   string
		mutate func(*OfficerCreateInput)
	}{
		{"blank name", func(in *OfficerCreateInput) { in.Name = " " }},
		{"blank email", func(in *OfficerCreateInput) { in.Email = "" }},
		{"blank password", func(in *OfficerCreateInput) { in.Password = "" }},
		{"unknown role", func(in *OfficerCreateInput) { in.Role = "clerk" }},
		{"unknown level", func(in *OfficerCreateInput) { in.Escalation = "L9" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := validOfficerInput()
			tc.mutate(&input)
			_, err := svc.CreateOfficer(context.Background(), admin, input)
			if code := errCode(t, err); code != "VALIDATION_FAILED" {
				t.Errorf("code = %s, want VALIDATION_FAILED", code)
			}
		})
	}
}

func TestCreateOfficerDepartmentChecks(t *testing.T) {
	store := newFakeStore()
	svc := newOfficerService(store)
	admin := staffPrincipal(domain.RoleAdmin, domain.EscalationTown)

	inactive := &domain.Department{Name: "Disbanded", IsActive: false}
	if err := (&fakeDepartmentRepo{s: store}).Create(context.Background(), inactive); err != nil {
		t.Fatalf("seed department: %v", err)
	}

	missing := "missing"
	input := validOfficerInput()
	input.DepartmentID = &missing
	_, err := svc.CreateOfficer(context.Background(), admin, input)
	if code := errCode(t, err); code != "NOT_FOUND" {
		t.Errorf("unknown department: code = %s, want NOT_FOUND", code)
	}

	input.DepartmentID = &inactive.ID
	_, err = svc.CreateOfficer(context.Background(), admin, input)
	if code := errCode(t, err); code != "CONFLICT" {
		t.Errorf("inactive department: code = %s, want CONFLICT", code)
	}
}

func TestListOfficers(t *testing.T) {
	store := newFakeStore()
	svc := newOfficerService(store)
	admin := staffPrincipal(domain.RoleAdmin, domain.EscalationTown)

	for _, email := range []string{"a@council.test", "b@council.test"} {
		input := validOfficerInput()
		input.Email = email
		if _, err := svc.CreateOfficer(context.Background(), admin, input); err != nil {
			t.Fatalf("seed officer: %v", err)
		}
	}

	manager := staffPrincipal(domain.RoleManager, domain.EscalationDistrict)
	officers, err := svc.ListOfficers(context.Background(), manager, repository.OfficerFilter{})
	if err != nil {
		t.Fatalf("ListOfficers: %v", err)
	}
	if len(officers) != 2 {
		t.Errorf("got %d officers, want 2", len(officers))
	}

	_, err = svc.ListOfficers(context.Background(), staffPrincipal(domain.RoleOfficer, domain.EscalationWard), repository.OfficerFilter{})
	if code := errCode(t, err); code != "FORBIDDEN" {
		t.Errorf("officer listing: code = %s, want FORBIDDEN", code)
	}
}

func TestUpdateOfficer(t *testing.T) {
	store := newFakeStore()
	svc := newOfficerService(store)
	admin := staffPrincipal(domain.RoleAdmin, domain.EscalationTown)

	officer, err := svc.CreateOfficer(context.Background(), admin, validOfficerInput())
	if err != nil {
		t.Fatalf("CreateOfficer: %v", err)
	}

	manager := domain.RoleManager
	district := domain.EscalationDistrict
	inactive := false
	updated, err := svc.UpdateOfficer(context.Background(), admin, officer.ID, OfficerUpdateInput{
		Role:       &manager,
		Escalation: &district,
		Active:     &inactive,
	})
	if err != nil {
		t.Fatalf("UpdateOfficer: %v", err)
	}
	if updated.Role != domain.RoleManager || updated.Escalation != domain.EscalationDistrict || updated.Active {
		t.Errorf("updated = %+v, want manager/L2/inactive", updated)
	}

	super := domain.RoleSuperAdmin
	_, err = svc.UpdateOfficer(context.Background(), admin, officer.ID, OfficerUpdateInput{Role: &super})
	if code := errCode(t, err); code != "FORBIDDEN" {
		t.Errorf("grant above own role: code = %s, want FORBIDDEN", code)
	}

	_, err = svc.UpdateOfficer(context.Background(), admin, "missing", OfficerUpdateInput{Active: &inactive})
	if code := errCode(t, err); code != "NOT_FOUND" {
		t.Errorf("unknown officer: code = %s, want NOT_FOUND", code)
	}
}
