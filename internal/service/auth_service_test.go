package service

import (
	"context"
	"testing"

	"github.com/spec-kit/civic-issue-service/internal/auth"
	"github.com/spec-kit/civic-issue-service/internal/config"
	"github.com/spec-kit/civic-issue-service/internal/domain"
)

func newAuthService(s *fakeStore) *AuthService {
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            4,
		},
	}
	return NewAuthService(cfg, AuthDependencies{
		CitizenRepo: &fakeCitizenRepo{s: s},
		OfficerRepo: &fakeOfficerRepo{s: s},
	})
}

func TestRegisterAndLoginCitizen(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store)
	ctx := context.Background()

	citizen, token, _, err := svc.RegisterCitizen(ctx, "Tariro M", "tariro@example.test", "0771000000", "hunting-cats-9")
	if err != nil {
		t.Fatalf("RegisterCitizen: %v", err)
	}
	if citizen.Status != domain.CitizenStatusActive {
		t.Errorf("status = %s, want ACTIVE", citizen.Status)
	}
	if citizen.PasswordHash == "hunting-cats-9" {
		t.Error("password stored in the clear")
	}

	claims, err := svc.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.SubjectID != citizen.ID || claims.Subject != domain.SubjectTypeCitizen {
		t.Errorf("claims = %+v, want citizen %s", claims, citizen.ID)
	}

	if _, _, _, err := svc.RegisterCitizen(ctx, "Other", "tariro@example.test", "", "pw123456"); err == nil {
		t.Error("duplicate email registration accepted")
	}

	if _, _, _, err := svc.LoginCitizen(ctx, "tariro@example.test", "hunting-cats-9"); err != nil {
		t.Errorf("LoginCitizen: %v", err)
	}
	_, _, _, err = svc.LoginCitizen(ctx, "tariro@example.test", "wrong")
	if code := errCode(t, err); code != "UNAUTHORIZED" {
		t.Errorf("wrong password: code = %s, want UNAUTHORIZED", code)
	}
	_, _, _, err = svc.LoginCitizen(ctx, "nobody@example.test", "whatever")
	if code := errCode(t, err); code != "UNAUTHORIZED" {
		t.Errorf("unknown email: code = %s, want UNAUTHORIZED", code)
	}
}

func TestLoginCitizenSuspended(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store)
	ctx := context.Background()

	citizen, _, _, err := svc.RegisterCitizen(ctx, "Tariro M", "tariro@example.test", "", "hunting-cats-9")
	if err != nil {
		t.Fatalf("RegisterCitizen: %v", err)
	}
	store.citizens[citizen.ID].Status = domain.CitizenStatusSuspended

	_, _, _, err = svc.LoginCitizen(ctx, "tariro@example.test", "hunting-cats-9")
	if code := errCode(t, err); code != "UNAUTHORIZED" {
		t.Errorf("suspended login: code = %s, want UNAUTHORIZED", code)
	}
}

func TestLoginStaff(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store)
	ctx := context.Background()

	hash, err := auth.HashPassword("ward-duty-7", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	officer := &domain.Officer{
		Name:         "B Chikore",
		Email:        "chikore@council.test",
		PasswordHash: hash,
		Role:         domain.RoleManager,
		Escalation:   domain.EscalationDistrict,
		Active:       true,
	}
	if err := (&fakeOfficerRepo{s: store}).Create(ctx, officer); err != nil {
		t.Fatalf("seed officer: %v", err)
	}

	logged, token, _, err := svc.LoginStaff(ctx, "chikore@council.test", "ward-duty-7")
	if err != nil {
		t.Fatalf("LoginStaff: %v", err)
	}
	if logged.ID != officer.ID {
		t.Errorf("logged in as %s, want %s", logged.ID, officer.ID)
	}
	claims, err := svc.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != domain.SubjectTypeStaff || claims.Role == nil || *claims.Role != domain.RoleManager {
		t.Errorf("claims = %+v, want staff manager", claims)
	}

	store.officers[officer.ID].Active = false
	_, _, _, err = svc.LoginStaff(ctx, "chikore@council.test", "ward-duty-7")
	if code := errCode(t, err); code != "UNAUTHORIZED" {
		t.Errorf("inactive login: code = %s, want UNAUTHORIZED", code)
	}
}

func TestChangePassword(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store)
	ctx := context.Background()

	citizen, _, _, err := svc.RegisterCitizen(ctx, "Tariro M", "tariro@example.test", "", "old-pass-123")
	if err != nil {
		t.Fatalf("RegisterCitizen: %v", err)
	}
	principal := citizenPrincipal(citizen.ID)

	err = svc.ChangePassword(ctx, principal, "not-the-old-one", "new-pass-456")
	if code := errCode(t, err); code != "UNAUTHORIZED" {
		t.Errorf("wrong old password: code = %s, want UNAUTHORIZED", code)
	}

	if err := svc.ChangePassword(ctx, principal, "old-pass-123", "new-pass-456"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, _, _, err := svc.LoginCitizen(ctx, "tariro@example.test", "new-pass-456"); err != nil {
		t.Errorf("login with rotated password: %v", err)
	}
	if _, _, _, err := svc.LoginCitizen(ctx, "tariro@example.test", "old-pass-123"); err == nil {
		t.Error("old password still accepted after rotation")
	}

	err = svc.ChangePassword(ctx, nil, "x", "y")
	if code := errCode(t, err); code != "UNAUTHORIZED" {
		t.Errorf("anonymous change: code = %s, want UNAUTHORIZED", code)
	}
}
