package auth

import (
	"testing"
	"time"

	"github.com/spec-kit/civic-issue-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	role := domain.RoleManager
	token, expiresAt, err := tm.GenerateToken("officer-42", domain.SubjectTypeStaff, &role)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if time.Until(expiresAt) < 55*time.Minute {
		t.Errorf("expiry %v too close, want about an hour", expiresAt)
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.SubjectID != "officer-42" {
		t.Errorf("subject id = %q, want officer-42", claims.SubjectID)
	}
	if claims.Subject != domain.SubjectTypeStaff {
		t.Errorf("subject type = %q, want staff", claims.Subject)
	}
	if claims.Role == nil || *claims.Role != domain.RoleManager {
		t.Errorf("role = %v, want manager", claims.Role)
	}
}

func TestTokenCitizenHasNoRole(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	token, _, err := tm.GenerateToken("citizen-1", domain.SubjectTypeCitizen, nil)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Role != nil {
		t.Errorf("citizen token carries role %v", *claims.Role)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 60).GenerateToken("citizen-1", domain.SubjectTypeCitizen, nil)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := NewTokenManager("secret-b", 60).ParseToken(token); err == nil {
		t.Error("token signed with another secret accepted")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tm := &TokenManager{secret: []byte("test-secret"), ttl: -time.Minute}
	token, _, err := tm.GenerateToken("citizen-1", domain.SubjectTypeCitizen, nil)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := tm.ParseToken(token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	if _, err := tm.ParseToken("not.a.token"); err == nil {
		t.Error("malformed token accepted")
	}
}

func TestPasswordHashAndCompare(t *testing.T) {
	hashed, err := HashPassword("s3cret-pass", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := ComparePassword(hashed, "s3cret-pass"); err != nil {
		t.Errorf("ComparePassword with correct password: %v", err)
	}
	if err := ComparePassword(hashed, "wrong-pass"); err == nil {
		t.Error("ComparePassword accepted wrong password")
	}
}
