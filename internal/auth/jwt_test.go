package auth

import (
	"testing"
	"time"

	"github.com/shareline/shareline/internal/model"
)

var testUser = &model.User{ID: 1, Email: "alice@example.com", Name: "Alice", IsDonor: true}

func TestGenerateAndValidateToken(t *testing.T) {
	key := "test-signing-key"

	token, err := GenerateToken(key, testUser, model.RoleDonor)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := ValidateToken(key, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if claims.UserID != 1 {
		t.Errorf("expected user_id 1, got %d", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("expected email 'alice@example.com', got %q", claims.Email)
	}
	if claims.Role != string(model.RoleDonor) {
		t.Errorf("expected role 'donor', got %q", claims.Role)
	}
	if claims.ID == "" {
		t.Error("expected a JTI")
	}

	actor := claims.Actor()
	if actor.UserID != 1 || actor.Role != model.RoleDonor {
		t.Errorf("unexpected actor: %+v", actor)
	}
}

func TestValidateTokenWrongKey(t *testing.T) {
	token, _ := GenerateToken("key1", testUser, model.RoleDonor)

	_, err := ValidateToken("key2", token)
	if err == nil {
		t.Error("expected error for wrong signing key")
	}
}

func TestValidateTokenInvalid(t *testing.T) {
	_, err := ValidateToken("key", "not-a-token")
	if err == nil {
		t.Error("expected error for invalid token")
	}
}

func TestValidateTokenRejectsUnknownRole(t *testing.T) {
	key := "test-signing-key"
	token, err := GenerateToken(key, testUser, model.Role("admin"))
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ValidateToken(key, token); err == nil {
		t.Error("expected error for token with unknown role")
	}
}

func TestTokenExpiry(t *testing.T) {
	// Just verify the expiry is set correctly.
	key := "test"
	token, _ := GenerateToken(key, testUser, model.RoleDonor)
	claims, _ := ValidateToken(key, token)

	expiresAt := claims.ExpiresAt.Time
	expectedExpiry := time.Now().Add(TokenExpiry)

	// Should be within a few seconds.
	diff := expectedExpiry.Sub(expiresAt)
	if diff < -5*time.Second || diff > 5*time.Second {
		t.Errorf("token expiry too far from expected: diff=%v", diff)
	}
}

func TestTokensHaveUniqueJTIs(t *testing.T) {
	key := "test"
	t1, _ := GenerateToken(key, testUser, model.RoleDonor)
	t2, _ := GenerateToken(key, testUser, model.RoleDonor)

	c1, _ := ValidateToken(key, t1)
	c2, _ := ValidateToken(key, t2)
	if c1.ID == c2.ID {
		t.Error("expected distinct JTIs for separate tokens")
	}
}
