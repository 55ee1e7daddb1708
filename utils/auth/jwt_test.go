package auth

import (
	"testing"
	"time"
)

func testManager() *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret-key",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "test-issuer",
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	manager := testManager()

	token, jti, err := manager.GenerateAccessToken(42, "student@example.com", "student", 3)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if jti == "" {
		t.Error("expected a non-empty JTI")
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "student@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.Role != "student" {
		t.Errorf("Role = %q", claims.Role)
	}
	if claims.TokenType != "access" {
		t.Errorf("TokenType = %q, want access", claims.TokenType)
	}
	if claims.TokenVersion != 3 {
		t.Errorf("TokenVersion = %d, want 3", claims.TokenVersion)
	}
	if claims.ID != jti {
		t.Errorf("claims.ID = %q, want %q", claims.ID, jti)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _, err := testManager().GenerateAccessToken(1, "a@b.c", "student", 0)
	if err != nil {
		t.Fatal(err)
	}

	other := NewJWTManager(JWTConfig{Secret: "different-secret", Expiry: time.Hour})
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("token signed with another secret must not validate")
	}
}

func TestValidateExpiredToken(t *testing.T) {
	manager := NewJWTManager(JWTConfig{
		Secret: "test-secret-key",
		Expiry: -time.Minute,
	})
	token, _, err := manager.GenerateAccessToken(1, "a@b.c", "student", 0)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := manager.ValidateToken(token); err != ErrExpiredToken {
		t.Errorf("err = %v, want ErrExpiredToken", err)
	}
}

func TestRefreshAccessToken(t *testing.T) {
	manager := testManager()

	refreshToken, _, err := manager.GenerateRefreshToken(7, "u@example.com", "university", 1)
	if err != nil {
		t.Fatal(err)
	}

	accessToken, _, err := manager.RefreshAccessToken(refreshToken, 1)
	if err != nil {
		t.Fatalf("RefreshAccessToken: %v", err)
	}

	claims, err := manager.ValidateToken(accessToken)
	if err != nil {
		t.Fatal(err)
	}
	if claims.TokenType != "access" {
		t.Errorf("TokenType = %q, want access", claims.TokenType)
	}
	if claims.UserID != 7 {
		t.Errorf("UserID = %d, want 7", claims.UserID)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	manager := testManager()

	accessToken, _, err := manager.GenerateAccessToken(7, "u@example.com", "university", 1)
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := manager.RefreshAccessToken(accessToken, 1); err == nil {
		t.Error("an access token must not be usable as a refresh token")
	}
}
