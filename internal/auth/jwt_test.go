package auth

import (
	"testing"
	"time"
)

func TestGenerateAndValidate(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, "registre")

	token, err := manager.Generate("alice")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.Subject != "alice" {
		t.Errorf("expected subject alice, got %q", claims.Subject)
	}
	if claims.Realm != "registre" {
		t.Errorf("expected realm registre, got %q", claims.Realm)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", time.Hour, "registre")
	verifier := NewJWTManager("secret-b", time.Hour, "registre")

	token, err := issuer.Generate("alice")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := verifier.Validate(token); err == nil {
		t.Fatal("expected validation failure with wrong secret")
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute, "registre")

	token, err := manager.Generate("alice")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := manager.Validate(token); err == nil {
		t.Fatal("expected validation failure for expired token")
	}
}

func TestGenerateRequiresSubject(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, "registre")
	if _, err := manager.Generate(""); err == nil {
		t.Fatal("expected error for empty subject")
	}
}

func TestTokenFromHeader(t *testing.T) {
	token, err := TokenFromHeader("Bearer abc123")
	if err != nil || token != "abc123" {
		t.Fatalf("expected abc123, got %q (err %v)", token, err)
	}

	if _, err := TokenFromHeader("Basic abc123"); err == nil {
		t.Fatal("expected error for non-bearer header")
	}
	if _, err := TokenFromHeader(""); err == nil {
		t.Fatal("expected error for empty header")
	}
}
