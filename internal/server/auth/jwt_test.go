package auth

import (
	"testing"
	"time"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	userID := "user-123"

	tok, err := GenerateToken(userID, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	gotUserID, err := GetUserIDFromToken(tok, secret)
	if err != nil {
		t.Fatalf("GetUserIDFromToken error: %v", err)
	}
	if gotUserID != userID {
		t.Fatalf("userID mismatch: got %q want %q", gotUserID, userID)
	}
}

func TestGetUserIDFromToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateToken("u1", secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := GetUserIDFromToken(tok, secret); err == nil {
		t.Fatalf("expected error for expired token, got nil")
	}
}

func TestGetUserIDFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u2", []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := GetUserIDFromToken(tok, []byte("wrong-secret")); err == nil {
		t.Fatalf("expected error for invalid signature, got nil")
	}
}

func TestGetUserIDFromToken_MalformedString(t *testing.T) {
	t.Parallel()

	if _, err := GetUserIDFromToken("not.a.jwt", []byte("k")); err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}

func TestAdminToken_SubjectRoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	identity := "admin@example.comhunter2"

	tok, err := GenerateAdminToken(identity, secret)
	if err != nil {
		t.Fatalf("GenerateAdminToken error: %v", err)
	}

	got, err := GetSubjectFromToken(tok, secret)
	if err != nil {
		t.Fatalf("GetSubjectFromToken error: %v", err)
	}
	if got != identity {
		t.Fatalf("subject mismatch: got %q want %q", got, identity)
	}
}

func TestAdminToken_UnusableAsSessionToken(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateAdminToken("admin@example.comhunter2", secret)
	if err != nil {
		t.Fatalf("GenerateAdminToken error: %v", err)
	}

	if _, err := GetUserIDFromToken(tok, secret); err == nil {
		t.Fatalf("expected admin token to be rejected as a session token")
	}
}
