package auth

import (
	"testing"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("password stored in plaintext")
	}
	if !CheckPassword("s3cret", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("wrong", hash) {
		t.Error("wrong password accepted")
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "user@example.com", "test-secret")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseAccessToken(token, "test-secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	id, err := claims.UserID()
	if err != nil {
		t.Fatalf("user id: %v", err)
	}
	if id != 42 {
		t.Errorf("expected user id 42, got %d", id)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("expected email claim, got %s", claims.Email)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(1, "a@b.c", "secret-a")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseAccessToken(token, "secret-b"); err == nil {
		t.Error("token signed with another secret accepted")
	}
}

func TestAccessTokenGarbage(t *testing.T) {
	if _, err := ParseAccessToken("not.a.token", "secret"); err == nil {
		t.Error("garbage token accepted")
	}
}

func TestRefreshTokensUnique(t *testing.T) {
	a := GenerateRefreshToken()
	b := GenerateRefreshToken()
	if a == b {
		t.Error("refresh tokens collide")
	}
	if len(a) != 36 {
		t.Errorf("expected UUID string, got %q", a)
	}
}
