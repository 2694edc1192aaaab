package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	issuer := NewIssuer("test-secret")

	token, err := issuer.AccessToken("op-123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "op-123" {
		t.Fatalf("subject = %s", claims.Subject)
	}

	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if ttl != issuer.AccessTTL {
		t.Fatalf("ttl = %v, want %v", ttl, issuer.AccessTTL)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewIssuer("secret-a").AccessToken("op-123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewIssuer("secret-b").Parse(token); err == nil {
		t.Fatal("expected signature validation failure")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuer := NewIssuer("test-secret")
	issuer.AccessTTL = -time.Hour

	expired, err := issuer.AccessToken("op-123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Parse(expired); err == nil {
		t.Fatal("expected expiry validation failure")
	}
}

func TestParseRejectsWrongAlgorithm(t *testing.T) {
	issuer := NewIssuer("test-secret")

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "op-123"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := issuer.Parse(unsigned); err == nil {
		t.Fatal("expected rejection of alg=none token")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword("hunter2", hash) {
		t.Fatal("correct password rejected")
	}
	if CheckPassword("wrong", hash) {
		t.Fatal("wrong password accepted")
	}
}

func TestRefreshTokensAreUnique(t *testing.T) {
	a, b := GenerateRefreshToken(), GenerateRefreshToken()
	if a == "" || a == b {
		t.Fatalf("tokens not unique: %q %q", a, b)
	}
}
