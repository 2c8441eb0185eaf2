package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestMultiAuthenticatorDevToken(t *testing.T) {
	a := &MultiAuthenticator{DevToken: "letmein", DevTokenUID: "local-dev"}

	r := httptest.NewRequest("POST", "/v1/receipts", nil)
	r.Header.Set("Authorization", "Bearer letmein")

	claims, err := a.Authenticate(r)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if claims.UID != "local-dev" {
		t.Fatalf("uid = %q, want local-dev", claims.UID)
	}
}

func TestMultiAuthenticatorDevTokenDefaultUID(t *testing.T) {
	a := &MultiAuthenticator{DevToken: "letmein"}

	r := httptest.NewRequest("POST", "/v1/receipts", nil)
	r.Header.Set("Authorization", "Bearer letmein")

	claims, err := a.Authenticate(r)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if claims.UID != "dev-user" {
		t.Fatalf("uid = %q, want dev-user", claims.UID)
	}
}

func TestMultiAuthenticatorMissingBearer(t *testing.T) {
	a := &MultiAuthenticator{DevToken: "letmein"}

	r := httptest.NewRequest("POST", "/v1/receipts", nil)
	if _, err := a.Authenticate(r); err != ErrMissingBearer {
		t.Fatalf("expected ErrMissingBearer, got %v", err)
	}

	r.Header.Set("Authorization", "Basic abc")
	if _, err := a.Authenticate(r); err != ErrMissingBearer {
		t.Fatalf("expected ErrMissingBearer for non-bearer scheme, got %v", err)
	}
}

func TestMultiAuthenticatorRejectsUnknownToken(t *testing.T) {
	a := &MultiAuthenticator{DevToken: "letmein"}

	r := httptest.NewRequest("POST", "/v1/receipts", nil)
	r.Header.Set("Authorization", "Bearer wrong")

	if _, err := a.Authenticate(r); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func signToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestJWTAuthenticator(t *testing.T) {
	a := NewJWTAuthenticator("secret", "invoixe")

	signed := signToken(t, "secret", jwt.RegisteredClaims{
		Subject:   "user-42",
		Issuer:    "invoixe",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	claims, err := a.Authenticate(signed)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if claims.UID != "user-42" {
		t.Fatalf("uid = %q, want user-42", claims.UID)
	}
}

func TestJWTAuthenticatorRejects(t *testing.T) {
	a := NewJWTAuthenticator("secret", "invoixe")

	cases := []struct {
		name  string
		token string
	}{
		{"wrong secret", signToken(t, "other", jwt.RegisteredClaims{Subject: "u", Issuer: "invoixe"})},
		{"wrong issuer", signToken(t, "secret", jwt.RegisteredClaims{Subject: "u", Issuer: "mallory"})},
		{"missing subject", signToken(t, "secret", jwt.RegisteredClaims{Issuer: "invoixe"})},
		{"expired", signToken(t, "secret", jwt.RegisteredClaims{
			Subject:   "u",
			Issuer:    "invoixe",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		})},
		{"garbage", "not.a.jwt"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := a.Authenticate(tc.token); err != ErrInvalidToken {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestMultiAuthenticatorFallsThroughToJWT(t *testing.T) {
	a := &MultiAuthenticator{
		DevToken: "letmein",
		JWT:      NewJWTAuthenticator("secret", ""),
	}

	signed := signToken(t, "secret", jwt.RegisteredClaims{Subject: "user-7"})

	r := httptest.NewRequest("POST", "/v1/receipts", nil)
	r.Header.Set("Authorization", "Bearer "+signed)

	claims, err := a.Authenticate(r)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if claims.UID != "user-7" {
		t.Fatalf("uid = %q, want user-7", claims.UID)
	}
}
