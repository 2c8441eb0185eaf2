// Package auth resolves the caller identity used to tag receipts.
// Receipts are tagged with the creator's uid; no further authorization
// policy is applied here.
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingBearer = errors.New("missing bearer token")
	ErrInvalidToken  = errors.New("invalid token")
)

// Claims is the caller identity attached to created receipts. UID is an
// opaque string issued by the identity provider.
type Claims struct {
	UID string
}

type Authenticator interface {
	Authenticate(r *http.Request) (Claims, error)
}

// MultiAuthenticator accepts either a static dev token or an HS256 JWT
// from the identity provider.
type MultiAuthenticator struct {
	DevToken    string
	DevTokenUID string
	JWT         *JWTAuthenticator
}

func (a *MultiAuthenticator) Authenticate(r *http.Request) (Claims, error) {
	bearer, err := extractBearer(r)
	if err != nil {
		return Claims{}, err
	}

	if a.DevToken != "" && bearer == a.DevToken {
		uid := a.DevTokenUID
		if uid == "" {
			uid = "dev-user"
		}
		return Claims{UID: uid}, nil
	}

	if a.JWT != nil {
		return a.JWT.Authenticate(bearer)
	}
	return Claims{}, ErrInvalidToken
}

// JWTAuthenticator validates HS256 tokens and maps the subject claim to
// the receipt uid.
type JWTAuthenticator struct {
	secret []byte
	issuer string
}

func NewJWTAuthenticator(secret, issuer string) *JWTAuthenticator {
	return &JWTAuthenticator{secret: []byte(secret), issuer: issuer}
}

func (a *JWTAuthenticator) Authenticate(token string) (Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}

	registered, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || registered.Subject == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{UID: registered.Subject}, nil
}

func extractBearer(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingBearer
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", ErrMissingBearer
	}
	return parts[1], nil
}
