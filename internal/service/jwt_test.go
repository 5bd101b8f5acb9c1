package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/GunarsK-portfolio/sweetshop-service/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "this-is-a-test-secret-with-32-bytes!"

// fixedClock returns a settable clock for expiry tests.
func fixedClock(start time.Time) (func() time.Time, func(time.Duration)) {
	now := start
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}

func newTestTokenService(t *testing.T, now func() time.Time) TokenService {
	t.Helper()
	tokens, err := NewTokenService(testSecret, now)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	return tokens
}

func TestNewTokenService_EmptySecret(t *testing.T) {
	if _, err := NewTokenService("", nil); err == nil {
		t.Error("NewTokenService(\"\") should fail")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := newTestTokenService(t, nil)

	for _, role := range []models.Role{models.RoleUser, models.RoleAdmin} {
		t.Run(string(role), func(t *testing.T) {
			token, err := tokens.Issue("subject-1", role)
			if err != nil {
				t.Fatalf("Issue() error = %v", err)
			}
			claims, err := tokens.Verify(token)
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if claims.Subject != "subject-1" {
				t.Errorf("Subject = %q, want subject-1", claims.Subject)
			}
			if claims.Role != role {
				t.Errorf("Role = %q, want %q", claims.Role, role)
			}
			if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != TokenLifetime {
				t.Errorf("lifetime = %v, want %v", got, TokenLifetime)
			}
		})
	}
}

func TestIssue_UnknownRole(t *testing.T) {
	tokens := newTestTokenService(t, nil)
	if _, err := tokens.Issue("s", models.Role("root")); err == nil {
		t.Error("Issue() with unknown role should fail")
	}
}

func TestVerify_Expiry(t *testing.T) {
	now, advance := fixedClock(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	tokens := newTestTokenService(t, now)

	token, err := tokens.Issue("s", models.RoleUser)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	advance(TokenLifetime - time.Minute)
	if _, err := tokens.Verify(token); err != nil {
		t.Errorf("Verify() before expiry error = %v", err)
	}

	advance(2 * time.Minute)
	if _, err := tokens.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() after expiry error = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_Rejects(t *testing.T) {
	tokens := newTestTokenService(t, nil)
	valid, err := tokens.Issue("s", models.RoleUser)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	otherSigner, _ := NewTokenService("a-completely-different-secret-value", nil)
	foreign, _ := otherSigner.Issue("s", models.RoleAdmin)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	now := time.Now()
	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Role: models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "s",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	unknownRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: models.Role("root"),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "s",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))

	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: models.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             models.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "s"},
	}).SignedString([]byte(testSecret))

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.jwt"},
		{name: "wrong secret", token: foreign},
		{name: "tampered payload", token: tampered},
		{name: "alg none", token: unsigned},
		{name: "unknown role", token: unknownRole},
		{name: "missing subject", token: noSubject},
		{name: "missing expiry", token: noExpiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tokens.Verify(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
			if !errors.Is(err, ErrUnauthorized) {
				t.Errorf("Verify() error should classify as ErrUnauthorized")
			}
			if claims != nil {
				t.Errorf("Verify() claims = %+v, want nil", claims)
			}
		})
	}
}
