package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/GunarsK-portfolio/sweetshop-service/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// TokenLifetime is the fixed validity window of an issued token.
const TokenLifetime = 7 * 24 * time.Hour

// Claims represents JWT token claims. The subject id travels in the
// registered "sub" claim.
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies identity tokens.
type TokenService interface {
	Issue(subjectID string, role models.Role) (string, error)
	Verify(tokenString string) (*Claims, error)
	Lifetime() time.Duration
}

type jwtService struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// NewTokenService creates a TokenService signing with HS256. now is the
// clock used for issuance and expiry checks; nil means time.Now.
func NewTokenService(secret string, now func() time.Time) (TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if now == nil {
		now = time.Now
	}
	return &jwtService{
		secret:   []byte(secret),
		lifetime: TokenLifetime,
		now:      now,
	}, nil
}

func (s *jwtService) Lifetime() time.Duration {
	return s.lifetime
}

func (s *jwtService) Issue(subjectID string, role models.Role) (string, error) {
	if _, err := models.ParseRole(string(role)); err != nil {
		return "", err
	}
	issuedAt := s.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *jwtService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	role, err := models.ParseRole(string(claims.Role))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims.Role = role
	return claims, nil
}
