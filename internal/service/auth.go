// Package service implements the authentication and inventory logic of
// the sweet shop service.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GunarsK-portfolio/sweetshop-service/internal/models"
	"github.com/GunarsK-portfolio/sweetshop-service/internal/repository"
	"github.com/google/uuid"
)

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string              `json:"token"`
	User  models.UserResponse `json:"user"`
}

// AuthService handles registration, login and logout.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*AuthResponse, error)
	Login(ctx context.Context, email, password string) (*AuthResponse, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, decision models.Decision) (*models.UserResponse, error)
	EnsureAdmin(ctx context.Context, email, password, name string) (bool, error)
}

type authService struct {
	userRepo    repository.UserRepository
	tokens      TokenService
	hasher      PasswordHasher
	revocations Revocations
}

// NewAuthService creates a new AuthService. revocations may be nil, in
// which case logout is a client-side discard only.
func NewAuthService(userRepo repository.UserRepository, tokens TokenService, hasher PasswordHasher, revocations Revocations) AuthService {
	return &authService{
		userRepo:    userRepo,
		tokens:      tokens,
		hasher:      hasher,
		revocations: revocations,
	}
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, email, password, name string) (*AuthResponse, error) {
	email = NormalizeEmail(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, invalidInput("email and password required")
	}

	user, err := s.createUser(ctx, email, password, strings.TrimSpace(name), models.RoleUser)
	if err != nil {
		return nil, err
	}
	return s.respond(user)
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = NormalizeEmail(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, invalidInput("email and password required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Compare(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.respond(user)
}

func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return err
	}
	if s.revocations == nil {
		return nil
	}
	return s.revocations.Revoke(ctx, token, claims.ExpiresAt.Time)
}

func (s *authService) Me(ctx context.Context, decision models.Decision) (*models.UserResponse, error) {
	if !decision.IsAuthenticated() {
		return nil, ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, decision.SubjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
		}
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

// EnsureAdmin creates an admin identity when no user holds the email.
// It reports whether a user was created.
func (s *authService) EnsureAdmin(ctx context.Context, email, password, name string) (bool, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return false, invalidInput("admin email and password required")
	}
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	if _, err := s.createUser(ctx, email, password, name, models.RoleAdmin); err != nil {
		if errors.Is(err, ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *authService) createUser(ctx context.Context, email, password, name string, role models.Role) (*models.User, error) {
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) respond(user *models.User) (*AuthResponse, error) {
	role, err := models.ParseRole(string(user.Role))
	if err != nil {
		role = models.RoleUser
	}
	token, err := s.tokens.Issue(user.ID, role)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		Token: token,
		User:  user.Public(),
	}, nil
}
