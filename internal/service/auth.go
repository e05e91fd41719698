package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/pkordes/recipe-box/backend/internal/domain"
	"github.com/pkordes/recipe-box/backend/internal/repo"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 6

// MaxPasswordBytes is bcrypt's input limit. It counts bytes, not characters.
const MaxPasswordBytes = 72

// PasswordHasher hashes and checks passwords. *auth.Hasher satisfies it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

// TokenIssuer issues bearer tokens for a user. *auth.TokenIssuer satisfies it.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// AuthService implements registration and login.
type AuthService struct {
	users  repo.UserRepo
	hasher PasswordHasher
	tokens TokenIssuer
}

// NewAuthService constructs an AuthService.
func NewAuthService(users repo.UserRepo, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

// Register validates the input, hashes the password, and creates the user.
// Returns domain.ErrValidation for invalid input and domain.ErrConflict if the
// email is already registered.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	switch {
	case name == "":
		return domain.User{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	case !validEmail(email):
		return domain.User{}, fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	case len(password) < MinPasswordLength:
		return domain.User{}, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, MinPasswordLength)
	case len(password) > MaxPasswordBytes:
		return domain.User{}, fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, MaxPasswordBytes)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}
	return user, nil
}

// Login checks the credentials and returns a signed token with the user.
// An unknown email and a wrong password both return domain.ErrUnauthorized
// so callers cannot probe which emails exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.User{}, fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthorized)
		}
		return "", domain.User{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}

	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	if !ok {
		return "", domain.User{}, fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthorized)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return token, user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validEmail accepts a bare address (no display name).
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
