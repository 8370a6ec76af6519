package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ayush/pokecatch/backend/internal/models"
)

// UserStore defines the interface for user persistence. CreateUser must
// return models.ErrDuplicateIdentity when the email is already taken; the
// store enforces uniqueness, not the caller.
type UserStore interface {
	CreateUser(ctx context.Context, email, hashedPw string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service registers users, checks their credentials and issues tokens.
type Service struct {
	users  UserStore
	hasher PasswordHasher
	tokens *TokenService

	// compared against when the email is unknown so both login paths spend
	// the same time in the hasher
	dummyHash string
}

func NewService(users UserStore, hasher PasswordHasher, tokens *TokenService) (*Service, error) {
	dummy, err := hasher.Hash("dummy-password-for-timing")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &Service{users: users, hasher: hasher, tokens: tokens, dummyHash: dummy}, nil
}

// Register stores a new user with a hashed password.
func (s *Service) Register(ctx context.Context, email, password string) (*models.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", models.ErrInvalidInput)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, email, hashed)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Verify looks the user up by email and compares the password. It fails with
// models.ErrNotFound for an unknown email.
func (s *Service) Verify(ctx context.Context, email, password string) (*models.User, bool, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			_, _ = s.hasher.Verify(password, s.dummyHash)
		}
		return nil, false, err
	}

	ok, err := s.hasher.Verify(password, user.Password)
	if err != nil {
		return nil, false, fmt.Errorf("verify password: %w", err)
	}
	return user, ok, nil
}

// Login verifies the credentials and returns a signed token for the user.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, ok, err := s.Verify(ctx, email, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", models.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
