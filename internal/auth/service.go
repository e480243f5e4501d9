package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/okunev/pingchat-server/internal/store"
)

var (
	// ErrInvalidCredentials is returned when email/password don't match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists is returned when trying to register an existing email.
	ErrUserExists = errors.New("user already exists")
	// ErrMissingFields is returned when a required registration field is empty.
	ErrMissingFields = errors.New("all fields are required")
	// ErrInvalidToken is returned when a bearer credential cannot be resolved
	// to an existing user.
	ErrInvalidToken = errors.New("invalid token")
)

// Service provides authentication operations: it issues bearer credentials
// and resolves them back to user identities.
type Service struct {
	store     store.UserStore
	jwtConfig *JWTConfig
}

// NewService creates a new authentication service.
func NewService(userStore store.UserStore, jwtConfig *JWTConfig) *Service {
	return &Service{
		store:     userStore,
		jwtConfig: jwtConfig,
	}
}

// Register creates a new user with hashed password.
func (s *Service) Register(ctx context.Context, fullName, email, password string) (*store.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(strings.ToLower(email))
	if fullName == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	// Check if the email is already taken.
	existing, err := s.store.GetUserByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrUserExists
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, fullName, email, hashedPassword)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login validates credentials and returns the user with a JWT token.
func (s *Service) Login(ctx context.Context, email, password string) (*store.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if errPwd := ComparePassword(user.PasswordHash, password); errPwd != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := GenerateToken(s.jwtConfig, user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return user, token, nil
}

// ResolveToken validates a bearer credential and resolves it to the full user
// profile. It fails if the token is invalid or the user no longer exists.
func (s *Service) ResolveToken(ctx context.Context, tokenString string) (*store.User, error) {
	claims, err := ValidateToken(s.jwtConfig, tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return user, nil
}
