package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"tally/internal/core/apperror"
	"tally/internal/core/id"
	"tally/internal/core/tenant"
	"tally/pkg/logger"
)

const passwordMinLength = 8

// Service provides login and user management.
type Service struct {
	users UserRepository
	jwt   *JWTService
}

// NewService creates the auth service.
func NewService(users UserRepository, jwt *JWTService) *Service {
	return &Service{users: users, jwt: jwt}
}

// Register creates a user bound to a tenant.
func (s *Service) Register(ctx context.Context, t tenant.ID, email, password, displayName string, isAdmin bool) (*User, error) {
	if email == "" {
		return nil, apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if len(password) < passwordMinLength {
		return nil, apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", passwordMinLength),
		).WithDetail("field", "password")
	}
	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperror.NewConflict("email already registered").WithDetail("email", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := NewUser(t, email, string(hash))
	user.DisplayName = displayName
	user.IsAdmin = isAdmin
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Info(ctx, "user registered", "user_id", user.ID, "email", user.Email, "tenant", user.TenantID)
	return user, nil
}

// Login authenticates credentials and issues an access token.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Token, *User, error) {
	user, err := s.users.GetByEmail(ctx, creds.Email)
	if err != nil || user == nil {
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}
	if !user.Active {
		return nil, nil, apperror.NewUnauthorized("account disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	accessToken, expiresAt, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate access token: %w", err)
	}

	if err := s.users.RecordLogin(ctx, user.ID); err != nil {
		logger.Warn(ctx, "record login failed", "user_id", user.ID, "error", err)
	}
	logger.Info(ctx, "user logged in", "user_id", user.ID, "email", user.Email)

	return &Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, user, nil
}

// GetUserByID returns one user.
func (s *Service) GetUserByID(ctx context.Context, userID id.ID) (*User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	return user, nil
}
