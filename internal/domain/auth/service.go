package auth

import (
	"context"
	"time"

	"pharmapos/internal/domain/catalogs/user"
	"pharmapos/pkg/logger"
)

// LoginResult carries the issued token and the authenticated user.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *user.User
}

// Service handles login.
type Service struct {
	users *user.Service
	jwt   *JWTService
}

// NewService creates a new auth service.
func NewService(users *user.Service, jwt *JWTService) *Service {
	return &Service{users: users, jwt: jwt}
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(u.ID.String(), u.Username, u.Name, string(u.Role))
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "user logged in", "username", u.Username, "role", u.Role)

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      u,
	}, nil
}
