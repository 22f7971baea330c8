package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/adeyemi/campuscore/internal/app/models"
	"github.com/adeyemi/campuscore/internal/app/repositories"
	"github.com/adeyemi/campuscore/internal/pkg/apperrors"
	"github.com/adeyemi/campuscore/internal/pkg/auth"
	"github.com/adeyemi/campuscore/internal/pkg/emailaddr"
)

// AuthService authenticates user accounts and issues access tokens.
type AuthService struct {
	userRepo   *repositories.UserRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo *repositories.UserRepository, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, jwtService: jwtService, logger: logger}
}

// LoginResult carries the issued token and its subject.
type LoginResult struct {
	Token     string
	ExpiresIn int
	User      *models.User
}

// Login verifies credentials and issues a signed access token. Lookup
// failures and password mismatches collapse into one error so callers cannot
// probe which addresses exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, emailaddr.Normalize(email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user.ID, user.Email, user.IsStaff)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userId", user.ID).Msg("User logged in")

	return &LoginResult{Token: token, ExpiresIn: expiresIn, User: user}, nil
}
