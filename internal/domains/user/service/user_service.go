package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"bookapi-backend/internal/domains/user"
	"bookapi-backend/internal/shared/validation"
	"bookapi-backend/pkg/jwt"
)

type userService struct {
	repo   user.Repository
	tokens *jwt.Manager
}

func NewUserService(repo user.Repository, tokens *jwt.Manager) user.Service {
	return &userService{
		repo:   repo,
		tokens: tokens,
	}
}

// Login checks the credentials and issues an access token carrying the role.
func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	if err := validation.FromError(req.Validate()); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByEmail(ctx, req.Username)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, user.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(strconv.FormatInt(u.ID, 10), u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	log.Info().Int64("user_id", u.ID).Str("role", u.Role).Msg("user logged in")
	return &user.LoginResponse{Token: token}, nil
}

// HashPassword hashes a plain password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
