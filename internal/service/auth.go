package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/logger"
	"library-fines-backend/internal/repository"
	"library-fines-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	userRepo    repository.UserRepository
	tokens      security.TokenManager
	allowUpsert bool
}

// NewAuthService builds the login flow. With allowUpsert set, an unknown
// username is registered and a wrong password replaces the stored hash.
func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager, allowUpsert bool) AuthService {
	return &authService{
		userRepo:    userRepo,
		tokens:      tokens,
		allowUpsert: allowUpsert,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if !s.allowUpsert {
			return "", nil, domain.ErrInvalidCredentials
		}
		user, err = s.register(ctx, username, password)
		if err != nil {
			return "", nil, err
		}
	case err != nil:
		return "", nil, err
	default:
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			if !s.allowUpsert {
				logger.WarnContext(ctx, "Failed login", "username", username)
				return "", nil, domain.ErrInvalidCredentials
			}
			if err := s.overwritePassword(ctx, user, password); err != nil {
				return "", nil, err
			}
		}
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	logger.InfoContext(ctx, "Librarian logged in", "userID", user.ID, "username", user.Username)
	return token, user, nil
}

func (s *authService) register(ctx context.Context, username, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{Username: username, PasswordHash: string(hash)}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	logger.WarnContext(ctx, "Login upsert created a new account", "username", username, "userID", user.ID)
	return user, nil
}

func (s *authService) overwritePassword(ctx context.Context, user *domain.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	logger.WarnContext(ctx, "Login upsert replaced a stored password", "username", user.Username, "userID", user.ID)
	return nil
}

func (s *authService) EnsureAdmin(ctx context.Context, username, password string) error {
	_, err := s.userRepo.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if password == "" {
		return fmt.Errorf("%w: admin account %q is missing and no admin password is configured", domain.ErrInvalidInput, username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &domain.User{Username: username, PasswordHash: string(hash), IsAdmin: true}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return err
	}
	logger.Info("Created bootstrap admin account", "username", username, "userID", admin.ID)
	return nil
}
