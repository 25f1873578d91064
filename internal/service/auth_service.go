package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sisyflow/sisyflow/internal/auth"
	"github.com/sisyflow/sisyflow/internal/config"
	"github.com/sisyflow/sisyflow/internal/domain"
	"github.com/sisyflow/sisyflow/internal/repository"
	apperrors "github.com/sisyflow/sisyflow/pkg/util"
)

// AuthService handles registration, sign-in/out, and user administration.
type AuthService struct {
	cfg      config.AuthConfig
	profiles repository.ProfileRepository
	tokens   *auth.TokenManager
	revoked  auth.RevocationStore
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	ProfileRepo repository.ProfileRepository
	Revoked     auth.RevocationStore
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		cfg:      cfg,
		profiles: deps.ProfileRepo,
		tokens:   auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL()),
		revoked:  deps.Revoked,
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Register creates a profile and opens a session for it.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.Profile, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < 8 {
		return nil, "", apperrors.NewValidationError("invalid credentials", map[string]any{
			"username": "is required",
			"password": "must be at least 8 characters",
		})
	}

	if _, err := s.profiles.GetByUsername(ctx, username); err == nil {
		return nil, "", apperrors.NewConflict("username already taken", map[string]any{"username": username})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, "", err
	}

	profile := &domain.Profile{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, "", err
	}

	token, _, err := s.tokens.GenerateToken(profile.ID)
	if err != nil {
		return nil, "", err
	}
	return profile, token, nil
}

// SignIn verifies credentials and opens a session.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (*domain.Profile, string, error) {
	profile, err := s.profiles.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", apperrors.NewUnauthorized("invalid username or password")
		}
		return nil, "", err
	}
	if err := auth.ComparePassword(profile.PasswordHash, password); err != nil {
		return nil, "", apperrors.NewUnauthorized("invalid username or password")
	}

	token, _, err := s.tokens.GenerateToken(profile.ID)
	if err != nil {
		return nil, "", err
	}
	return profile, token, nil
}

// SignOut revokes the session token until its natural expiry. An already
// invalid token signs out cleanly.
func (s *AuthService) SignOut(ctx context.Context, tokenStr string) error {
	if tokenStr == "" || s.revoked == nil {
		return nil
	}
	claims, err := s.tokens.ParseToken(tokenStr)
	if err != nil {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// ListUsers returns profiles for the assignee picker and admin view.
func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]domain.Profile, error) {
	return s.profiles.List(ctx, limit, offset)
}

// DeleteUser removes a profile. Ticket and error-log references to it become
// null via the schema. Admins cannot delete their own account.
func (s *AuthService) DeleteUser(ctx context.Context, actor *domain.Profile, userID string) error {
	if actor.ID == userID {
		return apperrors.NewConflict("cannot delete your own account", nil)
	}
	if err := s.profiles.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"id": userID})
		}
		return err
	}
	return nil
}
