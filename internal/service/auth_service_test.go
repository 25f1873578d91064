package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sisyflow/sisyflow/internal/config"
	"github.com/sisyflow/sisyflow/internal/repository/fakes"
	"github.com/sisyflow/sisyflow/internal/service"
	apperrors "github.com/sisyflow/sisyflow/pkg/util"
)

type memoryRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newMemoryRevocationStore() *memoryRevocationStore {
	return &memoryRevocationStore{revoked: map[string]time.Time{}}
}

func (s *memoryRevocationStore) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = expiresAt
	return nil
}

func (s *memoryRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[tokenID]
	return ok, nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:         "test-secret",
		SessionTTLMinutes: 60,
		SessionCookieName: "sisyflow_session",
		BcryptCost:        4,
	}
}

func newAuthFixture() (*service.AuthService, *fakes.ProfileRepo, *memoryRevocationStore) {
	profiles := fakes.NewProfileRepo()
	revoked := newMemoryRevocationStore()
	svc := service.NewAuthService(testAuthConfig(), service.AuthDependencies{
		ProfileRepo: profiles,
		Revoked:     revoked,
	})
	return svc, profiles, revoked
}

func TestRegisterAndSignIn(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	profile, token, err := svc.Register(ctx, "  alice  ", "correct horse battery")
	require.NoError(t, err)
	require.Equal(t, "alice", profile.Username)
	require.NotEmpty(t, profile.ID)
	require.NotEmpty(t, token)
	require.False(t, profile.IsAdmin)
	// the hash must never be the plain password
	require.NotEqual(t, "correct horse battery", profile.PasswordHash)

	signedIn, token2, err := svc.SignIn(ctx, "alice", "correct horse battery")
	require.NoError(t, err)
	require.Equal(t, profile.ID, signedIn.ID)
	require.NotEmpty(t, token2)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "", "long enough password")
	require.Error(t, err)
	require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, _, err = svc.Register(ctx, "bob", "short")
	require.Error(t, err)
	require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice", "correct horse battery")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "alice", "another password 123")
	require.Error(t, err)
	require.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestSignInRejectsBadCredentialsUniformly(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice", "correct horse battery")
	require.NoError(t, err)

	_, _, unknownUserErr := svc.SignIn(ctx, "nobody", "whatever password")
	_, _, wrongPasswordErr := svc.SignIn(ctx, "alice", "wrong password here")

	for _, err := range []error{unknownUserErr, wrongPasswordErr} {
		require.Error(t, err)
		domainErr := apperrors.ToDomainError(err)
		require.Equal(t, "UNAUTHORIZED", domainErr.Code)
		// same message either way, no username-exists oracle
		require.Equal(t, "invalid username or password", domainErr.Message)
	}
}

func TestSignOutRevokesToken(t *testing.T) {
	svc, _, revoked := newAuthFixture()
	ctx := context.Background()

	_, token, err := svc.Register(ctx, "alice", "correct horse battery")
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, token))

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	isRevoked, err := revoked.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	require.True(t, isRevoked)
}

func TestSignOutToleratesGarbageToken(t *testing.T) {
	svc, _, revoked := newAuthFixture()
	ctx := context.Background()

	require.NoError(t, svc.SignOut(ctx, "not-a-jwt"))
	require.NoError(t, svc.SignOut(ctx, ""))
	require.Empty(t, revoked.revoked)
}

func TestDeleteUser(t *testing.T) {
	svc, profiles, _ := newAuthFixture()
	ctx := context.Background()

	admin := seedUser(profiles, "admin-1", "admin", true)
	victim, _, err := svc.Register(ctx, "alice", "correct horse battery")
	require.NoError(t, err)

	// self-deletion is refused
	err = svc.DeleteUser(ctx, admin, admin.ID)
	require.Error(t, err)
	require.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)

	require.NoError(t, svc.DeleteUser(ctx, admin, victim.ID))

	err = svc.DeleteUser(ctx, admin, victim.ID)
	require.Error(t, err)
	require.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}
