package auth

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}, &RefreshToken{}))

	return &Service{
		DB:            db,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "anna@example.com", "secret123", "Anna", "Galway", "1 Shop St", "0851234567")
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.Equal(t, "user", user.Role)
	require.NotEqual(t, "secret123", user.PasswordHash)

	session, err := svc.Login(ctx, "anna@example.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, session.AccessToken)
	require.NotEmpty(t, session.RefreshToken)
	require.Equal(t, user.ID, session.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "anna@example.com", "secret123", "Anna", "", "", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "anna@example.com", "other456", "Other", "", "", "")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "anna@example.com", "secret123", "Anna", "", "", "")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "anna@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "secret123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "anna@example.com", "secret123", "Anna", "", "", "")
	require.NoError(t, err)
	session, err := svc.Login(ctx, "anna@example.com", "secret123")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, session.RefreshToken, rotated.RefreshToken)

	// The old token is revoked by rotation and cannot be replayed.
	_, err = svc.Refresh(ctx, session.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestLogoutRevokesRefresh(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "anna@example.com", "secret123", "Anna", "", "", "")
	require.NoError(t, err)
	session, err := svc.Login(ctx, "anna@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.RefreshToken))

	_, err = svc.Refresh(ctx, session.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)

	// Logout with a garbage token is a no-op, not an error.
	require.NoError(t, svc.Logout(ctx, "not-a-token"))
}
