package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hugh/go-taskboard/internal/auth"
	"github.com/hugh/go-taskboard/internal/store"
	"github.com/hugh/go-taskboard/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisRevoker(t *testing.T) *auth.Revoker {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return auth.NewRevoker(client)
}

func TestService_Register(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	t.Run("stores a hash, never the password", func(t *testing.T) {
		user, err := tc.AuthService.Register(ctx, auth.RegisterInput{
			Username: "carol",
			Email:    "carol@example.com",
			Password: "correct-horse",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.NotEqual(t, "correct-horse", user.PasswordHash)
		assert.True(t, auth.CheckPassword("correct-horse", user.PasswordHash))

		stored, err := tc.Store.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.NotContains(t, stored.PasswordHash, "correct-horse")
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := tc.AuthService.Register(ctx, auth.RegisterInput{
			Username: "alice",
			Email:    "someone-else@example.com",
			Password: "correct-horse",
		})
		assert.ErrorIs(t, err, store.ErrUsernameTaken)
		assert.ErrorIs(t, err, store.ErrConflict)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := tc.AuthService.Register(ctx, auth.RegisterInput{
			Username: "alice2",
			Email:    tc.User.Email,
			Password: "correct-horse",
		})
		assert.ErrorIs(t, err, store.ErrEmailTaken)
	})
}

func TestService_Login(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	tests := []struct {
		name     string
		login    string
		password string
		wantErr  error
	}{
		{"by username", "alice", testutil.TestPassword, nil},
		{"by email", tc.User.Email, testutil.TestPassword, nil},
		{"wrong password", "alice", "wrong-password", auth.ErrInvalidCredentials},
		{"unknown user", "nobody", testutil.TestPassword, auth.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := tc.AuthService.Login(ctx, auth.LoginInput{Login: tt.login, Password: tt.password})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "bearer", resp.TokenType)
			assert.Equal(t, int64((24 * time.Hour).Seconds()), resp.ExpiresIn)

			claims, err := tc.JWTService.ValidateToken(resp.Token)
			require.NoError(t, err)
			assert.Equal(t, tc.User.ID, claims.UserID)
			assert.Equal(t, "alice", claims.Username)
			assert.Equal(t, tc.User.Email, claims.Subject)
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	t.Run("resolves the user", func(t *testing.T) {
		claims, user, err := tc.AuthService.Authenticate(ctx, tc.Token)
		require.NoError(t, err)
		assert.Equal(t, tc.User.ID, claims.UserID)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("rejects invalid token", func(t *testing.T) {
		_, _, err := tc.AuthService.Authenticate(ctx, "garbage")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects token of unknown user", func(t *testing.T) {
		other := testutil.CreateTestUser(t, tc.DB, "ghost")
		token := testutil.GenerateTestToken(t, tc.JWTService, other)
		require.NoError(t, tc.DB.Delete(other).Error)

		_, _, err := tc.AuthService.Authenticate(ctx, token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestService_Logout(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()
	ctx := context.Background()

	svc := auth.NewService(tc.Store, tc.JWTService, newRedisRevoker(t), nil)

	claims, _, err := svc.Authenticate(ctx, tc.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))

	_, _, err = svc.Authenticate(ctx, tc.Token)
	assert.ErrorIs(t, err, auth.ErrRevokedToken)

	fresh := testutil.GenerateTestToken(t, tc.JWTService, tc.User)
	_, _, err = svc.Authenticate(ctx, fresh)
	assert.NoError(t, err, "other tokens of the same user stay valid")
}

func TestService_ResetPassword(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()
	ctx := context.Background()

	require.NoError(t, tc.AuthService.ResetPassword(ctx, "alice", "new-password-1"))

	_, err := tc.AuthService.Login(ctx, auth.LoginInput{Login: "alice", Password: testutil.TestPassword})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = tc.AuthService.Login(ctx, auth.LoginInput{Login: "alice", Password: "new-password-1"})
	assert.NoError(t, err)

	err = tc.AuthService.ResetPassword(ctx, "nobody", "whatever-123")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
