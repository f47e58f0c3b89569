package store

import (
	"context"
	"testing"
	"time"

	"shop_api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id and keeps permissions", func(t *testing.T) {
		s, _ := setupTestStore(t)

		u := createUser(t, s, "a@example.com")
		assert.NotEmpty(t, u.ID)

		got, err := s.UserByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", got.Email)
		assert.Equal(t, domain.Permissions{domain.PermissionUser}, got.Permissions)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		s, _ := setupTestStore(t)
		createUser(t, s, "dup@example.com")

		err := s.CreateUser(ctx, &domain.User{Name: "Other", Email: "dup@example.com", Password: "x"})
		assert.True(t, domain.IsCode(err, domain.ECONFLICT), "got %v", err)
	})
}

func TestStore_UserLookupsNotFound(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	_, err := s.UserByID(ctx, "missing")
	assert.True(t, domain.IsCode(err, domain.ENOTFOUND))

	_, err = s.UserByEmail(ctx, "nobody@example.com")
	assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
}

func TestStore_ResetToken(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	u := createUser(t, s, "reset@example.com")
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	expiry := issued.Add(time.Hour)

	require.NoError(t, s.SetResetToken(ctx, u.ID, "tok", expiry))

	t.Run("valid inside the window", func(t *testing.T) {
		got, err := s.UserByResetToken(ctx, "tok", issued.Add(59*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
	})

	t.Run("expired", func(t *testing.T) {
		_, err := s.UserByResetToken(ctx, "tok", issued.Add(61*time.Minute))
		assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
	})

	t.Run("unknown or empty token", func(t *testing.T) {
		_, err := s.UserByResetToken(ctx, "other", issued)
		assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
		_, err = s.UserByResetToken(ctx, "", issued)
		assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
	})

	t.Run("reset clears the token", func(t *testing.T) {
		_, err := s.ResetPassword(ctx, u.ID, "other", "wrong-hash")
		assert.True(t, domain.IsCode(err, domain.ENOTFOUND), "a different token does not match")

		got, err := s.ResetPassword(ctx, u.ID, "tok", "new-hash")
		require.NoError(t, err)
		assert.Equal(t, "new-hash", got.Password)
		assert.Nil(t, got.ResetToken)
		assert.Nil(t, got.ResetTokenExpiry)

		_, err = s.UserByResetToken(ctx, "tok", issued)
		assert.True(t, domain.IsCode(err, domain.ENOTFOUND), "token must be single use")

		_, err = s.ResetPassword(ctx, u.ID, "tok", "second-hash")
		assert.True(t, domain.IsCode(err, domain.ENOTFOUND), "a second reset with the spent token writes nothing")
		reloaded, err := s.UserByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "new-hash", reloaded.Password)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := s.SetResetToken(ctx, "missing", "tok", expiry)
		assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
	})
}

func TestStore_UpdatePermissions(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	u := createUser(t, s, "perm@example.com")

	perms := domain.Permissions{domain.PermissionAdmin, domain.PermissionItemDelete}
	got, err := s.UpdatePermissions(ctx, u.ID, perms)
	require.NoError(t, err)
	assert.Equal(t, perms, got.Permissions)

	reloaded, err := s.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, perms, reloaded.Permissions)

	_, err = s.UpdatePermissions(ctx, "missing", perms)
	assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
}

func TestStore_Users(t *testing.T) {
	s, _ := setupTestStore(t)
	createUser(t, s, "one@example.com")
	createUser(t, s, "two@example.com")

	users, err := s.Users(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
