package auth_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	auth "github.com/campuskit/lms-auth"
	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestRepo(t *testing.T) auth.Users {
	t.Helper()

	// each test gets its own named in-memory database
	sqldb, err := sql.Open(sqliteshim.ShimName, "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	repo := auth.NewUsersRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))

	return repo
}

func seedUser(t *testing.T, repo auth.Users, email string) *auth.User {
	t.Helper()

	now := time.Now()
	user, err := repo.Save(context.Background(), &auth.User{
		Name:         "Ada Lovelace",
		Email:        email,
		Role:         auth.RoleInstructor,
		PasswordHash: "plain:secret",
		Status:       auth.UserStatusActive,
		CreatedAt:    &now,
		UpdatedAt:    &now,
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	return user
}

func TestUsersRepositoryLookups(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created := seedUser(t, repo, "ada@example.com")

	t.Run("FindByEmail", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "plain:secret", found.PasswordHash)
	})

	t.Run("FindByEmail unknown", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, "ghost@example.com")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("FindByID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", found.Email)
	})

	t.Run("FindByID unknown", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 9999)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("ExistsByEmail", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "ghost@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestUsersRepositoryUniqueness(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedUser(t, repo, "ada@example.com")

	t.Run("duplicate email is rejected", func(t *testing.T) {
		_, err := repo.Save(ctx, &auth.User{
			Name:         "Imposter",
			Email:        "ada@example.com",
			Role:         auth.RoleStudent,
			PasswordHash: "plain:other",
			Status:       auth.UserStatusActive,
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, auth.ErrEmailInUse))
	})

	t.Run("soft deleted email can be registered again", func(t *testing.T) {
		original, err := repo.FindByEmail(ctx, "ada@example.com")
		require.NoError(t, err)

		require.NoError(t, repo.SoftDelete(ctx, original.ID))

		// the deleted record is invisible to lookups
		_, err = repo.FindByEmail(ctx, "ada@example.com")
		assert.True(t, errors.IsNotFound(err))

		exists, err := repo.ExistsByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.False(t, exists)

		replacement, err := repo.Save(ctx, &auth.User{
			Name:         "Ada Again",
			Email:        "ada@example.com",
			Role:         auth.RoleInstructor,
			PasswordHash: "plain:new",
			Status:       auth.UserStatusActive,
		})
		require.NoError(t, err)
		assert.NotEqual(t, original.ID, replacement.ID)
	})
}

func TestUsersRepositoryLoginBookkeeping(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := seedUser(t, repo, "ada@example.com")

	t.Run("TrackAttemptedLogin increments the counter", func(t *testing.T) {
		require.NoError(t, repo.TrackAttemptedLogin(ctx, user))
		require.NoError(t, repo.TrackAttemptedLogin(ctx, user))

		found, err := repo.FindByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, 2, found.LoginAttempts)
		assert.NotNil(t, found.LoginAttemptAt)
	})

	t.Run("UpdateLastLogin records the time and clears the counter", func(t *testing.T) {
		at := time.Now()
		require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))

		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, found.LastLoginAt)
		assert.WithinDuration(t, at, *found.LastLoginAt, time.Second)
		assert.Equal(t, 0, found.LoginAttempts)
		assert.Nil(t, found.LoginAttemptAt)
	})
}

func TestUsersRepositoryUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := seedUser(t, repo, "ada@example.com")
	user.Status = auth.UserStatusSuspended

	updated, err := repo.Save(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, auth.UserStatusSuspended, updated.Status)

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.UserStatusSuspended, found.Status)
}
