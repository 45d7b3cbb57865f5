package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/anonto42/bookmarks/backend/internal/models"
	"github.com/anonto42/bookmarks/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateUserCreatesProfile(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewPostgresUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "alice", Email: "alice@example.com", Password: "x", IsActive: true, Profile: &models.Profile{}}
	require.NoError(t, repo.CreateUser(ctx, user))
	require.NotZero(t, user.ID)

	loaded, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Profile)
	assert.Equal(t, user.ID, loaded.Profile.UserID)
}

func TestDuplicateUsernameIsRejected(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewPostgresUserRepository(db)
	testhelpers.CreateUser(t, db, "alice", true)

	err := repo.CreateUser(context.Background(), &models.User{Username: "alice", Profile: &models.Profile{}})
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got %v", err)
}

func TestActiveUserLookups(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewPostgresUserRepository(db)
	ctx := context.Background()
	testhelpers.CreateUser(t, db, "alice", true)
	testhelpers.CreateUser(t, db, "bob", false)

	users, err := repo.GetActiveUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)

	_, err = repo.GetActiveUserByUsername(ctx, "bob")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	bob, err := repo.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, bob.IsActive)
}

func TestGetUsersByIDs(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewPostgresUserRepository(db)
	ctx := context.Background()
	a := testhelpers.CreateUser(t, db, "alice", true)
	b := testhelpers.CreateUser(t, db, "bob", true)

	users, err := repo.GetUsersByIDs(ctx, []uint{a.ID, b.ID, 999})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.NotNil(t, u.Profile)
	}

	none, err := repo.GetUsersByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetUserByEmailIgnoresCase(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewPostgresUserRepository(db)
	testhelpers.CreateUser(t, db, "alice", true)

	user, err := repo.GetUserByEmail(context.Background(), "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}
