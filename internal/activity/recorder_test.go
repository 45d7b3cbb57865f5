package activity

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/bookmarks/backend/internal/models"
	"github.com/anonto42/bookmarks/backend/internal/repositories"
	"github.com/anonto42/bookmarks/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderAppendsEveryTimeByDefault(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	r := NewRecorder(repositories.NewPostgresActionRepository(db), 0)
	alice := testhelpers.CreateUser(t, db, "alice", true)
	bob := testhelpers.CreateUser(t, db, "bob", true)
	target := &models.Target{Kind: models.TargetUser, ID: bob.ID}

	for i := 0; i < 2; i++ {
		created, err := r.Log(context.Background(), alice.ID, VerbFollowing, target)
		require.NoError(t, err)
		assert.True(t, created)
	}

	var actions []models.Action
	require.NoError(t, db.Where("user_id = ?", alice.ID).Find(&actions).Error)
	require.Len(t, actions, 2)
	got, ok := actions[0].Target()
	require.True(t, ok)
	assert.Equal(t, *target, got)
}

func TestRecorderDedupeWindow(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	r := NewRecorder(repositories.NewPostgresActionRepository(db), time.Minute)
	alice := testhelpers.CreateUser(t, db, "alice", true)
	bob := testhelpers.CreateUser(t, db, "bob", true)
	target := &models.Target{Kind: models.TargetUser, ID: bob.ID}

	now := time.Now()
	r.now = func() time.Time { return now }

	created, err := r.Log(context.Background(), alice.ID, VerbFollowing, target)
	require.NoError(t, err)
	assert.True(t, created)

	r.now = func() time.Time { return now.Add(30 * time.Second) }
	created, err = r.Log(context.Background(), alice.ID, VerbFollowing, target)
	require.NoError(t, err)
	assert.False(t, created)

	// a different verb is not a duplicate
	created, err = r.Log(context.Background(), alice.ID, VerbCreatedAccount, nil)
	require.NoError(t, err)
	assert.True(t, created)

	r.now = func() time.Time { return now.Add(2 * time.Minute) }
	created, err = r.Log(context.Background(), alice.ID, VerbFollowing, target)
	require.NoError(t, err)
	assert.True(t, created)
}
