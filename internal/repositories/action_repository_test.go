package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/bookmarks/backend/internal/models"
	"github.com/anonto42/bookmarks/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionCreateAssignsID(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewPostgresActionRepository(db)
	a := testhelpers.CreateUser(t, db, "alice", true)

	action := &models.Action{UserID: a.ID, Verb: "has created an account"}
	require.NoError(t, repo.CreateAction(context.Background(), action))
	assert.NotEmpty(t, action.ID)
	assert.False(t, action.CreatedAt.IsZero())

	_, ok := action.Target()
	assert.False(t, ok)
}

func TestActionRecentFilters(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewPostgresActionRepository(db)
	ctx := context.Background()
	a := testhelpers.CreateUser(t, db, "alice", true)
	b := testhelpers.CreateUser(t, db, "bob", true)
	c := testhelpers.CreateUser(t, db, "carol", true)

	base := time.Now().Add(-time.Hour)
	testhelpers.CreateAction(t, db, a.ID, "a1", nil, base)
	testhelpers.CreateAction(t, db, b.ID, "b1", nil, base.Add(time.Minute))
	testhelpers.CreateAction(t, db, c.ID, "c1", nil, base.Add(2*time.Minute))
	testhelpers.CreateAction(t, db, b.ID, "b2", &models.Target{Kind: models.TargetUser, ID: c.ID}, base.Add(3*time.Minute))

	all, err := repo.Recent(ctx, ActionFilter{ExcludeUserID: a.ID, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"b2", "c1", "b1"}, verbs(all))

	onlyB, err := repo.Recent(ctx, ActionFilter{ExcludeUserID: a.ID, UserIDs: []uint{b.ID}, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"b2", "b1"}, verbs(onlyB))

	target, ok := onlyB[0].Target()
	require.True(t, ok)
	assert.Equal(t, models.Target{Kind: models.TargetUser, ID: c.ID}, target)

	limited, err := repo.Recent(ctx, ActionFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"b2", "c1"}, verbs(limited))
}

func TestActionExistsSince(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewPostgresActionRepository(db)
	ctx := context.Background()
	a := testhelpers.CreateUser(t, db, "alice", true)
	b := testhelpers.CreateUser(t, db, "bob", true)

	target := &models.Target{Kind: models.TargetUser, ID: b.ID}
	now := time.Now()
	testhelpers.CreateAction(t, db, a.ID, "is following", target, now.Add(-30*time.Second))

	exists, err := repo.ExistsSince(ctx, a.ID, "is following", target, now.Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsSince(ctx, a.ID, "is following", target, now.Add(-10*time.Second))
	require.NoError(t, err)
	assert.False(t, exists)

	other := &models.Target{Kind: models.TargetUser, ID: a.ID}
	exists, err = repo.ExistsSince(ctx, a.ID, "is following", other, now.Add(-time.Minute))
	require.NoError(t, err)
	assert.False(t, exists)
}

func verbs(actions []models.Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.Verb
	}
	return out
}
