package activity

import (
	"context"
	"time"

	"github.com/anonto42/bookmarks/backend/internal/models"
	"github.com/anonto42/bookmarks/backend/internal/repositories"
)

// Verbs recorded by the account handlers
const (
	VerbCreatedAccount = "has created an account"
	VerbFollowing      = "is following"
)

// Recorder appends actions to the activity log
type Recorder struct {
	actions repositories.ActionRepository
	window  time.Duration
	now     func() time.Time
}

// NewRecorder creates a Recorder. With a positive window, an action identical
// to one logged within the window is not appended again.
func NewRecorder(actions repositories.ActionRepository, window time.Duration) *Recorder {
	return &Recorder{actions: actions, window: window, now: time.Now}
}

// Log appends actorID performed verb on target (nil for none) and reports
// whether an action was appended.
func (r *Recorder) Log(ctx context.Context, actorID uint, verb string, target *models.Target) (bool, error) {
	now := r.now()
	if r.window > 0 {
		exists, err := r.actions.ExistsSince(ctx, actorID, verb, target, now.Add(-r.window))
		if err != nil {
			return false, err
		}
		if exists {
			return false, nil
		}
	}

	action := &models.Action{UserID: actorID, Verb: verb, CreatedAt: now}
	action.SetTarget(target)
	if err := r.actions.CreateAction(ctx, action); err != nil {
		return false, err
	}
	return true, nil
}
