package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/bookmarks/backend/internal/models"
	"github.com/anonto42/bookmarks/backend/internal/repositories"
)

// FeedSize caps the number of entries on the dashboard
const FeedSize = 10

// Entry is an action annotated with its actor and resolved target
type Entry struct {
	ID        string        `json:"id"`
	Verb      string        `json:"verb"`
	CreatedAt time.Time     `json:"created_at"`
	User      *models.User  `json:"user"`
	Target    *TargetObject `json:"target"`
}

// TargetObject is a resolved target. Object is nil when the entity is gone or
// its kind has no resolver.
type TargetObject struct {
	models.Target
	Object any `json:"object"`
}

// Feed assembles dashboards
type Feed struct {
	actions  repositories.ActionRepository
	contacts repositories.ContactRepository
	users    repositories.UserRepository
	targets  *Registry
}

func NewFeed(actions repositories.ActionRepository, contacts repositories.ContactRepository, users repositories.UserRepository, targets *Registry) *Feed {
	return &Feed{actions: actions, contacts: contacts, users: users, targets: targets}
}

// ForUser returns the newest actions of the users userID follows. When userID
// follows nobody it falls back to the newest actions of everyone else; the
// requester's own actions are excluded in both cases.
func (f *Feed) ForUser(ctx context.Context, userID uint) ([]Entry, error) {
	following, err := f.contacts.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load following set: %w", err)
	}

	filter := repositories.ActionFilter{ExcludeUserID: userID, Limit: FeedSize}
	if len(following) > 0 {
		filter.UserIDs = following
	}
	actions, err := f.actions.Recent(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load actions: %w", err)
	}
	return f.annotate(ctx, actions)
}

func (f *Feed) annotate(ctx context.Context, actions []models.Action) ([]Entry, error) {
	actorIDs := make([]uint, 0, len(actions))
	targets := make([]models.Target, 0, len(actions))
	for _, a := range actions {
		actorIDs = append(actorIDs, a.UserID)
		if t, ok := a.Target(); ok {
			targets = append(targets, t)
		}
	}

	actors, err := f.users.GetUsersByIDs(ctx, dedupe(actorIDs))
	if err != nil {
		return nil, fmt.Errorf("load actors: %w", err)
	}
	actorByID := make(map[uint]*models.User, len(actors))
	for i := range actors {
		actorByID[actors[i].ID] = &actors[i]
	}

	resolved, err := f.targets.Resolve(ctx, targets)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(actions))
	for _, a := range actions {
		entry := Entry{
			ID:        a.ID,
			Verb:      a.Verb,
			CreatedAt: a.CreatedAt,
			User:      actorByID[a.UserID],
		}
		if t, ok := a.Target(); ok {
			entry.Target = &TargetObject{Target: t, Object: resolved[t]}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
