package repositories

import (
	"context"
	"time"

	"github.com/anonto42/bookmarks/backend/internal/models"
	"gorm.io/gorm"
)

// ActionFilter selects actions for a feed. A nil UserIDs means any actor.
type ActionFilter struct {
	ExcludeUserID uint
	UserIDs       []uint
	Limit         int
}

// ActionRepository defines the interface for the activity log
type ActionRepository interface {
	CreateAction(ctx context.Context, action *models.Action) error
	ExistsSince(ctx context.Context, userID uint, verb string, target *models.Target, since time.Time) (bool, error)
	Recent(ctx context.Context, filter ActionFilter) ([]models.Action, error)
}

type postgresActionRepository struct {
	db *gorm.DB
}

func NewPostgresActionRepository(db *gorm.DB) ActionRepository {
	return &postgresActionRepository{db: db}
}

func (r *postgresActionRepository) CreateAction(ctx context.Context, action *models.Action) error {
	return r.db.WithContext(ctx).Create(action).Error
}

func (r *postgresActionRepository) ExistsSince(ctx context.Context, userID uint, verb string, target *models.Target, since time.Time) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Action{}).
		Where("user_id = ? AND verb = ? AND created_at >= ?", userID, verb, since)
	if target != nil {
		q = q.Where("target_kind = ? AND target_id = ?", target.Kind, target.ID)
	} else {
		q = q.Where("target_kind = ''")
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Recent returns the newest actions matching filter, newest first
func (r *postgresActionRepository) Recent(ctx context.Context, filter ActionFilter) ([]models.Action, error) {
	q := r.db.WithContext(ctx).Model(&models.Action{})
	if filter.ExcludeUserID != 0 {
		q = q.Where("user_id <> ?", filter.ExcludeUserID)
	}
	if filter.UserIDs != nil {
		q = q.Where("user_id IN ?", filter.UserIDs)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var actions []models.Action
	err := q.Order("created_at DESC").Order("id DESC").Find(&actions).Error
	return actions, err
}
