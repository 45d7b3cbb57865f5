package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/bookmarks/backend/internal/models"
	"gorm.io/gorm"
)

// ContactRepository defines the interface for follow edge operations
type ContactRepository interface {
	GetOrCreate(ctx context.Context, fromID, toID uint) (*models.Contact, bool, error)
	Delete(ctx context.Context, fromID, toID uint) error
	Exists(ctx context.Context, fromID, toID uint) (bool, error)
	FollowingIDs(ctx context.Context, userID uint) ([]uint, error)
	FollowersCount(ctx context.Context, userID uint) (int64, error)
	FollowingCount(ctx context.Context, userID uint) (int64, error)
}

// PostgresContactRepository implements ContactRepository for PostgreSQL
type PostgresContactRepository struct {
	db *gorm.DB
}

// NewPostgresContactRepository creates a new PostgresContactRepository
func NewPostgresContactRepository(db *gorm.DB) *PostgresContactRepository {
	return &PostgresContactRepository{db: db}
}

// GetOrCreate returns the fromID->toID edge, creating it when absent. The
// boolean reports whether this call created it. A concurrent insert of the
// same pair loses on the unique index and is answered with the winner's row.
func (r *PostgresContactRepository) GetOrCreate(ctx context.Context, fromID, toID uint) (*models.Contact, bool, error) {
	contact, err := r.find(ctx, fromID, toID)
	if err == nil {
		return contact, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	contact = &models.Contact{UserFromID: fromID, UserToID: toID}
	if err := r.db.WithContext(ctx).Create(contact).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, findErr := r.find(ctx, fromID, toID)
			if findErr != nil {
				return nil, false, findErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return contact, true, nil
}

func (r *PostgresContactRepository) find(ctx context.Context, fromID, toID uint) (*models.Contact, error) {
	var contact models.Contact
	err := r.db.WithContext(ctx).
		Where("user_from_id = ? AND user_to_id = ?", fromID, toID).
		First(&contact).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// Delete removes the edge if present. Deleting a missing edge is not an error.
func (r *PostgresContactRepository) Delete(ctx context.Context, fromID, toID uint) error {
	return r.db.WithContext(ctx).
		Where("user_from_id = ? AND user_to_id = ?", fromID, toID).
		Delete(&models.Contact{}).Error
}

func (r *PostgresContactRepository) Exists(ctx context.Context, fromID, toID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Contact{}).
		Where("user_from_id = ? AND user_to_id = ?", fromID, toID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FollowingIDs returns the ids of the users userID follows
func (r *PostgresContactRepository) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Contact{}).Where("user_from_id = ?", userID).Pluck("user_to_id", &ids).Error
	return ids, err
}

func (r *PostgresContactRepository) FollowersCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Contact{}).Where("user_to_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresContactRepository) FollowingCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Contact{}).Where("user_from_id = ?", userID).Count(&count).Error
	return count, err
}
