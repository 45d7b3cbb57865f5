// Package testhelpers provides fixtures shared by package tests.
package testhelpers

import (
	"testing"
	"time"

	"github.com/anonto42/bookmarks/backend/internal/models"
	"github.com/anonto42/bookmarks/backend/pkg/config"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Password is the plaintext password of users made by CreateUser
const Password = "correct-horse"

// SetupTestDB opens a migrated in-memory SQLite database private to t
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

// CreateUser inserts a user with an empty profile and Password as password
func CreateUser(t *testing.T, db *gorm.DB, username string, active bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		IsActive: active,
		Profile:  &models.Profile{},
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateAction inserts an action at the given time
func CreateAction(t *testing.T, db *gorm.DB, userID uint, verb string, target *models.Target, at time.Time) *models.Action {
	t.Helper()

	action := &models.Action{UserID: userID, Verb: verb, CreatedAt: at}
	action.SetTarget(target)
	require.NoError(t, db.Create(action).Error)
	return action
}
