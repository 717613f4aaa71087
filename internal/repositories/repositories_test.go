package repositories

import (
	"fmt"
	"testing"

	"github.com/scribely/backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T, cfg *gorm.Config) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	require.NoError(t, err, "failed to open sqlite db")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A pooled second connection would see a different in-memory database
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Favorite{},
		&models.Notification{},
	)
	require.NoError(t, err, "failed to migrate models")

	return db
}

// setupTestDB opens a fresh in-memory SQLite database with all models migrated
func setupTestDB(t *testing.T) *gorm.DB {
	return openTestDB(t, &gorm.Config{TranslateError: true})
}

// setupRacyTestDB opens a database without gorm's per-statement transaction
// wrapper, so a row injected from a create callback survives the failed
// insert it conflicts with.
func setupRacyTestDB(t *testing.T) *gorm.DB {
	return openTestDB(t, &gorm.Config{TranslateError: true, SkipDefaultTransaction: true})
}

// injectRowBeforeCreate registers a one-shot callback that runs the given SQL
// right before the next insert into table, standing in for a concurrent
// writer that wins the race between lookup and insert.
func injectRowBeforeCreate(t *testing.T, db *gorm.DB, table, sql string, args ...interface{}) {
	t.Helper()
	fired := false
	err := db.Callback().Create().Before("gorm:create").Register("test_inject_"+table, func(tx *gorm.DB) {
		if fired || tx.Statement.Table != table {
			return
		}
		fired = true
		if err := tx.Session(&gorm.Session{NewDB: true}).Exec(sql, args...).Error; err != nil {
			t.Errorf("conflicting insert failed: %v", err)
		}
	})
	require.NoError(t, err)
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: fmt.Sprintf("%s@example.com", name)}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, authorID uint, title string) *models.Post {
	t.Helper()
	post := &models.Post{AuthorID: authorID, Title: title, Body: "body of " + title}
	require.NoError(t, db.Create(post).Error)
	return post
}

func newFavoriteRepo(db *gorm.DB) *PostgresFavoriteRepository {
	return NewPostgresFavoriteRepository(db, NewGormEntityChecker(db))
}

func countFavorites(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Favorite{}).Count(&count).Error)
	return count
}
