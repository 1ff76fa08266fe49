// Package testutil builds throwaway databases and fixtures for tests.
package testutil

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/emilythestrangee/stackit/backend/internal/auth"
	"github.com/emilythestrangee/stackit/backend/internal/database"
	"github.com/emilythestrangee/stackit/backend/internal/logging"
	"github.com/emilythestrangee/stackit/backend/internal/models"
)

// TestSecret signs tokens in tests.
const TestSecret = "test-secret"

// SetupTestDB returns a migrated in-memory SQLite database private to t.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "_" + uuid.NewString()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	logger := logging.NewWithOutput(&bytes.Buffer{}, "error", "text")
	db, err := database.Open(sqlite.Open(dsn), logger)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateTestUser inserts an active user with password "password123".
func CreateTestUser(t *testing.T, db *gorm.DB, username, role string) models.User {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	user := models.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: hash,
		Role:           role,
		IsActive:       true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func DeactivateUser(t *testing.T, db *gorm.DB, id uint) {
	t.Helper()
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", id).Update("is_active", false).Error)
}

func CreateTestQuestion(t *testing.T, db *gorm.DB, ownerID uint, title string) models.Question {
	t.Helper()
	q := models.Question{Title: title, Description: "details for " + title, OwnerID: ownerID}
	require.NoError(t, db.Omit("Owner", "Tags").Create(&q).Error)
	return q
}

func CreateTestAnswer(t *testing.T, db *gorm.DB, questionID, ownerID uint) models.Answer {
	t.Helper()
	a := models.Answer{Content: "an answer", QuestionID: questionID, OwnerID: ownerID}
	require.NoError(t, db.Omit("Owner", "Question").Create(&a).Error)
	return a
}

// TokenFor issues a bearer token for user signed with TestSecret.
func TokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := auth.IssueToken([]byte(TestSecret), user.ID, user.Username, user.Role, auth.DefaultTTL)
	require.NoError(t, err)
	return token
}
