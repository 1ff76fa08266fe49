package database

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emilythestrangee/stackit/backend/internal/config"
	"github.com/emilythestrangee/stackit/backend/internal/logging"
	"github.com/emilythestrangee/stackit/backend/internal/models"
)

func newSQLiteService(t *testing.T) Service {
	t.Helper()
	logger := logging.NewWithOutput(&bytes.Buffer{}, "warn", "text")
	svc, err := New(config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func seedAnswer(t *testing.T, db *gorm.DB) (models.User, models.Question, models.Answer) {
	t.Helper()
	user := models.User{Username: "u", Email: "u@example.com", HashedPassword: "x", Role: models.RoleUser, IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	question := models.Question{Title: "t", Description: "d", OwnerID: user.ID}
	require.NoError(t, db.Create(&question).Error)
	answer := models.Answer{Content: "a", QuestionID: question.ID, OwnerID: user.ID}
	require.NoError(t, db.Create(&answer).Error)
	return user, question, answer
}

func TestHealth(t *testing.T) {
	svc := newSQLiteService(t)
	stats := svc.Health()
	assert.Equal(t, "up", stats["status"])
	assert.Contains(t, stats, "open_connections")
}

func TestVoteTypeCheckConstraint(t *testing.T) {
	db := newSQLiteService(t).GetDB()
	user, _, answer := seedAnswer(t, db)

	err := db.Create(&models.Vote{UserID: user.ID, AnswerID: answer.ID, VoteType: 2}).Error
	assert.Error(t, err)

	require.NoError(t, db.Create(&models.Vote{UserID: user.ID, AnswerID: answer.ID, VoteType: -1}).Error)
}

func TestVotePrimaryKeyIsUnique(t *testing.T) {
	db := newSQLiteService(t).GetDB()
	user, _, answer := seedAnswer(t, db)

	require.NoError(t, db.Create(&models.Vote{UserID: user.ID, AnswerID: answer.ID, VoteType: 1}).Error)
	err := db.Create(&models.Vote{UserID: user.ID, AnswerID: answer.ID, VoteType: 1}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestOneAcceptedAnswerPerQuestion(t *testing.T) {
	db := newSQLiteService(t).GetDB()
	user, question, first := seedAnswer(t, db)
	second := models.Answer{Content: "b", QuestionID: question.ID, OwnerID: user.ID}
	require.NoError(t, db.Create(&second).Error)

	require.NoError(t, db.Model(&first).Update("is_accepted", true).Error)
	err := db.Model(&second).Update("is_accepted", true).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestVotesCascadeWithAnswer(t *testing.T) {
	db := newSQLiteService(t).GetDB()
	user, _, answer := seedAnswer(t, db)
	require.NoError(t, db.Create(&models.Vote{UserID: user.ID, AnswerID: answer.ID, VoteType: 1}).Error)

	require.NoError(t, db.Delete(&answer).Error)

	var count int64
	require.NoError(t, db.Model(&models.Vote{}).Count(&count).Error)
	assert.Zero(t, count)
}
