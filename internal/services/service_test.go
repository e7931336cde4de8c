package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"askme/internal/models"
	"askme/internal/utils"
)

// openTestDB spins up an in-memory SQLite database with the forum
// schema. One connection only so every query sees the same database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	g, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := g.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, g.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Question{},
		&models.Answer{},
		&models.QuestionVote{},
		&models.AnswerVote{},
	))
	return g
}

func createTestUser(t *testing.T, g *gorm.DB, name string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)
	user := models.User{
		Username: name,
		Email:    name + "@example.com",
		Password: hash,
		Avatar:   "🦊",
	}
	require.NoError(t, g.Create(&user).Error)
	return &user
}

func createTestQuestion(t *testing.T, g *gorm.DB, author *models.User, title string, createdAt time.Time) *models.Question {
	t.Helper()
	question := models.Question{
		AuthorID:  author.ID,
		Title:     title,
		Text:      "some question text",
		CreatedAt: createdAt,
	}
	require.NoError(t, g.Create(&question).Error)
	return &question
}

func createTestAnswer(t *testing.T, g *gorm.DB, question *models.Question, author *models.User, text string) *models.Answer {
	t.Helper()
	answer := models.Answer{
		QuestionID: question.ID,
		AuthorID:   author.ID,
		Text:       text,
	}
	require.NoError(t, g.Create(&answer).Error)
	return &answer
}
