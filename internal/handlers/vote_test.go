package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"askme/internal/middleware"
	"askme/internal/models"
)

func openHandlerTestDB(t *testing.T) *gorm.DB {
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

// newVoteTestRouter mounts the JSON endpoints the way the real router
// does, except the session middleware is replaced by one that injects
// the given user directly.
func newVoteTestRouter(g *gorm.DB, user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.CheckUserKey, user)
		}
		c.Next()
	})

	h := NewVoteHandler(g)
	authed := r.Group("/")
	authed.Use(middleware.AuthRequiredJSON())
	{
		authed.POST("/question/:id/like", h.ToggleQuestionVote)
		authed.POST("/answer/:id/like", h.ToggleAnswerVote)
		authed.POST("/answer/:id/mark_correct", h.MarkCorrect)
	}
	return r
}

func postForm(t *testing.T, r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedThread(t *testing.T, g *gorm.DB) (*models.User, *models.User, *models.Question, *models.Answer) {
	t.Helper()
	author := &models.User{Username: "author", Email: "author@example.com", Password: "x", Avatar: "🦊"}
	require.NoError(t, g.Create(author).Error)
	helper := &models.User{Username: "helper", Email: "helper@example.com", Password: "x", Avatar: "🐸"}
	require.NoError(t, g.Create(helper).Error)

	question := &models.Question{AuthorID: author.ID, Title: "Q", Text: "body"}
	require.NoError(t, g.Create(question).Error)
	answer := &models.Answer{QuestionID: question.ID, AuthorID: helper.ID, Text: "A"}
	require.NoError(t, g.Create(answer).Error)
	return author, helper, question, answer
}

func TestToggleQuestionVoteEndpoint(t *testing.T) {
	g := openHandlerTestDB(t)
	_, helper, question, _ := seedThread(t, g)
	r := newVoteTestRouter(g, helper)

	path := "/question/1/like"
	require.Equal(t, uint(1), question.ID)

	w := postForm(t, r, path, url.Values{"action": {"like"}})
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]int64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body["likes_count"])
	assert.Equal(t, int64(0), body["dislikes_count"])

	// Same action again retracts the vote.
	w = postForm(t, r, path, url.Values{"action": {"like"}})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(0), body["likes_count"])
}

func TestVoteEndpointErrors(t *testing.T) {
	g := openHandlerTestDB(t)
	_, helper, question, _ := seedThread(t, g)

	// Unauthenticated callers get a JSON 403, not a redirect.
	anon := newVoteTestRouter(g, nil)
	w := postForm(t, anon, "/question/1/like", url.Values{"action": {"like"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "authentication required")

	r := newVoteTestRouter(g, helper)

	w = postForm(t, r, "/question/999/like", url.Values{"action": {"like"}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = postForm(t, r, "/question/not-a-number/like", url.Values{"action": {"like"}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Unknown actions are rejected outright.
	for _, action := range []string{"", "smash", "Like"} {
		w = postForm(t, r, "/question/1/like", url.Values{"action": {action}})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "action %q", action)
	}

	var count int64
	require.NoError(t, g.Model(&models.QuestionVote{}).Where("question_id = ?", question.ID).Count(&count).Error)
	assert.Zero(t, count, "failed requests must not record votes")
}

func TestToggleAnswerVoteEndpoint(t *testing.T) {
	g := openHandlerTestDB(t)
	author, _, _, answer := seedThread(t, g)
	r := newVoteTestRouter(g, author)

	w := postForm(t, r, "/answer/1/like", url.Values{"action": {"dislike"}})
	require.Equal(t, uint(1), answer.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]int64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body["dislikes_count"])
}

func TestMarkCorrectEndpoint(t *testing.T) {
	g := openHandlerTestDB(t)
	author, helper, question, answer := seedThread(t, g)

	form := url.Values{"question": {"1"}, "is_correct": {"true"}}
	require.Equal(t, uint(1), question.ID)

	// Only the question's author may mark an answer.
	asHelper := newVoteTestRouter(g, helper)
	w := postForm(t, asHelper, "/answer/1/mark_correct", form)
	assert.Equal(t, http.StatusForbidden, w.Code)

	asAuthor := newVoteTestRouter(g, author)
	w = postForm(t, asAuthor, "/answer/1/mark_correct", form)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body["is_correct"])

	var reloaded models.Answer
	require.NoError(t, g.First(&reloaded, answer.ID).Error)
	assert.True(t, reloaded.IsCorrect)

	// Unmark again.
	w = postForm(t, asAuthor, "/answer/1/mark_correct", url.Values{"question": {"1"}, "is_correct": {"false"}})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body["is_correct"])

	// Missing question field is a not-found.
	w = postForm(t, asAuthor, "/answer/1/mark_correct", url.Values{"is_correct": {"true"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
