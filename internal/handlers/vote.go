package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"askme/internal/middleware"
	"askme/internal/models"
	"askme/internal/services"
	"askme/internal/utils"
)

// VoteHandler serves the JSON endpoints the question/answer pages call
// via fetch: vote toggling and marking an answer correct.
type VoteHandler struct {
	votes   *services.VoteService
	answers *services.AnswerService
}

func NewVoteHandler(db *gorm.DB) *VoteHandler {
	return &VoteHandler{
		votes:   services.NewVoteService(db),
		answers: services.NewAnswerService(db),
	}
}

func currentUser(c *gin.Context) *models.User {
	user := c.MustGet(middleware.CheckUserKey)
	return user.(*models.User)
}

func idParam(c *gin.Context) (uint, bool) {
	id := utils.StringToInt(c.Param("id"))
	if id < 1 {
		return 0, false
	}
	return uint(id), true
}

// ToggleQuestionVote handles POST /question/:id/like
func (h *VoteHandler) ToggleQuestionVote(c *gin.Context) {
	user := currentUser(c)
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
		return
	}

	rating, err := h.votes.ToggleQuestionVote(id, user.ID, c.PostForm("action"))
	if err != nil {
		JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"likes_count":    rating.Likes,
		"dislikes_count": rating.Dislikes,
	})
}

// ToggleAnswerVote handles POST /answer/:id/like
func (h *VoteHandler) ToggleAnswerVote(c *gin.Context) {
	user := currentUser(c)
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "answer not found"})
		return
	}

	rating, err := h.votes.ToggleAnswerVote(id, user.ID, c.PostForm("action"))
	if err != nil {
		JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"likes_count":    rating.Likes,
		"dislikes_count": rating.Dislikes,
	})
}

// MarkCorrect handles POST /answer/:id/mark_correct
func (h *VoteHandler) MarkCorrect(c *gin.Context) {
	user := currentUser(c)
	answerID, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "answer not found"})
		return
	}

	questionID := utils.StringToInt(c.PostForm("question"))
	if questionID < 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
		return
	}
	desired := strings.EqualFold(c.PostForm("is_correct"), "true")

	isCorrect, err := h.answers.MarkCorrect(uint(questionID), answerID, user.ID, desired)
	if err != nil {
		JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_correct": isCorrect})
}
