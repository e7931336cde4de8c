package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"askme/internal/models"
	"askme/internal/services"
	"askme/internal/utils"
)

type QuestionHandler struct {
	questions *services.QuestionService
	answers   *services.AnswerService
}

func NewQuestionHandler(db *gorm.DB) *QuestionHandler {
	return &QuestionHandler{
		questions: services.NewQuestionService(db),
		answers:   services.NewAnswerService(db),
	}
}

// ListNew handles GET / — newest questions.
func (h *QuestionHandler) ListNew(c *gin.Context) {
	page := services.ParsePage(c.Query("page"))

	questions, info, err := h.questions.New(page)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to load questions")
		return
	}

	Render(c, http.StatusOK, "question/list.html", gin.H{
		"Title":     "New Questions",
		"Active":    "new",
		"Questions": questions,
		"PageInfo":  info,
	})
}

// ListHot handles GET /hot — questions by net rating.
func (h *QuestionHandler) ListHot(c *gin.Context) {
	page := services.ParsePage(c.Query("page"))

	questions, info, err := h.questions.Hot(page)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to load questions")
		return
	}

	Render(c, http.StatusOK, "question/list.html", gin.H{
		"Title":     "Hot Questions",
		"Active":    "hot",
		"Questions": questions,
		"PageInfo":  info,
	})
}

// ListByTag handles GET /tag/:name
func (h *QuestionHandler) ListByTag(c *gin.Context) {
	page := services.ParsePage(c.Query("page"))

	questions, tag, info, err := h.questions.ByTag(c.Param("name"), page)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			RenderError(c, http.StatusNotFound, "Tag not found")
			return
		}
		RenderError(c, http.StatusInternalServerError, "Failed to load questions")
		return
	}

	Render(c, http.StatusOK, "question/list.html", gin.H{
		"Title":     "Tag: " + tag.Name,
		"Active":    "tag",
		"Tag":       tag,
		"Questions": questions,
		"PageInfo":  info,
	})
}

type renderedAnswer struct {
	models.Answer
	TextHTML template.HTML
}

// Detail handles GET /question/:id — the question with its paginated
// answer thread.
func (h *QuestionHandler) Detail(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		RenderError(c, http.StatusNotFound, "Question not found")
		return
	}

	question, err := h.questions.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			RenderError(c, http.StatusNotFound, "Question not found")
			return
		}
		RenderError(c, http.StatusInternalServerError, "Failed to load question")
		return
	}

	page := services.ParsePage(c.Query("page"))
	answers, info, err := h.answers.ListForQuestion(id, page)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to load answers")
		return
	}

	rendered := make([]renderedAnswer, len(answers))
	for i, a := range answers {
		rendered[i] = renderedAnswer{
			Answer:   a,
			TextHTML: utils.RenderMarkdown(a.Text),
		}
	}

	Render(c, http.StatusOK, "question/detail.html", gin.H{
		"Title":        question.Title,
		"Question":     question,
		"QuestionText": utils.RenderMarkdown(question.Text),
		"Answers":      rendered,
		"PageInfo":     info,
	})
}

// CreateAnswer handles POST /question/:id — posting to the thread,
// then jumping to the page the new answer landed on.
func (h *QuestionHandler) CreateAnswer(c *gin.Context) {
	user := currentUser(c)
	id, ok := idParam(c)
	if !ok {
		RenderError(c, http.StatusNotFound, "Question not found")
		return
	}

	answer, lastPage, err := h.answers.Create(id, user.ID, c.PostForm("text"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			RenderError(c, http.StatusNotFound, "Question not found")
		case errors.Is(err, services.ErrValidation):
			c.Redirect(http.StatusFound, fmt.Sprintf("/question/%d", id))
		default:
			RenderError(c, http.StatusInternalServerError, "Failed to post answer")
		}
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/question/%d?page=%d#answer-%d", id, lastPage, answer.ID))
}

// ShowAsk handles GET /ask
func (h *QuestionHandler) ShowAsk(c *gin.Context) {
	Render(c, http.StatusOK, "question/ask.html", gin.H{
		"Title": "Ask a Question",
	})
}

// Ask handles POST /ask
func (h *QuestionHandler) Ask(c *gin.Context) {
	user := currentUser(c)

	title := c.PostForm("title")
	text := c.PostForm("text")
	tags := c.PostForm("tags")

	question, err := h.questions.Create(user.ID, title, text, tags)
	if err != nil {
		status := statusFor(err)
		msg := "Failed to create question"
		if errors.Is(err, services.ErrValidation) {
			msg = err.Error()
		}
		Render(c, status, "question/ask.html", gin.H{
			"Title": "Ask a Question",
			"Error": msg,
			"Form":  gin.H{"QTitle": title, "Text": text, "Tags": tags},
		})
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/question/%d", question.ID))
}
