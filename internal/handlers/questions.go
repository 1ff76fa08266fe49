package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/stackit/backend/internal/access"
	"github.com/emilythestrangee/stackit/backend/internal/middleware"
	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/repository"
	"github.com/emilythestrangee/stackit/backend/internal/voting"
)

type QuestionHandler struct {
	store  *repository.Store
	logger logrus.FieldLogger
}

func NewQuestionHandler(store *repository.Store, logger logrus.FieldLogger) *QuestionHandler {
	return &QuestionHandler{store: store, logger: logger}
}

// CreateQuestion stores a question owned by the caller.
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var input models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := voting.Authorize(ctx, h.store, userID, access.ActionAsk); err != nil {
		respondError(c, h.logger, err)
		return
	}

	question, err := h.store.CreateQuestion(ctx, userID, input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

// GetQuestions returns a page of questions, newest first.
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	offset, limit := pageParams(c)
	questions, err := h.store.ListQuestions(c.Request.Context(), offset, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}
	c.JSON(http.StatusOK, questions)
}

// GetQuestion returns a single question by ID
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	question, err := h.store.GetQuestionDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, question)
}
