package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/stackit/backend/internal/access"
	"github.com/emilythestrangee/stackit/backend/internal/middleware"
	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/repository"
	"github.com/emilythestrangee/stackit/backend/internal/voting"
)

type AnswerHandler struct {
	store    *repository.Store
	voting   *voting.Service
	notifier voting.Notifier
	logger   logrus.FieldLogger
}

func NewAnswerHandler(store *repository.Store, svc *voting.Service, notifier voting.Notifier, logger logrus.FieldLogger) *AnswerHandler {
	return &AnswerHandler{store: store, voting: svc, notifier: notifier, logger: logger}
}

// CreateAnswer posts an answer and tells the question owner about it.
func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var input models.CreateAnswerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := voting.Authorize(ctx, h.store, userID, access.ActionAnswer); err != nil {
		respondError(c, h.logger, err)
		return
	}
	question, err := h.store.GetQuestion(ctx, input.QuestionID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	answer, err := h.store.CreateAnswer(ctx, userID, input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if h.notifier != nil && question.OwnerID != userID {
		msg := fmt.Sprintf("Your question %q has a new answer.", question.Title)
		if err := h.notifier.Emit(ctx, question.OwnerID, msg); err != nil {
			h.logger.WithError(err).WithField("user_id", question.OwnerID).Warn("notification failed")
		}
	}

	c.JSON(http.StatusCreated, answer.Response(0))
}

// GetAnswers lists a question's answers with their scores.
func (h *AnswerHandler) GetAnswers(c *gin.Context) {
	questionID, ok := paramID(c, "questionID")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.GetQuestion(ctx, questionID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	answers, scores, err := h.store.ListAnswers(ctx, questionID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	responses := make([]models.AnswerResponse, 0, len(answers))
	for _, a := range answers {
		responses = append(responses, a.Response(scores[a.ID]))
	}
	c.JSON(http.StatusOK, responses)
}

// AcceptAnswer lets the question owner mark an answer accepted.
func (h *AnswerHandler) AcceptAnswer(c *gin.Context) {
	h.setAccepted(c, h.voting.AcceptAnswer)
}

// RevokeAcceptance lets the question owner withdraw an acceptance.
func (h *AnswerHandler) RevokeAcceptance(c *gin.Context) {
	h.setAccepted(c, h.voting.RevokeAcceptance)
}

func (h *AnswerHandler) setAccepted(c *gin.Context, op func(ctx context.Context, actorID, answerID uint) (voting.Answer, error)) {
	userID, _ := middleware.UserID(c)
	answerID, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := op(ctx, userID, answerID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.respondAnswer(c, answerID)
}

// VoteAnswer casts, flips or withdraws the caller's vote.
func (h *AnswerHandler) VoteAnswer(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	answerID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input models.VoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	direction, err := voting.ParseDirection(input.Type)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.voting.CastVote(c.Request.Context(), userID, answerID, direction)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, models.VoteResponse{Outcome: string(result.Outcome), Score: result.Score})
}

// GetScore returns the derived score of an answer.
func (h *AnswerHandler) GetScore(c *gin.Context) {
	answerID, ok := paramID(c, "id")
	if !ok {
		return
	}
	score, err := h.voting.Score(c.Request.Context(), answerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer_id": answerID, "score": score})
}

func (h *AnswerHandler) respondAnswer(c *gin.Context, answerID uint) {
	ctx := c.Request.Context()
	answer, err := h.store.GetAnswerModel(ctx, answerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	score, err := h.store.Score(ctx, answerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, answer.Response(score))
}
