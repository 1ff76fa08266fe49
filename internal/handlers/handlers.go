package handlers

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/stackit/backend/internal/repository"
	"github.com/emilythestrangee/stackit/backend/internal/voting"
)

// Handler combines all handler types
type Handler struct {
	Auth     *AuthHandler
	Question *QuestionHandler
	Answer   *AnswerHandler
	User     *UserHandler
}

// Deps are the collaborators shared by every sub-handler.
type Deps struct {
	Store    *repository.Store
	Voting   *voting.Service
	Notifier voting.Notifier
	Secret   []byte
	TokenTTL time.Duration
	Logger   logrus.FieldLogger
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(d Deps) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(d.Store, d.Secret, d.TokenTTL, d.Logger),
		Question: NewQuestionHandler(d.Store, d.Logger),
		Answer:   NewAnswerHandler(d.Store, d.Voting, d.Notifier, d.Logger),
		User:     NewUserHandler(d.Store, d.Logger),
	}
}
