package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/stackit/backend/internal/auth"
	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/repository"
)

type AuthHandler struct {
	store  *repository.Store
	secret []byte
	ttl    time.Duration
	logger logrus.FieldLogger
}

func NewAuthHandler(store *repository.Store, secret []byte, ttl time.Duration, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{store: store, secret: secret, ttl: ttl, logger: logger}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	hashedPassword, err := auth.HashPassword(input.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	user := models.User{
		Username:       input.Username,
		Email:          input.Email,
		HashedPassword: hashedPassword,
		Role:           models.RoleUser,
		IsActive:       true,
	}
	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.WithField("user_id", user.ID).Info("user registered")
	c.JSON(http.StatusCreated, user.Response())
}

// Token exchanges username and password for a bearer token.
func (h *AuthHandler) Token(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBind(&input); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.store.GetUserByUsername(c.Request.Context(), input.Username)
	if err != nil || !auth.CheckPassword(user.HashedPassword, input.Password) {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, apiError{Code: "unauthorized", Message: "Incorrect username or password"})
		return
	}

	token, err := auth.IssueToken(h.secret, user.ID, user.Username, user.Role, h.ttl)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{AccessToken: token, TokenType: "bearer"})
}
