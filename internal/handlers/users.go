package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/stackit/backend/internal/middleware"
	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/repository"
)

type UserHandler struct {
	store  *repository.Store
	logger logrus.FieldLogger
}

func NewUserHandler(store *repository.Store, logger logrus.FieldLogger) *UserHandler {
	return &UserHandler{store: store, logger: logger}
}

// GetMe returns the authenticated user's profile
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	user, err := h.store.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user.Response())
}

// GetUserProfile returns a user's profile
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	user, err := h.store.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user.Response())
}

// GetNotifications returns the caller's unread notifications, newest first.
func (h *UserHandler) GetNotifications(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	notifications, err := h.store.UnreadNotifications(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead flags one of the caller's notifications as read.
// Someone else's notification is reported as missing.
func (h *UserHandler) MarkNotificationRead(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	notification, err := h.store.MarkNotificationRead(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, notification)
}

// ListUsers is the admin view of every account.
func (h *UserHandler) ListUsers(c *gin.Context) {
	offset, limit := pageParams(c)
	users, err := h.store.ListUsers(c.Request.Context(), offset, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	responses := make([]models.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.Response())
	}
	c.JSON(http.StatusOK, responses)
}
