package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/stackit/backend/internal/voting"
)

// apiError is the JSON error body every handler writes.
type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e apiError) Error() string {
	return e.Code + ": " + e.Message
}

// toAPIError maps a domain failure onto a stable status and machine code.
// Anything unrecognised is an internal error and its text is not exposed.
func toAPIError(err error) apiError {
	var ae apiError
	switch {
	case errors.As(err, &ae):
		return ae
	case errors.Is(err, voting.ErrNotFound):
		return apiError{Status: http.StatusNotFound, Code: "not_found", Message: err.Error()}
	case errors.Is(err, voting.ErrForbidden):
		return apiError{Status: http.StatusForbidden, Code: "forbidden", Message: err.Error()}
	case errors.Is(err, voting.ErrConflict):
		return apiError{Status: http.StatusConflict, Code: "conflict", Message: err.Error()}
	case errors.Is(err, voting.ErrInvalidArgument):
		return apiError{Status: http.StatusBadRequest, Code: "invalid_argument", Message: err.Error()}
	default:
		return apiError{Status: http.StatusInternalServerError, Code: "internal", Message: "internal server error"}
	}
}

func respondError(c *gin.Context, logger logrus.FieldLogger, err error) {
	ae := toAPIError(err)
	if ae.Status >= http.StatusInternalServerError {
		logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	c.JSON(ae.Status, ae)
}

// badRequest reports a body or parameter that failed binding.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, apiError{Code: "invalid_argument", Message: err.Error()})
}

// paramID parses a positive numeric path parameter, writing a 400 on failure.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, apiError{Code: "invalid_argument", Message: "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// pageParams reads offset and limit query parameters; bad values fall back
// to the repository defaults.
func pageParams(c *gin.Context) (int, int) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return offset, limit
}
