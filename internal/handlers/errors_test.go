package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/voting"
)

func TestToAPIError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{err: fmt.Errorf("answer 3: %w", voting.ErrNotFound), status: http.StatusNotFound, code: "not_found"},
		{err: fmt.Errorf("user 2: %w", voting.ErrForbidden), status: http.StatusForbidden, code: "forbidden"},
		{err: fmt.Errorf("vote: %w", voting.ErrConflict), status: http.StatusConflict, code: "conflict"},
		{err: fmt.Errorf("type 7: %w", voting.ErrInvalidArgument), status: http.StatusBadRequest, code: "invalid_argument"},
		{err: errors.New("disk on fire"), status: http.StatusInternalServerError, code: "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			got := toAPIError(tc.err)
			assert.Equal(t, tc.status, got.Status)
			assert.Equal(t, tc.code, got.Code)
		})
	}

	assert.NotContains(t, toAPIError(errors.New("disk on fire")).Message, "disk")
}

func TestVoteDirectionValidator(t *testing.T) {
	require.NoError(t, RegisterValidators())

	for _, v := range []int{1, -1} {
		assert.NoError(t, binding.Validator.ValidateStruct(models.VoteRequest{Type: v}))
	}
	for _, v := range []int{0, 2, -2} {
		assert.Error(t, binding.Validator.ValidateStruct(models.VoteRequest{Type: v}))
	}
}
