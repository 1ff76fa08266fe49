package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/emilythestrangee/stackit/backend/internal/voting"
)

// RegisterValidators installs the custom binding rules used by request
// models. It must run before the first request is bound.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("vote_direction", func(fl validator.FieldLevel) bool {
		return voting.Direction(fl.Field().Int()).Valid()
	})
}
