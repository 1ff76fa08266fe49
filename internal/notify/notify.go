// Package notify delivers user notifications. Every sink satisfies
// voting.Notifier; Fanout combines them.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/voting"
)

// Recorder persists notifications; repository.Store implements it.
type Recorder interface {
	CreateNotification(ctx context.Context, userID uint, message string) (*models.Notification, error)
}

// DBEmitter stores each notification so the user can list it later.
type DBEmitter struct {
	recorder Recorder
}

func NewDBEmitter(recorder Recorder) *DBEmitter {
	return &DBEmitter{recorder: recorder}
}

func (e *DBEmitter) Emit(ctx context.Context, userID uint, message string) error {
	if _, err := e.recorder.CreateNotification(ctx, userID, message); err != nil {
		return fmt.Errorf("store notification for user %d: %w", userID, err)
	}
	return nil
}

// Fanout emits to every sink. One failing sink does not stop the others.
type Fanout struct {
	sinks  []voting.Notifier
	logger logrus.FieldLogger
}

func NewFanout(logger logrus.FieldLogger, sinks ...voting.Notifier) *Fanout {
	return &Fanout{sinks: sinks, logger: logger}
}

func (f *Fanout) Emit(ctx context.Context, userID uint, message string) error {
	var errs []error
	for _, sink := range f.sinks {
		if err := sink.Emit(ctx, userID, message); err != nil {
			f.logger.WithError(err).WithField("sink", fmt.Sprintf("%T", sink)).Warn("notification sink failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
