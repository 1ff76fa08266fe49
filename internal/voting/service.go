package voting

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/stackit/backend/internal/access"
)

const defaultMaxAttempts = 5

type Service struct {
	store       Store
	notifier    Notifier
	logger      logrus.FieldLogger
	maxAttempts int
}

type Option func(*Service)

// WithMaxAttempts bounds how often a transition is re-run after losing a race.
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// NewService wires the ledger and the gate. notifier may be nil.
func NewService(store Store, notifier Notifier, logger logrus.FieldLogger, opts ...Option) *Service {
	s := &Service{
		store:       store,
		notifier:    notifier,
		logger:      logger,
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authorize loads the actor and applies the shared capability predicate.
func Authorize(ctx context.Context, ids IdentityStore, actorID uint, action access.Action) (access.Actor, error) {
	actor, err := ids.GetActor(ctx, actorID)
	if err != nil {
		return access.Actor{}, err
	}
	if err := access.Check(actor, action); err != nil {
		return access.Actor{}, fmt.Errorf("user %d cannot %s: %v: %w", actorID, action, err, ErrForbidden)
	}
	return actor, nil
}

// notify is fire-and-forget: the mutation is already committed.
func (s *Service) notify(ctx context.Context, userID uint, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Emit(ctx, userID, message); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("notification failed")
	}
}

func isRetryable(err error) bool {
	return errors.Is(err, errStale) || errors.Is(err, ErrConflict)
}
