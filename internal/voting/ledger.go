package voting

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/stackit/backend/internal/access"
)

// Transition is the ledger state machine: no vote becomes a vote, the same
// direction toggles off, the opposite direction flips.
func Transition(current, requested Direction) (Direction, Outcome) {
	switch current {
	case None:
		return requested, OutcomeCast
	case requested:
		return None, OutcomeRemoved
	default:
		return requested, OutcomeUpdated
	}
}

type VoteResult struct {
	Outcome   Outcome
	Direction Direction // None after a toggle-off
	Score     int64
}

// CastVote applies one vote transition for (actorID, answerID) atomically.
func (s *Service) CastVote(ctx context.Context, actorID, answerID uint, direction Direction) (VoteResult, error) {
	if !direction.Valid() {
		return VoteResult{}, fmt.Errorf("vote type %d: %w", direction, ErrInvalidArgument)
	}

	var (
		result VoteResult
		answer Answer
		err    error
	)
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return VoteResult{}, err
		}
		err = s.store.InTx(ctx, func(tx Stores) error {
			var txErr error
			answer, result, txErr = castVote(ctx, tx, actorID, answerID, direction)
			return txErr
		})
		if !isRetryable(err) {
			break
		}
		s.logger.WithFields(logrus.Fields{
			"user_id":   actorID,
			"answer_id": answerID,
			"attempt":   attempt,
		}).Debug("vote lost a race, retrying")
	}
	if isRetryable(err) {
		return VoteResult{}, fmt.Errorf("vote on answer %d: %w", answerID, ErrConflict)
	}
	if err != nil {
		return VoteResult{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":   actorID,
		"answer_id": answerID,
		"outcome":   result.Outcome,
	}).Info("vote processed")

	if result.Outcome != OutcomeRemoved && answer.OwnerID != actorID {
		s.notify(ctx, answer.OwnerID, voteMessage(answer.ID, result.Direction))
	}
	return result, nil
}

func castVote(ctx context.Context, tx Stores, actorID, answerID uint, direction Direction) (Answer, VoteResult, error) {
	if _, err := Authorize(ctx, tx, actorID, access.ActionVote); err != nil {
		return Answer{}, VoteResult{}, err
	}
	answer, err := tx.GetAnswer(ctx, answerID)
	if err != nil {
		return Answer{}, VoteResult{}, err
	}

	current, err := tx.GetVote(ctx, actorID, answerID)
	if err != nil {
		return Answer{}, VoteResult{}, err
	}
	next, outcome := Transition(current, direction)

	var applied bool
	if next == None {
		applied, err = tx.DeleteVote(ctx, actorID, answerID, current)
	} else {
		applied, err = tx.UpsertVote(ctx, actorID, answerID, current, next)
	}
	if err != nil {
		return Answer{}, VoteResult{}, err
	}
	if !applied {
		return Answer{}, VoteResult{}, errStale
	}

	score, err := tx.Score(ctx, answerID)
	if err != nil {
		return Answer{}, VoteResult{}, err
	}
	return answer, VoteResult{Outcome: outcome, Direction: next, Score: score}, nil
}

// Score is the derived sum of all vote directions on an answer.
func (s *Service) Score(ctx context.Context, answerID uint) (int64, error) {
	if _, err := s.store.GetAnswer(ctx, answerID); err != nil {
		return 0, err
	}
	return s.store.Score(ctx, answerID)
}

func voteMessage(answerID uint, d Direction) string {
	if d == Up {
		return fmt.Sprintf("Your answer #%d received an upvote.", answerID)
	}
	return fmt.Sprintf("Your answer #%d received a downvote.", answerID)
}
