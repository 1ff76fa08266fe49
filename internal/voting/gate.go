package voting

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/stackit/backend/internal/access"
)

// AcceptAnswer marks answerID as its question's accepted answer. Only the
// question's owner may do this; any previously accepted sibling is cleared in
// the same transaction. Accepting the current accepted answer is a no-op.
func (s *Service) AcceptAnswer(ctx context.Context, actorID, answerID uint) (Answer, error) {
	var (
		answer   Answer
		question Question
		changed  bool
	)
	err := s.store.InTx(ctx, func(tx Stores) error {
		var err error
		answer, question, err = ownedAnswer(ctx, tx, actorID, answerID)
		if err != nil {
			return err
		}
		if answer.IsAccepted {
			return nil
		}
		if err := tx.SetAnswerAcceptedExclusive(ctx, question.ID, answer.ID); err != nil {
			return err
		}
		answer.IsAccepted = true
		changed = true
		return nil
	})
	if err != nil {
		return Answer{}, err
	}

	if changed {
		s.logger.WithFields(logrus.Fields{
			"question_id": question.ID,
			"answer_id":   answer.ID,
		}).Info("answer accepted")
		if answer.OwnerID != actorID {
			s.notify(ctx, answer.OwnerID, fmt.Sprintf("Your answer to %q was accepted.", question.Title))
		}
	}
	return answer, nil
}

// RevokeAcceptance clears the accepted flag. Revoking an answer that is not
// accepted is a no-op.
func (s *Service) RevokeAcceptance(ctx context.Context, actorID, answerID uint) (Answer, error) {
	var answer Answer
	err := s.store.InTx(ctx, func(tx Stores) error {
		var err error
		answer, _, err = ownedAnswer(ctx, tx, actorID, answerID)
		if err != nil {
			return err
		}
		if !answer.IsAccepted {
			return nil
		}
		if err := tx.SetAnswerAccepted(ctx, answer.ID, false); err != nil {
			return err
		}
		answer.IsAccepted = false
		return nil
	})
	if err != nil {
		return Answer{}, err
	}
	return answer, nil
}

// ownedAnswer loads the answer and enforces that actorID owns its question.
func ownedAnswer(ctx context.Context, tx Stores, actorID, answerID uint) (Answer, Question, error) {
	if _, err := Authorize(ctx, tx, actorID, access.ActionAccept); err != nil {
		return Answer{}, Question{}, err
	}
	answer, err := tx.GetAnswer(ctx, answerID)
	if err != nil {
		return Answer{}, Question{}, err
	}
	question, err := tx.GetQuestion(ctx, answer.QuestionID)
	if errors.Is(err, ErrNotFound) {
		return Answer{}, Question{}, fmt.Errorf("question %d of answer %d missing: %w", answer.QuestionID, answerID, ErrForbidden)
	}
	if err != nil {
		return Answer{}, Question{}, err
	}
	if question.OwnerID != actorID {
		return Answer{}, Question{}, fmt.Errorf("user %d does not own question %d: %w", actorID, question.ID, ErrForbidden)
	}
	return answer, question, nil
}
