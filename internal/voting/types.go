package voting

import (
	"context"
	"fmt"

	"github.com/emilythestrangee/stackit/backend/internal/access"
)

// Direction is a vote's sign. None marks the absence of a vote.
type Direction int

const (
	None Direction = 0
	Up   Direction = 1
	Down Direction = -1
)

func (d Direction) Valid() bool {
	return d == Up || d == Down
}

func ParseDirection(v int) (Direction, error) {
	d := Direction(v)
	if !d.Valid() {
		return None, fmt.Errorf("vote type %d: must be 1 or -1: %w", v, ErrInvalidArgument)
	}
	return d, nil
}

type Outcome string

const (
	OutcomeCast    Outcome = "cast"
	OutcomeUpdated Outcome = "updated"
	OutcomeRemoved Outcome = "removed"
)

type Answer struct {
	ID         uint
	QuestionID uint
	OwnerID    uint
	IsAccepted bool
}

type Question struct {
	ID      uint
	OwnerID uint
	Title   string
}

// IdentityStore resolves actors. Unknown ids return an error wrapping ErrNotFound.
type IdentityStore interface {
	GetActor(ctx context.Context, id uint) (access.Actor, error)
}

// ContentStore reads answers and questions and flips acceptance flags.
// Lookups of unknown ids return an error wrapping ErrNotFound.
type ContentStore interface {
	GetAnswer(ctx context.Context, id uint) (Answer, error)
	GetQuestion(ctx context.Context, id uint) (Question, error)
	SetAnswerAccepted(ctx context.Context, id uint, accepted bool) error
	// SetAnswerAcceptedExclusive marks answerID accepted and clears every other
	// answer of questionID, serialized per question.
	SetAnswerAcceptedExclusive(ctx context.Context, questionID, answerID uint) error
}

// VoteStore holds the ledger rows. The write primitives are compare-and-swap:
// they apply only when the stored direction still equals prev and report
// whether they did.
type VoteStore interface {
	GetVote(ctx context.Context, userID, answerID uint) (Direction, error)
	UpsertVote(ctx context.Context, userID, answerID uint, prev, next Direction) (bool, error)
	DeleteVote(ctx context.Context, userID, answerID uint, prev Direction) (bool, error)
	// Score sums the directions of every vote on answerID.
	Score(ctx context.Context, answerID uint) (int64, error)
}

type Stores interface {
	IdentityStore
	ContentStore
	VoteStore
}

// Store adds a transaction boundary. InTx commits when fn returns nil and
// rolls back otherwise, including on context cancellation.
type Store interface {
	Stores
	InTx(ctx context.Context, fn func(tx Stores) error) error
}

// Notifier delivers a message to a user. Failures are logged by the caller
// and never undo the operation that triggered them.
type Notifier interface {
	Emit(ctx context.Context, userID uint, message string) error
}
