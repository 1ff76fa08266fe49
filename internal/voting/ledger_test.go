package voting

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/stackit/backend/internal/access"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return logger
}

// fixture: U1 and U2 are users, U9 is inactive, U8 is a guest.
// Question 5 is owned by U2 and has answers 10 (by U1) and 11 (by U3).
func newFixture(t *testing.T) (*memStore, *recordingNotifier, *Service) {
	t.Helper()
	store := newMemStore()
	for _, a := range []access.Actor{
		{ID: 1, Role: access.RoleUser, IsActive: true},
		{ID: 2, Role: access.RoleUser, IsActive: true},
		{ID: 3, Role: access.RoleUser, IsActive: true},
		{ID: 8, Role: access.RoleGuest, IsActive: true},
		{ID: 9, Role: access.RoleUser, IsActive: false},
	} {
		store.data.actors[a.ID] = a
	}
	store.data.questions[5] = Question{ID: 5, OwnerID: 2, Title: "How do channels close?"}
	store.data.answers[7] = Answer{ID: 7, QuestionID: 5, OwnerID: 3}
	store.data.answers[10] = Answer{ID: 10, QuestionID: 5, OwnerID: 1}
	store.data.answers[11] = Answer{ID: 11, QuestionID: 5, OwnerID: 3}

	notifier := &recordingNotifier{}
	return store, notifier, NewService(store, notifier, quietLogger())
}

func TestTransition(t *testing.T) {
	cases := []struct {
		current, requested Direction
		next               Direction
		outcome            Outcome
	}{
		{None, Up, Up, OutcomeCast},
		{None, Down, Down, OutcomeCast},
		{Up, Up, None, OutcomeRemoved},
		{Down, Down, None, OutcomeRemoved},
		{Up, Down, Down, OutcomeUpdated},
		{Down, Up, Up, OutcomeUpdated},
	}
	for _, tc := range cases {
		next, outcome := Transition(tc.current, tc.requested)
		assert.Equal(t, tc.next, next, "%d then %d", tc.current, tc.requested)
		assert.Equal(t, tc.outcome, outcome, "%d then %d", tc.current, tc.requested)
	}
}

func TestCastVoteToggleOff(t *testing.T) {
	store, _, svc := newFixture(t)
	ctx := context.Background()

	res, err := svc.CastVote(ctx, 1, 7, Up)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCast, res.Outcome)
	assert.EqualValues(t, 1, res.Score)

	res, err = svc.CastVote(ctx, 1, 7, Up)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRemoved, res.Outcome)
	assert.Equal(t, None, res.Direction)
	assert.Zero(t, res.Score)
	assert.Empty(t, store.data.votes)
}

func TestCastVoteFlip(t *testing.T) {
	store, _, svc := newFixture(t)
	ctx := context.Background()

	_, err := svc.CastVote(ctx, 1, 7, Up)
	require.NoError(t, err)
	res, err := svc.CastVote(ctx, 1, 7, Down)
	require.NoError(t, err)

	assert.Equal(t, OutcomeUpdated, res.Outcome)
	assert.EqualValues(t, -1, res.Score)
	assert.Equal(t, map[voteKey]Direction{{1, 7}: Down}, store.data.votes)
}

func TestCastVoteScenario(t *testing.T) {
	store, _, svc := newFixture(t)
	ctx := context.Background()

	_, err := svc.CastVote(ctx, 1, 7, Up)
	require.NoError(t, err)
	assert.Equal(t, map[voteKey]Direction{{1, 7}: Up}, store.data.votes)

	_, err = svc.CastVote(ctx, 1, 7, Down)
	require.NoError(t, err)
	assert.Equal(t, map[voteKey]Direction{{1, 7}: Down}, store.data.votes)

	_, err = svc.CastVote(ctx, 1, 7, Down)
	require.NoError(t, err)
	assert.NotContains(t, store.data.votes, voteKey{1, 7})
}

func TestCastVoteErrors(t *testing.T) {
	_, _, svc := newFixture(t)
	ctx := context.Background()

	_, err := svc.CastVote(ctx, 1, 404, Up)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CastVote(ctx, 404, 7, Up)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CastVote(ctx, 9, 7, Up)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CastVote(ctx, 8, 7, Up)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CastVote(ctx, 1, 7, Direction(2))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCastVoteRereadsAfterLostRace(t *testing.T) {
	store, _, svc := newFixture(t)

	// Another request by the same user lands an upvote between our read and write.
	store.data.beforeWrite = func(d *memData) {
		d.votes[voteKey{1, 7}] = Up
	}

	res, err := svc.CastVote(context.Background(), 1, 7, Up)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRemoved, res.Outcome)
	assert.Empty(t, store.data.votes)
}

func TestCastVoteGivesUpAfterMaxAttempts(t *testing.T) {
	store, _, _ := newFixture(t)
	svc := NewService(store, nil, quietLogger(), WithMaxAttempts(2))

	// Every write races a writer that flips the stored vote first.
	var hook func(d *memData)
	hook = func(d *memData) {
		k := voteKey{1, 7}
		if d.votes[k] == Down {
			d.votes[k] = Up
		} else {
			d.votes[k] = Down
		}
		d.beforeWrite = hook
	}
	store.data.beforeWrite = hook

	_, err := svc.CastVote(context.Background(), 1, 7, Up)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCastVoteNotifiesAnswerOwner(t *testing.T) {
	_, notifier, svc := newFixture(t)
	ctx := context.Background()

	_, err := svc.CastVote(ctx, 1, 7, Up)
	require.NoError(t, err)
	_, err = svc.CastVote(ctx, 1, 7, Up) // removal is silent
	require.NoError(t, err)
	_, err = svc.CastVote(ctx, 3, 7, Up) // own answer is silent
	require.NoError(t, err)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, uint(3), notifier.events[0].userID)
	assert.Contains(t, notifier.events[0].message, "upvote")
}

func TestCastVoteSurvivesNotifierFailure(t *testing.T) {
	store, notifier, svc := newFixture(t)
	notifier.err = errDeliveryDown

	res, err := svc.CastVote(context.Background(), 1, 7, Down)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCast, res.Outcome)
	assert.Equal(t, Down, store.data.votes[voteKey{1, 7}])
}

func TestCastVoteCancelledContext(t *testing.T) {
	store, _, svc := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.CastVote(ctx, 1, 7, Up)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.data.votes)
}

func TestScore(t *testing.T) {
	_, _, svc := newFixture(t)
	ctx := context.Background()

	_, err := svc.CastVote(ctx, 1, 7, Up)
	require.NoError(t, err)
	_, err = svc.CastVote(ctx, 2, 7, Up)
	require.NoError(t, err)
	_, err = svc.CastVote(ctx, 3, 7, Down)
	require.NoError(t, err)

	score, err := svc.Score(ctx, 7)
	require.NoError(t, err)
	assert.EqualValues(t, 1, score)

	_, err = svc.Score(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection(-1)
	require.NoError(t, err)
	assert.Equal(t, Down, d)

	_, err = ParseDirection(0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
