package voting

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/emilythestrangee/stackit/backend/internal/access"
)

type voteKey struct{ user, answer uint }

type memData struct {
	actors    map[uint]access.Actor
	questions map[uint]Question
	answers   map[uint]Answer
	votes     map[voteKey]Direction

	// beforeWrite runs once before the next vote write, to simulate a
	// concurrent writer landing between read and write. Its effect counts as
	// committed by that other writer and survives our rollback.
	beforeWrite func(d *memData)
	committed   []func(d *memData)
}

type memStore struct {
	mu   sync.Mutex
	data *memData
}

func newMemStore() *memStore {
	return &memStore{data: &memData{
		actors:    map[uint]access.Actor{},
		questions: map[uint]Question{},
		answers:   map[uint]Answer{},
		votes:     map[voteKey]Direction{},
	}}
}

func (m *memStore) InTx(ctx context.Context, fn func(tx Stores) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := &memData{
		actors:      maps.Clone(m.data.actors),
		questions:   maps.Clone(m.data.questions),
		answers:     maps.Clone(m.data.answers),
		votes:       maps.Clone(m.data.votes),
		beforeWrite: m.data.beforeWrite,
	}
	if err := fn(m.data); err != nil {
		for _, h := range m.data.committed {
			h(snapshot)
		}
		snapshot.beforeWrite = m.data.beforeWrite
		snapshot.committed = nil
		m.data = snapshot
		return err
	}
	m.data.committed = nil
	return ctx.Err()
}

func (m *memStore) GetActor(ctx context.Context, id uint) (access.Actor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.GetActor(ctx, id)
}

func (m *memStore) GetAnswer(ctx context.Context, id uint) (Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.GetAnswer(ctx, id)
}

func (m *memStore) GetQuestion(ctx context.Context, id uint) (Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.GetQuestion(ctx, id)
}

func (m *memStore) SetAnswerAccepted(ctx context.Context, id uint, accepted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.SetAnswerAccepted(ctx, id, accepted)
}

func (m *memStore) SetAnswerAcceptedExclusive(ctx context.Context, questionID, answerID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.SetAnswerAcceptedExclusive(ctx, questionID, answerID)
}

func (m *memStore) GetVote(ctx context.Context, userID, answerID uint) (Direction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.GetVote(ctx, userID, answerID)
}

func (m *memStore) UpsertVote(ctx context.Context, userID, answerID uint, prev, next Direction) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.UpsertVote(ctx, userID, answerID, prev, next)
}

func (m *memStore) DeleteVote(ctx context.Context, userID, answerID uint, prev Direction) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.DeleteVote(ctx, userID, answerID, prev)
}

func (m *memStore) Score(ctx context.Context, answerID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.Score(ctx, answerID)
}

func (d *memData) GetActor(_ context.Context, id uint) (access.Actor, error) {
	a, ok := d.actors[id]
	if !ok {
		return access.Actor{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return a, nil
}

func (d *memData) GetAnswer(_ context.Context, id uint) (Answer, error) {
	a, ok := d.answers[id]
	if !ok {
		return Answer{}, fmt.Errorf("answer %d: %w", id, ErrNotFound)
	}
	return a, nil
}

func (d *memData) GetQuestion(_ context.Context, id uint) (Question, error) {
	q, ok := d.questions[id]
	if !ok {
		return Question{}, fmt.Errorf("question %d: %w", id, ErrNotFound)
	}
	return q, nil
}

func (d *memData) SetAnswerAccepted(_ context.Context, id uint, accepted bool) error {
	a, ok := d.answers[id]
	if !ok {
		return fmt.Errorf("answer %d: %w", id, ErrNotFound)
	}
	a.IsAccepted = accepted
	d.answers[id] = a
	return nil
}

func (d *memData) SetAnswerAcceptedExclusive(_ context.Context, questionID, answerID uint) error {
	for id, a := range d.answers {
		if a.QuestionID == questionID {
			a.IsAccepted = id == answerID
			d.answers[id] = a
		}
	}
	return nil
}

func (d *memData) GetVote(_ context.Context, userID, answerID uint) (Direction, error) {
	return d.votes[voteKey{userID, answerID}], nil
}

func (d *memData) runHook() {
	if hook := d.beforeWrite; hook != nil {
		d.beforeWrite = nil
		hook(d)
		d.committed = append(d.committed, hook)
	}
}

func (d *memData) UpsertVote(_ context.Context, userID, answerID uint, prev, next Direction) (bool, error) {
	d.runHook()
	k := voteKey{userID, answerID}
	if d.votes[k] != prev {
		return false, nil
	}
	d.votes[k] = next
	return true, nil
}

func (d *memData) DeleteVote(_ context.Context, userID, answerID uint, prev Direction) (bool, error) {
	d.runHook()
	k := voteKey{userID, answerID}
	if d.votes[k] != prev {
		return false, nil
	}
	delete(d.votes, k)
	return true, nil
}

func (d *memData) Score(_ context.Context, answerID uint) (int64, error) {
	var sum int64
	for k, v := range d.votes {
		if k.answer == answerID {
			sum += int64(v)
		}
	}
	return sum, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification
	err    error
}

type notification struct {
	userID  uint
	message string
}

func (r *recordingNotifier) Emit(_ context.Context, userID uint, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, notification{userID, message})
	return r.err
}

var errDeliveryDown = errors.New("delivery down")
