package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/voting"
)

func (s *Store) GetVote(ctx context.Context, userID, answerID uint) (voting.Direction, error) {
	var vote models.Vote
	err := s.conn(ctx).Where("user_id = ? AND answer_id = ?", userID, answerID).Take(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return voting.None, nil
	}
	if err != nil {
		return voting.None, err
	}
	return voting.Direction(vote.VoteType), nil
}

// UpsertVote writes next only if the row still holds prev. With prev None it
// inserts and lets the primary key reject a concurrent insert.
func (s *Store) UpsertVote(ctx context.Context, userID, answerID uint, prev, next voting.Direction) (bool, error) {
	if prev == voting.None {
		vote := models.Vote{UserID: userID, AnswerID: answerID, VoteType: int(next)}
		res := s.conn(ctx).Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&vote)
		if res.Error != nil {
			return false, classify(res.Error)
		}
		return res.RowsAffected == 1, nil
	}

	res := s.conn(ctx).Model(&models.Vote{}).
		Where("user_id = ? AND answer_id = ? AND vote_type = ?", userID, answerID, int(prev)).
		Update("vote_type", int(next))
	if res.Error != nil {
		return false, classify(res.Error)
	}
	return res.RowsAffected == 1, nil
}

// DeleteVote removes the row only if it still holds prev.
func (s *Store) DeleteVote(ctx context.Context, userID, answerID uint, prev voting.Direction) (bool, error) {
	res := s.conn(ctx).
		Where("user_id = ? AND answer_id = ? AND vote_type = ?", userID, answerID, int(prev)).
		Delete(&models.Vote{})
	if res.Error != nil {
		return false, classify(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *Store) Score(ctx context.Context, answerID uint) (int64, error) {
	var score int64
	err := s.conn(ctx).Model(&models.Vote{}).
		Select("COALESCE(SUM(vote_type), 0)").
		Where("answer_id = ?", answerID).
		Scan(&score).Error
	return score, err
}

// Scores sums votes for several answers at once. Answers without votes map to 0.
func (s *Store) Scores(ctx context.Context, answerIDs []uint) (map[uint]int64, error) {
	scores := make(map[uint]int64, len(answerIDs))
	if len(answerIDs) == 0 {
		return scores, nil
	}
	var rows []struct {
		AnswerID uint
		Score    int64
	}
	err := s.conn(ctx).Model(&models.Vote{}).
		Select("answer_id, SUM(vote_type) AS score").
		Where("answer_id IN ?", answerIDs).
		Group("answer_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, id := range answerIDs {
		scores[id] = 0
	}
	for _, r := range rows {
		scores[r.AnswerID] = r.Score
	}
	return scores, nil
}

// CountVotes returns the number of ledger rows on answerID.
func (s *Store) CountVotes(ctx context.Context, answerID uint) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Vote{}).Where("answer_id = ?", answerID).Count(&n).Error
	return n, err
}
