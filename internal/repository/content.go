package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/voting"
)

func (s *Store) GetAnswer(ctx context.Context, id uint) (voting.Answer, error) {
	var answer models.Answer
	if err := s.conn(ctx).First(&answer, id).Error; err != nil {
		return voting.Answer{}, notFound(err, "answer %d", id)
	}
	return voting.Answer{
		ID:         answer.ID,
		QuestionID: answer.QuestionID,
		OwnerID:    answer.OwnerID,
		IsAccepted: answer.IsAccepted,
	}, nil
}

func (s *Store) GetQuestion(ctx context.Context, id uint) (voting.Question, error) {
	var question models.Question
	if err := s.conn(ctx).Select("id", "owner_id", "title").First(&question, id).Error; err != nil {
		return voting.Question{}, notFound(err, "question %d", id)
	}
	return voting.Question{ID: question.ID, OwnerID: question.OwnerID, Title: question.Title}, nil
}

func (s *Store) SetAnswerAccepted(ctx context.Context, id uint, accepted bool) error {
	res := s.conn(ctx).Model(&models.Answer{}).Where("id = ?", id).Update("is_accepted", accepted)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("answer %d: %w", id, voting.ErrNotFound)
	}
	return nil
}

// SetAnswerAcceptedExclusive locks the question row, clears any accepted
// sibling and accepts answerID. It runs in its own (nested) transaction so it
// is atomic even when called outside InTx.
func (s *Store) SetAnswerAcceptedExclusive(ctx context.Context, questionID, answerID uint) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var question models.Question
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&question, questionID).Error
		if err != nil {
			return notFound(err, "question %d", questionID)
		}

		err = tx.Model(&models.Answer{}).
			Where("question_id = ? AND id <> ? AND is_accepted = ?", questionID, answerID, true).
			Update("is_accepted", false).Error
		if err != nil {
			return err
		}

		res := tx.Model(&models.Answer{}).
			Where("id = ? AND question_id = ?", answerID, questionID).
			Update("is_accepted", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("answer %d in question %d: %w", answerID, questionID, voting.ErrNotFound)
		}
		return nil
	})
	return classify(err)
}

// CreateQuestion stores the question and links its tags, creating unknown
// tag names on the way.
func (s *Store) CreateQuestion(ctx context.Context, ownerID uint, req models.CreateQuestionRequest) (*models.Question, error) {
	question := models.Question{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     ownerID,
	}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range tagNames(req.Tags) {
			tag := models.Tag{Name: name}
			if err := tx.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
				return fmt.Errorf("tag %q: %w", name, err)
			}
			question.Tags = append(question.Tags, tag)
		}
		return tx.Omit("Owner").Create(&question).Error
	})
	if err != nil {
		return nil, classify(err)
	}
	return s.GetQuestionDetail(ctx, question.ID)
}

func tagNames(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	var names []string
	for _, r := range raw {
		name := strings.TrimSpace(r)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func (s *Store) GetQuestionDetail(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := s.conn(ctx).Preload("Tags").First(&question, id).Error; err != nil {
		return nil, notFound(err, "question %d", id)
	}
	return &question, nil
}

func (s *Store) ListQuestions(ctx context.Context, offset, limit int) ([]models.Question, error) {
	offset, limit = page(offset, limit)
	var questions []models.Question
	err := s.conn(ctx).Preload("Tags").Order("created_at desc").Order("id desc").
		Offset(offset).Limit(limit).Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// CreateAnswer stores an answer under an existing question.
func (s *Store) CreateAnswer(ctx context.Context, ownerID uint, req models.CreateAnswerRequest) (*models.Answer, error) {
	if _, err := s.GetQuestion(ctx, req.QuestionID); err != nil {
		return nil, err
	}
	answer := models.Answer{
		Content:    req.Content,
		QuestionID: req.QuestionID,
		OwnerID:    ownerID,
	}
	if err := s.conn(ctx).Omit(clause.Associations).Create(&answer).Error; err != nil {
		return nil, classify(err)
	}
	return &answer, nil
}

func (s *Store) GetAnswerModel(ctx context.Context, id uint) (*models.Answer, error) {
	var answer models.Answer
	if err := s.conn(ctx).First(&answer, id).Error; err != nil {
		return nil, notFound(err, "answer %d", id)
	}
	return &answer, nil
}

// ListAnswers returns a question's answers, accepted first, with their scores.
func (s *Store) ListAnswers(ctx context.Context, questionID uint) ([]models.Answer, map[uint]int64, error) {
	var answers []models.Answer
	err := s.conn(ctx).Where("question_id = ?", questionID).
		Order("is_accepted desc").Order("created_at").Order("id").
		Find(&answers).Error
	if err != nil {
		return nil, nil, err
	}

	ids := make([]uint, 0, len(answers))
	for _, a := range answers {
		ids = append(ids, a.ID)
	}
	scores, err := s.Scores(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return answers, scores, nil
}
