package models

import "time"

// Answer belongs to one question and one owner. The partial unique index keeps
// at most one accepted answer per question.
type Answer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	QuestionID uint      `gorm:"not null;index;uniqueIndex:idx_answers_one_accepted,where:is_accepted" json:"question_id"`
	Question   Question  `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	OwnerID    uint      `gorm:"not null;index" json:"owner_id"`
	Owner      User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	IsAccepted bool      `gorm:"not null;default:false" json:"is_accepted"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreateAnswerRequest struct {
	Content    string `json:"content" binding:"required"`
	QuestionID uint   `json:"question_id" binding:"required"`
}

type AnswerResponse struct {
	ID         uint      `json:"id"`
	Content    string    `json:"content"`
	QuestionID uint      `json:"question_id"`
	OwnerID    uint      `json:"owner_id"`
	IsAccepted bool      `json:"is_accepted"`
	Score      int64     `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (a Answer) Response(score int64) AnswerResponse {
	return AnswerResponse{
		ID:         a.ID,
		Content:    a.Content,
		QuestionID: a.QuestionID,
		OwnerID:    a.OwnerID,
		IsAccepted: a.IsAccepted,
		Score:      score,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
