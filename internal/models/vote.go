package models

import "time"

// Vote model - one directed vote per (user, answer). The composite primary
// key is the uniqueness guarantee; vote_type is constrained to -1 or 1.
type Vote struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	AnswerID  uint      `gorm:"primaryKey;autoIncrement:false;index" json:"answer_id"`
	VoteType  int       `gorm:"column:vote_type;not null;check:chk_votes_vote_type,vote_type IN (-1, 1)" json:"type"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Answer    Answer    `gorm:"foreignKey:AnswerID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type VoteRequest struct {
	Type int `json:"type" binding:"required,vote_direction"`
}

type VoteResponse struct {
	Outcome string `json:"outcome"`
	Score   int64  `json:"score"`
}
