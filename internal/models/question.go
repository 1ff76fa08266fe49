package models

import "time"

type Question struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"index;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	OwnerID     uint      `gorm:"index;not null" json:"owner_id"`
	Owner       User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Tags        []Tag     `gorm:"many2many:question_tags;constraint:OnDelete:CASCADE" json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateQuestionRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Tags        []string `json:"tags"`
}
