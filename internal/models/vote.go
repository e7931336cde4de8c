package models

import (
	"time"
)

// Votes live in two tables, one per target kind, so the unique
// (user, target) pair is a plain composite index with no nullable
// columns involved. Value is 1 or -1; a retracted vote is a deleted
// row, never a zero.

type QuestionVote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;uniqueIndex:idx_question_voter" json:"question_id"`
	Question   Question  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"question"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_question_voter" json:"user_id"`
	User       User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Value      int       `gorm:"not null" json:"value"`
	CreatedAt  time.Time `json:"created_at"`
}

type AnswerVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AnswerID  uint      `gorm:"not null;uniqueIndex:idx_answer_voter" json:"answer_id"`
	Answer    Answer    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"answer"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_answer_voter" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
}
