package models

import (
	"time"
)

type Answer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;index" json:"question_id"`
	Question   Question  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"question"`
	AuthorID   uint      `gorm:"not null;index" json:"author_id"`
	Author     User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool      `gorm:"default:false;not null" json:"is_correct"`
	CreatedAt  time.Time `json:"created_at"`

	// 非数据库字段，用于查询时填充
	LikeCount    int `gorm:"-" json:"like_count"`
	DislikeCount int `gorm:"-" json:"dislike_count"`
	Rating       int `gorm:"-" json:"rating"`
}
