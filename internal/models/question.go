package models

import (
	"time"
)

type Question struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Tags      []Tag     `gorm:"many2many:question_tags;" json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 非数据库字段，用于查询时填充
	LikeCount    int `gorm:"-" json:"like_count"`
	DislikeCount int `gorm:"-" json:"dislike_count"`
	Rating       int `gorm:"-" json:"rating"`
	AnswerCount  int `gorm:"-" json:"answer_count"`
}
