package services

import (
	"time"

	"gorm.io/gorm"

	"askme/internal/models"
	"askme/internal/utils"
)

const popularTagsCacheKey = "tags:popular"

type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// Popular returns the ten most used tags for the sidebar. The result
// is held in the local cache for a few minutes; vote counts are never
// cached, only this sidebar listing.
func (s *TagService) Popular() ([]models.Tag, error) {
	if cached := utils.GetCache().Get(popularTagsCacheKey); cached != nil {
		if tags, ok := cached.([]models.Tag); ok {
			return tags, nil
		}
	}

	type tagRow struct {
		models.Tag
		NumQuestions int
	}
	var rows []tagRow
	if err := s.db.Model(&models.Tag{}).
		Select("tags.*, COUNT(question_tags.question_id) AS num_questions").
		Joins("LEFT JOIN question_tags ON question_tags.tag_id = tags.id").
		Group("tags.id").
		Order("num_questions DESC, tags.name ASC").
		Limit(10).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	tags := make([]models.Tag, len(rows))
	for i, r := range rows {
		tags[i] = r.Tag
		tags[i].QuestionCount = r.NumQuestions
	}

	utils.GetCache().Set(popularTagsCacheKey, tags, 5*time.Minute)
	return tags, nil
}
