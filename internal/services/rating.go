package services

import (
	"gorm.io/gorm"

	"askme/internal/models"
)

// Rating is the derived like/dislike aggregate for a question or
// answer. It is always recomputed from live vote rows, never stored.
type Rating struct {
	Likes    int64 `json:"likes_count"`
	Dislikes int64 `json:"dislikes_count"`
}

// Net is likes minus dislikes.
func (r Rating) Net() int64 {
	return r.Likes - r.Dislikes
}

type RatingService struct {
	db *gorm.DB
}

func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db}
}

// QuestionRating counts the live vote rows for a question.
func (s *RatingService) QuestionRating(questionID uint) (Rating, error) {
	var r Rating
	if err := s.db.Model(&models.QuestionVote{}).
		Where("question_id = ? AND value = 1", questionID).
		Count(&r.Likes).Error; err != nil {
		return Rating{}, err
	}
	if err := s.db.Model(&models.QuestionVote{}).
		Where("question_id = ? AND value = -1", questionID).
		Count(&r.Dislikes).Error; err != nil {
		return Rating{}, err
	}
	return r, nil
}

// AnswerRating counts the live vote rows for an answer.
func (s *RatingService) AnswerRating(answerID uint) (Rating, error) {
	var r Rating
	if err := s.db.Model(&models.AnswerVote{}).
		Where("answer_id = ? AND value = 1", answerID).
		Count(&r.Likes).Error; err != nil {
		return Rating{}, err
	}
	if err := s.db.Model(&models.AnswerVote{}).
		Where("answer_id = ? AND value = -1", answerID).
		Count(&r.Dislikes).Error; err != nil {
		return Rating{}, err
	}
	return r, nil
}
