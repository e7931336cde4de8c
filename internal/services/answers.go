package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"askme/internal/models"
)

type AnswerService struct {
	db *gorm.DB
}

func NewAnswerService(db *gorm.DB) *AnswerService {
	return &AnswerService{db: db}
}

// Create posts an answer to a question thread. It also returns the
// thread page the new answer lands on so the caller can redirect to
// it.
func (s *AnswerService) Create(questionID, authorID uint, text string) (*models.Answer, int, error) {
	if strings.TrimSpace(text) == "" {
		return nil, 0, fmt.Errorf("%w: answer text must not be empty", ErrValidation)
	}

	var question models.Question
	if err := s.db.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, fmt.Errorf("%w: question %d", ErrNotFound, questionID)
		}
		return nil, 0, err
	}

	answer := models.Answer{
		QuestionID: questionID,
		AuthorID:   authorID,
		Text:       text,
	}
	if err := s.db.Create(&answer).Error; err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.Model(&models.Answer{}).Where("question_id = ?", questionID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	return &answer, Paginate(total, 1).TotalPages, nil
}

// ListForQuestion returns one page of a question's answers, oldest
// first, with like/dislike aggregates filled in.
func (s *AnswerService) ListForQuestion(questionID uint, page int) ([]models.Answer, PageInfo, error) {
	var total int64
	if err := s.db.Model(&models.Answer{}).Where("question_id = ?", questionID).Count(&total).Error; err != nil {
		return nil, PageInfo{}, err
	}
	info := Paginate(total, page)

	var answers []models.Answer
	if err := s.db.Preload("Author").
		Where("question_id = ?", questionID).
		Order("created_at ASC, id ASC").
		Limit(info.PerPage).
		Offset(info.Offset()).
		Find(&answers).Error; err != nil {
		return nil, PageInfo{}, err
	}

	if err := s.fillRatings(answers); err != nil {
		return nil, PageInfo{}, err
	}
	return answers, info, nil
}

// MarkCorrect sets or clears an answer's correctness flag. Only the
// question author may call it, and the clear-then-set path runs in one
// transaction so a question can never end up with two correct answers.
func (s *AnswerService) MarkCorrect(questionID, answerID, callerID uint, desired bool) (bool, error) {
	var result bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var question models.Question
		if err := tx.First(&question, questionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: question %d", ErrNotFound, questionID)
			}
			return err
		}

		var answer models.Answer
		if err := tx.Where("id = ? AND question_id = ?", answerID, questionID).First(&answer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: answer %d", ErrNotFound, answerID)
			}
			return err
		}

		if question.AuthorID != callerID {
			return fmt.Errorf("%w: not author of question", ErrForbidden)
		}

		switch {
		case answer.IsCorrect && !desired:
			if err := tx.Model(&answer).Update("is_correct", false).Error; err != nil {
				return err
			}
			result = false
		case !answer.IsCorrect && desired:
			// Clear every other answer first; at most one may stay correct.
			if err := tx.Model(&models.Answer{}).
				Where("question_id = ?", questionID).
				Update("is_correct", false).Error; err != nil {
				return err
			}
			if err := tx.Model(&answer).Update("is_correct", true).Error; err != nil {
				return err
			}
			result = true
		default:
			// No-op request, report the current state.
			result = answer.IsCorrect
		}
		return nil
	})
	return result, err
}

// fillRatings 批量填充答案的点赞/点踩数量
func (s *AnswerService) fillRatings(answers []models.Answer) error {
	if len(answers) == 0 {
		return nil
	}

	ids := make([]uint, len(answers))
	for i, a := range answers {
		ids[i] = a.ID
	}

	type aggRow struct {
		AnswerID uint
		Likes    int
		Dislikes int
	}
	var rows []aggRow
	if err := s.db.Model(&models.AnswerVote{}).
		Select("answer_id, SUM(CASE WHEN value = 1 THEN 1 ELSE 0 END) AS likes, SUM(CASE WHEN value = -1 THEN 1 ELSE 0 END) AS dislikes").
		Where("answer_id IN ?", ids).
		Group("answer_id").
		Scan(&rows).Error; err != nil {
		return err
	}

	byID := make(map[uint]aggRow, len(rows))
	for _, r := range rows {
		byID[r.AnswerID] = r
	}
	for i := range answers {
		agg := byID[answers[i].ID]
		answers[i].LikeCount = agg.Likes
		answers[i].DislikeCount = agg.Dislikes
		answers[i].Rating = agg.Likes - agg.Dislikes
	}
	return nil
}
