package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"askme/internal/models"
)

// Recognized vote action strings from the like endpoints.
const (
	ActionLike    = "like"
	ActionDislike = "dislike"
)

// ParseAction maps an action string to a vote value. Anything other
// than the two recognized actions is rejected rather than defaulting
// to a dislike.
func ParseAction(action string) (int, error) {
	switch action {
	case ActionLike:
		return 1, nil
	case ActionDislike:
		return -1, nil
	default:
		return 0, fmt.Errorf("%w: unknown action %q", ErrValidation, action)
	}
}

// VoteService applies the per-(user, target) toggle state machine:
// no vote + like -> insert +1; same direction again -> delete the row;
// opposite direction -> flip the value in place.
type VoteService struct {
	db      *gorm.DB
	ratings *RatingService
}

func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{db: db, ratings: NewRatingService(db)}
}

// ToggleQuestionVote applies one vote action for a user on a question
// and returns the fresh aggregate counts.
func (s *VoteService) ToggleQuestionVote(questionID, userID uint, action string) (Rating, error) {
	value, err := ParseAction(action)
	if err != nil {
		return Rating{}, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var question models.Question
		if err := tx.First(&question, questionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: question %d", ErrNotFound, questionID)
			}
			return err
		}

		var vote models.QuestionVote
		err := tx.Where("question_id = ? AND user_id = ?", questionID, userID).First(&vote).Error
		switch {
		case err == nil && vote.Value == value:
			// Re-clicking the same direction retracts the vote.
			return tx.Delete(&vote).Error
		case err == nil:
			return tx.Model(&vote).Update("value", value).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote = models.QuestionVote{QuestionID: questionID, UserID: userID, Value: value}
			if err := tx.Create(&vote).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("%w: concurrent vote on question %d", ErrConflict, questionID)
				}
				return err
			}
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return Rating{}, err
	}

	return s.ratings.QuestionRating(questionID)
}

// ToggleAnswerVote applies one vote action for a user on an answer
// and returns the fresh aggregate counts.
func (s *VoteService) ToggleAnswerVote(answerID, userID uint, action string) (Rating, error) {
	value, err := ParseAction(action)
	if err != nil {
		return Rating{}, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var answer models.Answer
		if err := tx.First(&answer, answerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: answer %d", ErrNotFound, answerID)
			}
			return err
		}

		var vote models.AnswerVote
		err := tx.Where("answer_id = ? AND user_id = ?", answerID, userID).First(&vote).Error
		switch {
		case err == nil && vote.Value == value:
			return tx.Delete(&vote).Error
		case err == nil:
			return tx.Model(&vote).Update("value", value).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote = models.AnswerVote{AnswerID: answerID, UserID: userID, Value: value}
			if err := tx.Create(&vote).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("%w: concurrent vote on answer %d", ErrConflict, answerID)
				}
				return err
			}
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return Rating{}, err
	}

	return s.ratings.AnswerRating(answerID)
}
