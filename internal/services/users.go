package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"askme/internal/models"
	"askme/internal/utils"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func validatePassword(password, repeat string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters long", ErrValidation)
	}
	if password != repeat {
		return fmt.Errorf("%w: passwords don't match", ErrValidation)
	}
	return nil
}

// Register creates a new account with a bcrypt-hashed password and a
// random emoji avatar.
func (s *UserService) Register(username, email, password, repeat string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return nil, fmt.Errorf("%w: username and email are required", ErrValidation)
	}
	if len([]rune(username)) > 30 {
		return nil, fmt.Errorf("%w: username must be at most 30 characters", ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if err := validatePassword(password, repeat); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: hash,
		Avatar:   utils.GetRandomEmoji(),
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username or email already taken", ErrConflict)
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate checks the credentials and returns the user on success.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrValidation)
		}
		return nil, err
	}
	if !utils.CheckPassword(user.Password, password) {
		return nil, fmt.Errorf("%w: user not found", ErrValidation)
	}
	return &user, nil
}

// ProfileUpdate carries the optional profile-edit fields; blank means
// keep the current value.
type ProfileUpdate struct {
	Username       string
	Email          string
	NewPassword    string
	PasswordRepeat string
	Avatar         string
}

// UpdateProfile applies a profile edit. A request that changes nothing
// is rejected, mirroring the edit form's contract.
func (s *UserService) UpdateProfile(userID uint, upd ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}

	changed := false

	if name := strings.TrimSpace(upd.Username); name != "" && name != user.Username {
		if len([]rune(name)) > 30 {
			return nil, fmt.Errorf("%w: username must be at most 30 characters", ErrValidation)
		}
		user.Username = name
		changed = true
	}
	if email := strings.TrimSpace(upd.Email); email != "" && email != user.Email {
		if !strings.Contains(email, "@") {
			return nil, fmt.Errorf("%w: invalid email address", ErrValidation)
		}
		user.Email = email
		changed = true
	}
	if upd.NewPassword != "" {
		if err := validatePassword(upd.NewPassword, upd.PasswordRepeat); err != nil {
			return nil, err
		}
		hash, err := utils.HashPassword(upd.NewPassword)
		if err != nil {
			return nil, err
		}
		user.Password = hash
		changed = true
	}
	if upd.Avatar != "" && upd.Avatar != user.Avatar {
		user.Avatar = upd.Avatar
		changed = true
	}

	if !changed {
		return nil, fmt.Errorf("%w: no changes detected, update at least one field", ErrValidation)
	}

	if err := s.db.Save(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username or email already taken", ErrConflict)
		}
		return nil, err
	}
	return &user, nil
}

// Delete removes a user and everything they own: their votes, their
// answers (with votes on them), and their questions with the full
// question cascade.
func (s *UserService) Delete(userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %d", ErrNotFound, userID)
			}
			return err
		}

		// Votes cast by the user.
		if err := tx.Where("user_id = ?", userID).Delete(&models.QuestionVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.AnswerVote{}).Error; err != nil {
			return err
		}

		// Answers authored by the user, with votes on them.
		answerIDs := tx.Model(&models.Answer{}).Select("id").Where("author_id = ?", userID)
		if err := tx.Where("answer_id IN (?)", answerIDs).Delete(&models.AnswerVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", userID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}

		// Questions authored by the user, with their own cascade.
		var questionIDs []uint
		if err := tx.Model(&models.Question{}).Where("author_id = ?", userID).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		for _, qid := range questionIDs {
			if err := deleteQuestionTx(tx, qid); err != nil {
				return err
			}
		}

		return tx.Delete(&user).Error
	})
}
