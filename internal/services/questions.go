package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"askme/internal/models"
)

type QuestionService struct {
	db *gorm.DB
}

func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db}
}

// New returns one page of questions, newest first.
func (s *QuestionService) New(page int) ([]models.Question, PageInfo, error) {
	var total int64
	if err := s.db.Model(&models.Question{}).Count(&total).Error; err != nil {
		return nil, PageInfo{}, err
	}
	info := Paginate(total, page)

	var questions []models.Question
	if err := s.db.Preload("Author").Preload("Tags").
		Order("created_at DESC, id DESC").
		Limit(info.PerPage).
		Offset(info.Offset()).
		Find(&questions).Error; err != nil {
		return nil, PageInfo{}, err
	}

	if err := s.fillMeta(questions); err != nil {
		return nil, PageInfo{}, err
	}
	return questions, info, nil
}

// Hot returns one page of questions ordered by net rating, computed
// live from the vote rows, with recency as the tiebreaker.
func (s *QuestionService) Hot(page int) ([]models.Question, PageInfo, error) {
	var total int64
	if err := s.db.Model(&models.Question{}).Count(&total).Error; err != nil {
		return nil, PageInfo{}, err
	}
	info := Paginate(total, page)

	var questions []models.Question
	if err := s.db.Model(&models.Question{}).
		Select("questions.*, COALESCE(SUM(question_votes.value), 0) AS net_rating").
		Joins("LEFT JOIN question_votes ON question_votes.question_id = questions.id").
		Group("questions.id").
		Order("net_rating DESC, questions.created_at DESC, questions.id DESC").
		Limit(info.PerPage).
		Offset(info.Offset()).
		Preload("Author").Preload("Tags").
		Find(&questions).Error; err != nil {
		return nil, PageInfo{}, err
	}

	if err := s.fillMeta(questions); err != nil {
		return nil, PageInfo{}, err
	}
	return questions, info, nil
}

// ByTag returns one page of questions carrying the named tag, newest
// first. An unknown tag is a NotFound, not an empty page.
func (s *QuestionService) ByTag(tagName string, page int) ([]models.Question, *models.Tag, PageInfo, error) {
	var tag models.Tag
	if err := s.db.Where("name = ?", tagName).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, PageInfo{}, fmt.Errorf("%w: tag %q", ErrNotFound, tagName)
		}
		return nil, nil, PageInfo{}, err
	}

	var total int64
	if err := s.db.Model(&models.Question{}).
		Joins("JOIN question_tags ON question_tags.question_id = questions.id").
		Where("question_tags.tag_id = ?", tag.ID).
		Count(&total).Error; err != nil {
		return nil, nil, PageInfo{}, err
	}
	info := Paginate(total, page)

	var questions []models.Question
	if err := s.db.Model(&models.Question{}).
		Joins("JOIN question_tags ON question_tags.question_id = questions.id").
		Where("question_tags.tag_id = ?", tag.ID).
		Order("questions.created_at DESC, questions.id DESC").
		Limit(info.PerPage).
		Offset(info.Offset()).
		Preload("Author").Preload("Tags").
		Find(&questions).Error; err != nil {
		return nil, nil, PageInfo{}, err
	}

	if err := s.fillMeta(questions); err != nil {
		return nil, nil, PageInfo{}, err
	}
	return questions, &tag, info, nil
}

// Get loads a single question with author, tags and aggregates.
func (s *QuestionService) Get(questionID uint) (*models.Question, error) {
	var question models.Question
	if err := s.db.Preload("Author").Preload("Tags").First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: question %d", ErrNotFound, questionID)
		}
		return nil, err
	}
	page := []models.Question{question}
	if err := s.fillMeta(page); err != nil {
		return nil, err
	}
	return &page[0], nil
}

// ParseTagList splits the comma-separated tag input of the ask form.
func ParseTagList(raw string) []string {
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Create stores a new question with 1 to 3 tags, creating missing tags
// on the fly.
func (s *QuestionService) Create(authorID uint, title, text, tagsRaw string) (*models.Question, error) {
	title = strings.TrimSpace(title)
	text = strings.TrimSpace(text)
	if title == "" || text == "" {
		return nil, fmt.Errorf("%w: title and text must not be empty", ErrValidation)
	}
	if len([]rune(title)) > 100 {
		return nil, fmt.Errorf("%w: title must be at most 100 characters", ErrValidation)
	}

	tagNames := ParseTagList(tagsRaw)
	if len(tagNames) < 1 || len(tagNames) > 3 {
		return nil, fmt.Errorf("%w: enter 1 to 3 comma-separated tags", ErrValidation)
	}

	question := models.Question{
		AuthorID: authorID,
		Title:    title,
		Text:     text,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		for _, name := range tagNames {
			var tag models.Tag
			if err := tx.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
				return err
			}
			if err := tx.Model(&question).Association("Tags").Append(&tag); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// Delete removes a question and, explicitly, everything it owns:
// votes on its answers, the answers, its own votes and the tag
// associations. Only the question author may delete it.
func (s *QuestionService) Delete(questionID, callerID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var question models.Question
		if err := tx.First(&question, questionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: question %d", ErrNotFound, questionID)
			}
			return err
		}
		if question.AuthorID != callerID {
			return fmt.Errorf("%w: not author of question", ErrForbidden)
		}
		return deleteQuestionTx(tx, questionID)
	})
}

// deleteQuestionTx is the shared cascade for question removal; the
// user cascade reuses it.
func deleteQuestionTx(tx *gorm.DB, questionID uint) error {
	answerIDs := tx.Model(&models.Answer{}).Select("id").Where("question_id = ?", questionID)
	if err := tx.Where("answer_id IN (?)", answerIDs).Delete(&models.AnswerVote{}).Error; err != nil {
		return err
	}
	if err := tx.Where("question_id = ?", questionID).Delete(&models.Answer{}).Error; err != nil {
		return err
	}
	if err := tx.Where("question_id = ?", questionID).Delete(&models.QuestionVote{}).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM question_tags WHERE question_id = ?", questionID).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Question{}, questionID).Error
}

// fillMeta 批量填充问题的评分和答案数量
func (s *QuestionService) fillMeta(questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}

	ids := make([]uint, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}

	type voteRow struct {
		QuestionID uint
		Likes      int
		Dislikes   int
	}
	var votes []voteRow
	if err := s.db.Model(&models.QuestionVote{}).
		Select("question_id, SUM(CASE WHEN value = 1 THEN 1 ELSE 0 END) AS likes, SUM(CASE WHEN value = -1 THEN 1 ELSE 0 END) AS dislikes").
		Where("question_id IN ?", ids).
		Group("question_id").
		Scan(&votes).Error; err != nil {
		return err
	}
	voteMap := make(map[uint]voteRow, len(votes))
	for _, v := range votes {
		voteMap[v.QuestionID] = v
	}

	type countRow struct {
		QuestionID uint
		Count      int
	}
	var counts []countRow
	if err := s.db.Model(&models.Answer{}).
		Select("question_id, COUNT(*) AS count").
		Where("question_id IN ?", ids).
		Group("question_id").
		Scan(&counts).Error; err != nil {
		return err
	}
	countMap := make(map[uint]int, len(counts))
	for _, c := range counts {
		countMap[c.QuestionID] = c.Count
	}

	for i := range questions {
		v := voteMap[questions[i].ID]
		questions[i].LikeCount = v.Likes
		questions[i].DislikeCount = v.Dislikes
		questions[i].Rating = v.Likes - v.Dislikes
		questions[i].AnswerCount = countMap[questions[i].ID]
	}
	return nil
}
