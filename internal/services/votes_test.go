package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"askme/internal/models"
)

func TestParseAction(t *testing.T) {
	value, err := ParseAction("like")
	require.NoError(t, err)
	assert.Equal(t, 1, value)

	value, err = ParseAction("dislike")
	require.NoError(t, err)
	assert.Equal(t, -1, value)

	// Anything unrecognized must be rejected, not treated as a dislike.
	for _, action := range []string{"", "Like", "downvote", "remove", "dislike "} {
		_, err := ParseAction(action)
		assert.ErrorIs(t, err, ErrValidation, "action %q", action)
	}
}

func TestToggleQuestionVoteInsertFlipDelete(t *testing.T) {
	g := openTestDB(t)
	votes := NewVoteService(g)

	author := createTestUser(t, g, "author")
	voter := createTestUser(t, g, "voter")
	question := createTestQuestion(t, g, author, "To vote or not?", time.Now())

	// NoVote --like--> Liked
	r, err := votes.ToggleQuestionVote(question.ID, voter.ID, ActionLike)
	require.NoError(t, err)
	assert.Equal(t, Rating{Likes: 1, Dislikes: 0}, r)

	// Liked --dislike--> Disliked: the single row flips in place.
	r, err = votes.ToggleQuestionVote(question.ID, voter.ID, ActionDislike)
	require.NoError(t, err)
	assert.Equal(t, Rating{Likes: 0, Dislikes: 1}, r)

	var count int64
	require.NoError(t, g.Model(&models.QuestionVote{}).Where("question_id = ? AND user_id = ?", question.ID, voter.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var vote models.QuestionVote
	require.NoError(t, g.Where("question_id = ? AND user_id = ?", question.ID, voter.ID).First(&vote).Error)
	assert.Equal(t, -1, vote.Value)

	// Disliked --dislike--> NoVote: same direction retracts.
	r, err = votes.ToggleQuestionVote(question.ID, voter.ID, ActionDislike)
	require.NoError(t, err)
	assert.Equal(t, Rating{}, r)

	require.NoError(t, g.Model(&models.QuestionVote{}).Where("question_id = ? AND user_id = ?", question.ID, voter.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestToggleQuestionVoteDoubleToggleRoundTrip(t *testing.T) {
	g := openTestDB(t)
	votes := NewVoteService(g)

	author := createTestUser(t, g, "author")
	voter := createTestUser(t, g, "voter")
	other := createTestUser(t, g, "other")
	question := createTestQuestion(t, g, author, "Baseline?", time.Now())

	// Baseline: one like from another user.
	_, err := votes.ToggleQuestionVote(question.ID, other.ID, ActionLike)
	require.NoError(t, err)

	r, err := votes.ToggleQuestionVote(question.ID, voter.ID, ActionDislike)
	require.NoError(t, err)
	assert.Equal(t, Rating{Likes: 1, Dislikes: 1}, r)

	r, err = votes.ToggleQuestionVote(question.ID, voter.ID, ActionDislike)
	require.NoError(t, err)
	assert.Equal(t, Rating{Likes: 1, Dislikes: 0}, r, "double toggle must restore the baseline")
}

func TestToggleQuestionVoteLikeThenDislikeDelta(t *testing.T) {
	g := openTestDB(t)
	votes := NewVoteService(g)

	author := createTestUser(t, g, "author")
	voter := createTestUser(t, g, "voter")
	question := createTestQuestion(t, g, author, "Delta?", time.Now())

	before, err := NewRatingService(g).QuestionRating(question.ID)
	require.NoError(t, err)

	liked, err := votes.ToggleQuestionVote(question.ID, voter.ID, ActionLike)
	require.NoError(t, err)
	after, err := votes.ToggleQuestionVote(question.ID, voter.ID, ActionDislike)
	require.NoError(t, err)

	assert.Equal(t, before.Net()+1, liked.Net())
	assert.Equal(t, liked.Net()-2, after.Net(), "like->dislike moves the net by -2 from the liked state")
	assert.Equal(t, Rating{Likes: 0, Dislikes: 1}, after)
}

func TestToggleQuestionVoteErrors(t *testing.T) {
	g := openTestDB(t)
	votes := NewVoteService(g)
	voter := createTestUser(t, g, "voter")

	_, err := votes.ToggleQuestionVote(12345, voter.ID, ActionLike)
	assert.ErrorIs(t, err, ErrNotFound)

	author := createTestUser(t, g, "author")
	question := createTestQuestion(t, g, author, "Strict?", time.Now())
	_, err = votes.ToggleQuestionVote(question.ID, voter.ID, "smash")
	assert.ErrorIs(t, err, ErrValidation)

	var count int64
	require.NoError(t, g.Model(&models.QuestionVote{}).Count(&count).Error)
	assert.Zero(t, count, "rejected actions must not leave vote rows behind")
}

func TestToggleAnswerVote(t *testing.T) {
	g := openTestDB(t)
	votes := NewVoteService(g)

	author := createTestUser(t, g, "author")
	voter := createTestUser(t, g, "voter")
	question := createTestQuestion(t, g, author, "Answers too?", time.Now())
	answer := createTestAnswer(t, g, question, author, "yes")

	// The worked example: empty vote table, two dislikes in a row.
	r, err := votes.ToggleAnswerVote(answer.ID, voter.ID, ActionDislike)
	require.NoError(t, err)
	assert.Equal(t, Rating{Likes: 0, Dislikes: 1}, r)

	r, err = votes.ToggleAnswerVote(answer.ID, voter.ID, ActionDislike)
	require.NoError(t, err)
	assert.Equal(t, Rating{Likes: 0, Dislikes: 0}, r)

	_, err = votes.ToggleAnswerVote(98765, voter.ID, ActionLike)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuestionVotesAreIndependentPerUser(t *testing.T) {
	g := openTestDB(t)
	votes := NewVoteService(g)

	author := createTestUser(t, g, "author")
	question := createTestQuestion(t, g, author, "Crowd?", time.Now())

	var r Rating
	var err error
	for _, name := range []string{"u1", "u2", "u3"} {
		user := createTestUser(t, g, name)
		r, err = votes.ToggleQuestionVote(question.ID, user.ID, ActionLike)
		require.NoError(t, err)
	}
	assert.Equal(t, Rating{Likes: 3, Dislikes: 0}, r)
}
