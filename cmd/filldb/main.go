// Command filldb seeds the database with fake forum content for load
// testing: ratio users and tags, ratio*10 questions, ratio*100 answers
// and ratio*200 votes of each kind, with unique (user, target) pairs.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"askme/internal/db"
	"askme/internal/models"
	"askme/internal/utils"
)

const batchSize = 500

func main() {
	ratio := flag.Int("ratio", 10, "data generation ratio")
	flag.Parse()
	if *ratio < 1 {
		log.Fatal("ratio must be positive")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}
	db.Init()

	users := createUsers(db.DB, *ratio)
	tags := createTags(db.DB, *ratio)
	questions := createQuestions(db.DB, users, tags, *ratio*10)
	answers := createAnswers(db.DB, users, questions, *ratio*100)
	createQuestionVotes(db.DB, users, questions, *ratio*200)
	createAnswerVotes(db.DB, users, answers, *ratio*200)

	log.Printf("Successfully filled database with ratio %d", *ratio)
}

func createUsers(g *gorm.DB, n int) []models.User {
	hash, err := utils.HashPassword("password123")
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	users := make([]models.User, 0, n)
	seen := make(map[string]bool, n)
	for len(users) < n {
		name := fmt.Sprintf("%s%d", gofakeit.Username(), rand.Intn(10000))
		if len(name) > 30 || seen[name] {
			continue
		}
		seen[name] = true
		users = append(users, models.User{
			Username: name,
			Email:    fmt.Sprintf("%s@%s", name, gofakeit.DomainName()),
			Password: hash,
			Avatar:   utils.GetRandomEmoji(),
		})
	}
	if err := g.CreateInBatches(&users, batchSize).Error; err != nil {
		log.Fatalf("Failed to create users: %v", err)
	}
	log.Printf("Created %d users", n)
	return users
}

func createTags(g *gorm.DB, n int) []models.Tag {
	colors := make([]string, 0, len(models.TagColors))
	for code := range models.TagColors {
		colors = append(colors, code)
	}

	tags := make([]models.Tag, 0, n)
	seen := make(map[string]bool, n)
	for len(tags) < n {
		name := fmt.Sprintf("%s-%s", gofakeit.Word(), gofakeit.Word())
		if len(name) > 30 || seen[name] {
			continue
		}
		seen[name] = true
		tags = append(tags, models.Tag{
			Name:  name,
			Color: colors[rand.Intn(len(colors))],
		})
	}
	if err := g.CreateInBatches(&tags, batchSize).Error; err != nil {
		log.Fatalf("Failed to create tags: %v", err)
	}
	log.Printf("Created %d tags", n)
	return tags
}

func createQuestions(g *gorm.DB, users []models.User, tags []models.Tag, n int) []models.Question {
	questions := make([]models.Question, n)
	for i := range questions {
		questions[i] = models.Question{
			AuthorID: users[rand.Intn(len(users))].ID,
			Title:    truncate(gofakeit.Sentence(6), 99) + "?",
			Text:     gofakeit.Paragraph(2, 4, 10, " "),
		}
	}
	if err := g.CreateInBatches(&questions, batchSize).Error; err != nil {
		log.Fatalf("Failed to create questions: %v", err)
	}

	// Up to 3 random tags per question.
	for i := range questions {
		picked := rand.Perm(len(tags))[:min(3, len(tags))]
		qTags := make([]models.Tag, len(picked))
		for j, idx := range picked {
			qTags[j] = tags[idx]
		}
		if err := g.Model(&questions[i]).Association("Tags").Append(&qTags); err != nil {
			log.Fatalf("Failed to tag question %d: %v", questions[i].ID, err)
		}
	}
	log.Printf("Created %d questions", n)
	return questions
}

func createAnswers(g *gorm.DB, users []models.User, questions []models.Question, n int) []models.Answer {
	answers := make([]models.Answer, n)
	for i := range answers {
		answers[i] = models.Answer{
			QuestionID: questions[rand.Intn(len(questions))].ID,
			AuthorID:   users[rand.Intn(len(users))].ID,
			Text:       gofakeit.Paragraph(1, 3, 10, " "),
		}
	}
	if err := g.CreateInBatches(&answers, batchSize).Error; err != nil {
		log.Fatalf("Failed to create answers: %v", err)
	}
	log.Printf("Created %d answers", n)
	return answers
}

func createQuestionVotes(g *gorm.DB, users []models.User, questions []models.Question, n int) {
	// Can't mint more unique (user, question) pairs than exist.
	if limit := len(users) * len(questions); n > limit {
		n = limit
	}

	type pair struct{ q, u uint }
	seen := make(map[pair]bool, n)

	votes := make([]models.QuestionVote, 0, n)
	for len(votes) < n {
		p := pair{
			q: questions[rand.Intn(len(questions))].ID,
			u: users[rand.Intn(len(users))].ID,
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		votes = append(votes, models.QuestionVote{
			QuestionID: p.q,
			UserID:     p.u,
			Value:      randomVoteValue(),
		})
	}
	if err := g.CreateInBatches(&votes, batchSize).Error; err != nil {
		log.Fatalf("Failed to create question votes: %v", err)
	}
	log.Printf("Created %d question votes", n)
}

func createAnswerVotes(g *gorm.DB, users []models.User, answers []models.Answer, n int) {
	if limit := len(users) * len(answers); n > limit {
		n = limit
	}

	type pair struct{ a, u uint }
	seen := make(map[pair]bool, n)

	votes := make([]models.AnswerVote, 0, n)
	for len(votes) < n {
		p := pair{
			a: answers[rand.Intn(len(answers))].ID,
			u: users[rand.Intn(len(users))].ID,
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		votes = append(votes, models.AnswerVote{
			AnswerID: p.a,
			UserID:   p.u,
			Value:    randomVoteValue(),
		})
	}
	if err := g.CreateInBatches(&votes, batchSize).Error; err != nil {
		log.Fatalf("Failed to create answer votes: %v", err)
	}
	log.Printf("Created %d answer votes", n)
}

func randomVoteValue() int {
	if rand.Intn(2) == 0 {
		return 1
	}
	return -1
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
