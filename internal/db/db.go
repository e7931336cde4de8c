package db

import (
	"log"
	"os"

	"askme/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=askme port=5432 sslmode=disable"
	}

	var err error
	// TranslateError lets services match gorm.ErrDuplicatedKey on
	// unique-index violations instead of driver-specific errors.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	seedTags()
}

// Migrate creates the schema. Shared with filldb and the test helpers.
func Migrate(g *gorm.DB) error {
	return g.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Question{},
		&models.Answer{},
		&models.QuestionVote{},
		&models.AnswerVote{},
	)
}

func seedTags() {
	var count int64
	DB.Model(&models.Tag{}).Count(&count)
	if count > 0 {
		log.Println("Tags already seeded, skipping")
		return
	}

	tags := []models.Tag{
		{Name: "go", Color: "suc"},
		{Name: "python", Color: "pri"},
		{Name: "databases", Color: "inf"},
		{Name: "web", Color: "war"},
	}

	for _, tag := range tags {
		if err := DB.Create(&tag).Error; err != nil {
			log.Printf("Failed to create tag %s: %v", tag.Name, err)
		}
	}
	log.Println("Initial tags created successfully")
}
