package migration

import (
	"gorm.io/gorm"

	"github.com/zuqon/content-backend/internal/domain"
)

// Run executes AutoMigrate for all tables and seeds a default prompt if none exists.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.ContentItem{},
		&domain.Article{},
		&domain.Source{},
		&domain.Prompt{},
	); err != nil {
		return err
	}

	var count int64
	db.Model(&domain.Prompt{}).Count(&count)
	if count == 0 {
		return seedPrompts(db)
	}

	return nil
}

func seedPrompts(db *gorm.DB) error {
	prompt := domain.Prompt{
		Name:   "default",
		Active: true,
		Template: `You are a social media copywriter. Write posts for the article below.

Title: {{title}}
Summary: {{description}}
Link: {{url}}

Respond with exactly these sections:
<facebook>An engaging Facebook post, 2-3 sentences, ending with the link.</facebook>
<instagram>An Instagram caption with 3-5 relevant hashtags.</instagram>
<twitter>A post under 280 characters including the link.</twitter>
<video>A 30-second short-form video script with a hook, body, and call to action.</video>`,
	}
	return db.Create(&prompt).Error
}
