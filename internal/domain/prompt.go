package domain

import "time"

// Prompt is a stored generation template. The active prompt drives content
// generation; {{title}}, {{description}} and {{url}} placeholders are filled
// from the article.
type Prompt struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Template  string    `gorm:"type:text;not null" json:"template"`
	Active    bool      `gorm:"default:false;index" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Prompt) TableName() string {
	return "prompts"
}
