package domain

import "time"

// Article is an ingested news item, the raw material for content generation.
type Article struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"size:512;not null" json:"title"`
	URL         string     `gorm:"size:2048;uniqueIndex:idx_articles_url,length:255" json:"url"`
	Description string     `gorm:"type:text" json:"description"`
	SourceName  string     `gorm:"size:255" json:"source_name"`
	ImageURL    string     `gorm:"size:2048" json:"image_url"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Article) TableName() string {
	return "articles"
}

// SourceType distinguishes how a source is fetched.
type SourceType string

const (
	SourceTypeRSS     SourceType = "rss"
	SourceTypeNewsAPI SourceType = "newsapi"
)

// Source is a configured article source, fetched on a schedule.
type Source struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Type      string    `gorm:"size:16;not null" json:"type"`
	URL       string    `gorm:"size:2048" json:"url"`
	Query     string    `gorm:"size:512" json:"query"`
	Enabled   bool      `gorm:"default:true" json:"enabled"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Source) TableName() string {
	return "sources"
}
