package domain

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// ContentItem is one generated post set: captions per platform plus the
// publishing state the reconciliation subsystem manages.
type ContentItem struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	SourceURL string    `gorm:"size:2048;column:source_url" json:"source_url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	FacebookPost  string `gorm:"type:text" json:"facebook_post"`
	InstagramPost string `gorm:"type:text" json:"instagram_post"`
	TwitterPost   string `gorm:"type:text" json:"twitter_post"`
	VideoScript   string `gorm:"type:text" json:"video_script"`
	GraphicURL    string `gorm:"size:2048;column:graphic_url" json:"graphic_url"`

	PublishStatus    string                        `gorm:"size:32;index" json:"publish_status"`
	PublishPlatforms datatypes.JSONSlice[Platform] `gorm:"column:publish_platforms" json:"publish_platforms"`
	ScheduledTime    *time.Time                    `json:"scheduled_time,omitempty"`
	PublishedAt      *time.Time                    `json:"published_at,omitempty"`
	PublishingNotes  string                        `gorm:"type:text" json:"publishing_notes"`
	PublishingErrors string                        `gorm:"type:text" json:"publishing_errors"`

	FacebookStatus  string `gorm:"size:16" json:"facebook_status"`
	InstagramStatus string `gorm:"size:16" json:"instagram_status"`
	TwitterStatus   string `gorm:"size:16" json:"twitter_status"`
}

func (ContentItem) TableName() string {
	return "generated_content"
}

// PostFor returns the caption written for the given platform.
func (c *ContentItem) PostFor(p Platform) string {
	switch p {
	case PlatformFacebook:
		return c.FacebookPost
	case PlatformInstagram:
		return c.InstagramPost
	case PlatformTwitter:
		return c.TwitterPost
	}
	return ""
}

// PlatformStatusFor returns the validated per-platform status, falling back
// to Pending on empty or unrecognized stored values.
func (c *ContentItem) PlatformStatusFor(p Platform) PlatformStatus {
	var raw string
	switch p {
	case PlatformFacebook:
		raw = c.FacebookStatus
	case PlatformInstagram:
		raw = c.InstagramStatus
	case PlatformTwitter:
		raw = c.TwitterStatus
	}
	st, err := ParsePlatformStatus(raw)
	if err != nil {
		return PlatformPending
	}
	return st
}

// AggregateStatus returns the validated aggregate status, falling back to
// Not_Published on unrecognized stored values.
func (c *ContentItem) AggregateStatus() PublishStatus {
	st, err := ParsePublishStatus(c.PublishStatus)
	if err != nil {
		return StatusNotPublished
	}
	return st
}

// TargetedPlatforms decodes the stored platform set. Rows written by older
// tooling hold a comma-separated string instead of a JSON array, so a single
// element containing commas is split apart here. Unknown names are dropped.
func (c *ContentItem) TargetedPlatforms() []Platform {
	var out []Platform
	seen := map[Platform]bool{}
	for _, raw := range c.PublishPlatforms {
		for _, part := range strings.Split(string(raw), ",") {
			p, err := ParsePlatform(part)
			if err != nil || seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// PublishingSnapshot is the slice of a content item the status poller
// watches. Two equal snapshots produce no notification.
type PublishingSnapshot struct {
	ContentID       uint64         `json:"content_id"`
	Status          PublishStatus  `json:"status"`
	FacebookStatus  PlatformStatus `json:"facebook_status"`
	InstagramStatus PlatformStatus `json:"instagram_status"`
	TwitterStatus   PlatformStatus `json:"twitter_status"`
	ScheduledTime   time.Time      `json:"scheduled_time,omitzero"`
	PublishedAt     time.Time      `json:"published_at,omitzero"`
	Errors          string         `json:"errors,omitempty"`
	Notes           string         `json:"notes,omitempty"`
}

// Snapshot extracts the poller-visible publishing state.
func (c *ContentItem) Snapshot() PublishingSnapshot {
	s := PublishingSnapshot{
		ContentID:       c.ID,
		Status:          c.AggregateStatus(),
		FacebookStatus:  c.PlatformStatusFor(PlatformFacebook),
		InstagramStatus: c.PlatformStatusFor(PlatformInstagram),
		TwitterStatus:   c.PlatformStatusFor(PlatformTwitter),
		Errors:          c.PublishingErrors,
		Notes:           c.PublishingNotes,
	}
	if c.ScheduledTime != nil {
		s.ScheduledTime = c.ScheduledTime.UTC()
	}
	if c.PublishedAt != nil {
		s.PublishedAt = c.PublishedAt.UTC()
	}
	return s
}

// Equal reports whether two snapshots would render identically.
func (s PublishingSnapshot) Equal(o PublishingSnapshot) bool {
	return s == o
}

// PlatformResult is one per-platform outcome reported by the automation
// worker.
type PlatformResult struct {
	Platform    Platform
	Outcome     Outcome
	PostID      string
	Message     string
	PublishedAt *time.Time
}

// PublishingFields is the single atomic update the reconciliation writer
// applies. Nil pointers leave the column untouched.
type PublishingFields struct {
	PublishStatus    *PublishStatus
	PublishPlatforms []Platform
	ScheduledTime    *time.Time
	ClearSchedule    bool
	PublishedAt      *time.Time
	PublishingNotes  *string
	PublishingErrors *string
	FacebookStatus   *PlatformStatus
	InstagramStatus  *PlatformStatus
	TwitterStatus    *PlatformStatus
}

// PlatformEligibility is the evaluator's verdict for one platform.
type PlatformEligibility struct {
	Platform Platform            `json:"platform"`
	Eligible bool                `json:"eligible"`
	Reason   IneligibilityReason `json:"reason,omitempty"`
}
