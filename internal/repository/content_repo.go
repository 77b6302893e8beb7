package repository

import (
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/zuqon/content-backend/internal/common"
	"github.com/zuqon/content-backend/internal/domain"
)

// ContentRepository generated content data access
type ContentRepository interface {
	FindByID(id uint64) (*domain.ContentItem, error)
	List(page, limit int) ([]*domain.ContentItem, int64, error)
	ListByStatus(status domain.PublishStatus, page, limit int) ([]*domain.ContentItem, int64, error)
	Create(item *domain.ContentItem) error
	Update(item *domain.ContentItem) error
	Delete(id uint64) error
	UpdatePublishingFields(id uint64, fields domain.PublishingFields) error
}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new ContentRepository
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) FindByID(id uint64) (*domain.ContentItem, error) {
	var item domain.ContentItem
	err := r.db.Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrContentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *contentRepository) List(page, limit int) ([]*domain.ContentItem, int64, error) {
	var items []*domain.ContentItem
	var total int64

	query := r.db.Model(&domain.ContentItem{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *contentRepository) ListByStatus(status domain.PublishStatus, page, limit int) ([]*domain.ContentItem, int64, error) {
	var items []*domain.ContentItem
	var total int64

	query := r.db.Model(&domain.ContentItem{}).Where("publish_status = ?", string(status))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *contentRepository) Create(item *domain.ContentItem) error {
	return r.db.Create(item).Error
}

func (r *contentRepository) Update(item *domain.ContentItem) error {
	return r.db.Save(item).Error
}

func (r *contentRepository) Delete(id uint64) error {
	return r.db.Delete(&domain.ContentItem{}, id).Error
}

// UpdatePublishingFields writes the publishing subset of a content row in a
// single UPDATE. Nil fields are left untouched so concurrent edits to the
// captions never race with the reconciler.
func (r *contentRepository) UpdatePublishingFields(id uint64, fields domain.PublishingFields) error {
	updates := map[string]interface{}{}

	if fields.PublishStatus != nil {
		updates["publish_status"] = string(*fields.PublishStatus)
	}
	if fields.PublishPlatforms != nil {
		updates["publish_platforms"] = datatypes.NewJSONSlice(fields.PublishPlatforms)
	}
	if fields.ScheduledTime != nil {
		updates["scheduled_time"] = *fields.ScheduledTime
	} else if fields.ClearSchedule {
		updates["scheduled_time"] = nil
	}
	if fields.PublishedAt != nil {
		updates["published_at"] = *fields.PublishedAt
	}
	if fields.PublishingNotes != nil {
		updates["publishing_notes"] = *fields.PublishingNotes
	}
	if fields.PublishingErrors != nil {
		updates["publishing_errors"] = *fields.PublishingErrors
	}
	if fields.FacebookStatus != nil {
		updates["facebook_status"] = string(*fields.FacebookStatus)
	}
	if fields.InstagramStatus != nil {
		updates["instagram_status"] = string(*fields.InstagramStatus)
	}
	if fields.TwitterStatus != nil {
		updates["twitter_status"] = string(*fields.TwitterStatus)
	}

	if len(updates) == 0 {
		return nil
	}

	result := r.db.Model(&domain.ContentItem{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrContentNotFound
	}
	return nil
}
