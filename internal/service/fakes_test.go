package service

import (
	"sync"

	"gorm.io/datatypes"

	"github.com/zuqon/content-backend/internal/common"
	"github.com/zuqon/content-backend/internal/domain"
)

// fakeContentRepo is an in-memory ContentRepository that applies
// UpdatePublishingFields the way the real store does: one atomic write,
// nil fields untouched.
type fakeContentRepo struct {
	mu        sync.Mutex
	items     map[uint64]*domain.ContentItem
	writes    int
	findErr   error
	updateErr error
}

func newFakeContentRepo(items ...*domain.ContentItem) *fakeContentRepo {
	repo := &fakeContentRepo{items: make(map[uint64]*domain.ContentItem)}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	return repo
}

func (r *fakeContentRepo) FindByID(id uint64) (*domain.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	item, ok := r.items[id]
	if !ok {
		return nil, common.ErrContentNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeContentRepo) List(page, limit int) ([]*domain.ContentItem, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.ContentItem
	for _, item := range r.items {
		copied := *item
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeContentRepo) ListByStatus(status domain.PublishStatus, page, limit int) ([]*domain.ContentItem, int64, error) {
	return nil, 0, nil
}

func (r *fakeContentRepo) Create(item *domain.ContentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == 0 {
		item.ID = uint64(len(r.items) + 1)
	}
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeContentRepo) Update(item *domain.ContentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeContentRepo) Delete(id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *fakeContentRepo) UpdatePublishingFields(id uint64, fields domain.PublishingFields) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	item, ok := r.items[id]
	if !ok {
		return common.ErrContentNotFound
	}

	r.writes++
	if fields.PublishStatus != nil {
		item.PublishStatus = string(*fields.PublishStatus)
	}
	if fields.PublishPlatforms != nil {
		item.PublishPlatforms = datatypes.NewJSONSlice(fields.PublishPlatforms)
	}
	if fields.ScheduledTime != nil {
		at := *fields.ScheduledTime
		item.ScheduledTime = &at
	} else if fields.ClearSchedule {
		item.ScheduledTime = nil
	}
	if fields.PublishedAt != nil {
		at := *fields.PublishedAt
		item.PublishedAt = &at
	}
	if fields.PublishingNotes != nil {
		item.PublishingNotes = *fields.PublishingNotes
	}
	if fields.PublishingErrors != nil {
		item.PublishingErrors = *fields.PublishingErrors
	}
	if fields.FacebookStatus != nil {
		item.FacebookStatus = string(*fields.FacebookStatus)
	}
	if fields.InstagramStatus != nil {
		item.InstagramStatus = string(*fields.InstagramStatus)
	}
	if fields.TwitterStatus != nil {
		item.TwitterStatus = string(*fields.TwitterStatus)
	}
	return nil
}

func (r *fakeContentRepo) get(id uint64) *domain.ContentItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *r.items[id]
	return &copied
}

func (r *fakeContentRepo) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}
