package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zuqon/content-backend/internal/common"
	"github.com/zuqon/content-backend/internal/domain"
	"github.com/zuqon/content-backend/pkg/automation"
)

type mockTrigger struct {
	mock.Mock
}

func (m *mockTrigger) TriggerPublish(ctx context.Context, payload automation.PublishPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func newPublishService(repo *fakeContentRepo, trigger AutomationTrigger) (*PublishService, SelectionStore) {
	selections := NewMemorySelectionStore()
	return NewPublishService(repo, NewReconciler(repo), NewEligibility(), trigger, selections), selections
}

func TestRequestPublishEmptyPlatformSet(t *testing.T) {
	repo := newFakeContentRepo(&domain.ContentItem{ID: 1})
	trigger := new(mockTrigger)
	svc, _ := newPublishService(repo, trigger)

	_, err := svc.RequestPublish(context.Background(), 1, nil, nil)

	assert.ErrorIs(t, err, common.ErrEmptyPlatformSet)
	trigger.AssertNotCalled(t, "TriggerPublish")
	assert.Equal(t, 0, repo.writeCount())
}

func TestRequestPublishMissingContentFailsFast(t *testing.T) {
	repo := newFakeContentRepo(&domain.ContentItem{ID: 1, FacebookPost: "Hello", InstagramPost: ""})
	trigger := new(mockTrigger)
	svc, _ := newPublishService(repo, trigger)

	// any platform without a caption rejects the whole request
	_, err := svc.RequestPublish(context.Background(), 1,
		[]domain.Platform{domain.PlatformFacebook, domain.PlatformInstagram}, nil)

	assert.ErrorIs(t, err, common.ErrMissingContent)
	assert.Contains(t, err.Error(), "Instagram")
	trigger.AssertNotCalled(t, "TriggerPublish")
	assert.Equal(t, 0, repo.writeCount())
}

func TestRequestPublishContentNotFound(t *testing.T) {
	repo := newFakeContentRepo()
	trigger := new(mockTrigger)
	svc, _ := newPublishService(repo, trigger)

	_, err := svc.RequestPublish(context.Background(), 99, []domain.Platform{domain.PlatformFacebook}, nil)
	assert.ErrorIs(t, err, common.ErrContentNotFound)
}

func TestRequestPublishAllIneligible(t *testing.T) {
	repo := newFakeContentRepo(&domain.ContentItem{
		ID:               1,
		FacebookPost:     "Hello",
		PublishStatus:    "Published",
		PublishPlatforms: []domain.Platform{"facebook"},
		FacebookStatus:   "Published",
	})
	trigger := new(mockTrigger)
	svc, _ := newPublishService(repo, trigger)

	_, err := svc.RequestPublish(context.Background(), 1, []domain.Platform{domain.PlatformFacebook}, nil)

	assert.ErrorIs(t, err, common.ErrAllPlatformsIneligible)
	trigger.AssertNotCalled(t, "TriggerPublish")
}

func TestRequestPublishSuccess(t *testing.T) {
	repo := newFakeContentRepo(&domain.ContentItem{ID: 1, Name: "Launch", FacebookPost: "Hello"})
	trigger := new(mockTrigger)
	trigger.On("TriggerPublish", mock.Anything, mock.MatchedBy(func(p automation.PublishPayload) bool {
		return p.ContentID == 1 && len(p.PublishPlatforms) == 1 && p.PublishPlatforms[0] == "facebook"
	})).Return(nil)
	svc, selections := newPublishService(repo, trigger)
	assert.NoError(t, selections.Set(context.Background(), 1, []domain.Platform{domain.PlatformFacebook}))

	outcome, err := svc.RequestPublish(context.Background(), 1, []domain.Platform{domain.PlatformFacebook}, nil)

	assert.NoError(t, err)
	assert.False(t, outcome.Degraded)
	assert.Equal(t, domain.StatusReadyToPublish, outcome.Status)

	item := repo.get(1)
	assert.Equal(t, "Ready_to_Publish", item.PublishStatus)
	assert.Equal(t, []domain.Platform{domain.PlatformFacebook}, item.TargetedPlatforms())

	// selection cleared so a repeated submit needs re-selection
	sel, _ := selections.Get(context.Background(), 1)
	assert.Empty(t, sel)
	trigger.AssertExpectations(t)
}

func TestRequestPublishTransportErrorFallsBack(t *testing.T) {
	repo := newFakeContentRepo(&domain.ContentItem{ID: 1, FacebookPost: "Hello"})
	trigger := new(mockTrigger)
	trigger.On("TriggerPublish", mock.Anything, mock.Anything).
		Return(&automation.TransportError{Err: errors.New("connection refused")})
	svc, _ := newPublishService(repo, trigger)

	outcome, err := svc.RequestPublish(context.Background(), 1, []domain.Platform{domain.PlatformFacebook}, nil)

	assert.NoError(t, err)
	assert.True(t, outcome.Degraded)
	assert.Equal(t, "Ready_to_Publish", repo.get(1).PublishStatus)
}

func TestRequestPublishScheduled(t *testing.T) {
	repo := newFakeContentRepo(&domain.ContentItem{ID: 1, TwitterPost: "Soon"})
	trigger := new(mockTrigger)
	trigger.On("TriggerPublish", mock.Anything, mock.MatchedBy(func(p automation.PublishPayload) bool {
		return p.ScheduledTime != ""
	})).Return(nil)
	svc, _ := newPublishService(repo, trigger)

	at := time.Now().Add(2 * time.Hour).UTC()
	outcome, err := svc.RequestPublish(context.Background(), 1, []domain.Platform{domain.PlatformTwitter}, &at)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, outcome.Status)
	assert.Equal(t, "Scheduled", repo.get(1).PublishStatus)
}

func TestRequestPublishDropsIneligibleSubset(t *testing.T) {
	repo := newFakeContentRepo(&domain.ContentItem{
		ID:               1,
		FacebookPost:     "Hello",
		TwitterPost:      "Hi",
		PublishStatus:    "Published",
		PublishPlatforms: []domain.Platform{"facebook"},
		FacebookStatus:   "Published",
	})
	trigger := new(mockTrigger)
	trigger.On("TriggerPublish", mock.Anything, mock.MatchedBy(func(p automation.PublishPayload) bool {
		return len(p.PublishPlatforms) == 1 && p.PublishPlatforms[0] == "twitter"
	})).Return(nil)
	svc, _ := newPublishService(repo, trigger)

	outcome, err := svc.RequestPublish(context.Background(), 1,
		[]domain.Platform{domain.PlatformFacebook, domain.PlatformTwitter}, nil)

	assert.NoError(t, err)
	assert.Equal(t, []domain.Platform{domain.PlatformTwitter}, outcome.Platforms)
	trigger.AssertExpectations(t)
}

// End-to-end scenario: request, succeed, then a duplicate late failure
// arrives and is ignored.
func TestPublishLifecycleScenario(t *testing.T) {
	repo := newFakeContentRepo(&domain.ContentItem{ID: 1, FacebookPost: "Hello", InstagramPost: ""})
	trigger := new(mockTrigger)
	trigger.On("TriggerPublish", mock.Anything, mock.Anything).Return(nil)
	svc, _ := newPublishService(repo, trigger)
	ctx := context.Background()

	_, err := svc.RequestPublish(ctx, 1, []domain.Platform{domain.PlatformFacebook, domain.PlatformInstagram}, nil)
	assert.ErrorIs(t, err, common.ErrMissingContent)
	assert.Equal(t, 0, repo.writeCount())

	_, err = svc.RequestPublish(ctx, 1, []domain.Platform{domain.PlatformFacebook}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "Ready_to_Publish", repo.get(1).PublishStatus)

	published := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	err = svc.ReceiveResults(1, []domain.PlatformResult{
		{Platform: domain.PlatformFacebook, Outcome: domain.OutcomeSuccess, PublishedAt: &published},
	})
	assert.NoError(t, err)

	item := repo.get(1)
	assert.Equal(t, "Published", item.PublishStatus)
	assert.Equal(t, "Published", item.FacebookStatus)
	assert.True(t, item.PublishedAt.Equal(published))

	err = svc.ReceiveResults(1, []domain.PlatformResult{
		{Platform: domain.PlatformFacebook, Outcome: domain.OutcomeFailed},
	})
	assert.NoError(t, err)
	assert.Equal(t, "Published", repo.get(1).PublishStatus, "late failure must not regress")
}
