package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zuqon/content-backend/internal/domain"
)

type snapshotCollector struct {
	mu        sync.Mutex
	snapshots []domain.PublishingSnapshot
}

func (c *snapshotCollector) collect(s domain.PublishingSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots = append(c.snapshots, s)
}

func (c *snapshotCollector) all() []domain.PublishingSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.PublishingSnapshot, len(c.snapshots))
	copy(out, c.snapshots)
	return out
}

func TestPollerEmitsOnChangeOnly(t *testing.T) {
	repo := newFakeContentRepo(&domain.ContentItem{
		ID:               1,
		PublishStatus:    "Publishing",
		PublishPlatforms: []domain.Platform{"facebook"},
	})
	poller := NewStatusPoller(repo, nil).WithInterval(10 * time.Millisecond)
	col := &snapshotCollector{}

	unsubscribe := poller.Subscribe(1, col.collect)
	defer unsubscribe()

	// several poll ticks over identical state
	time.Sleep(60 * time.Millisecond)
	assert.Len(t, col.all(), 1, "identical snapshots are de-duplicated")

	status := domain.StatusPublished
	st := domain.PlatformPublished
	assert.NoError(t, repo.UpdatePublishingFields(1, domain.PublishingFields{
		PublishStatus:  &status,
		FacebookStatus: &st,
	}))

	assert.Eventually(t, func() bool {
		snaps := col.all()
		return len(snaps) == 2 && snaps[1].Status == domain.StatusPublished
	}, time.Second, 10*time.Millisecond)
}

func TestPollerSkipsNeverPublishedItems(t *testing.T) {
	repo := newFakeContentRepo(&domain.ContentItem{ID: 1, PublishStatus: ""})
	poller := NewStatusPoller(repo, nil).WithInterval(10 * time.Millisecond)
	col := &snapshotCollector{}

	unsubscribe := poller.Subscribe(1, col.collect)
	defer unsubscribe()

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, col.all())
}

func TestPollerUnsubscribeStopsLoop(t *testing.T) {
	repo := newFakeContentRepo(&domain.ContentItem{ID: 1, PublishStatus: "Publishing"})
	poller := NewStatusPoller(repo, nil).WithInterval(10 * time.Millisecond)

	unsubscribe := poller.Subscribe(1, func(domain.PublishingSnapshot) {})
	assert.True(t, poller.Watching(1))

	unsubscribe()
	assert.False(t, poller.Watching(1))

	// second call is a no-op
	unsubscribe()
}

func TestPollerSharedLoopPerContentID(t *testing.T) {
	repo := newFakeContentRepo(&domain.ContentItem{ID: 1, PublishStatus: "Publishing"})
	poller := NewStatusPoller(repo, nil).WithInterval(10 * time.Millisecond)

	colA := &snapshotCollector{}
	colB := &snapshotCollector{}
	unsubA := poller.Subscribe(1, colA.collect)
	unsubB := poller.Subscribe(1, colB.collect)

	assert.Eventually(t, func() bool {
		return len(colA.all()) == 1 && len(colB.all()) == 1
	}, time.Second, 10*time.Millisecond)

	unsubA()
	assert.True(t, poller.Watching(1), "loop survives while a subscriber remains")
	unsubB()
	assert.False(t, poller.Watching(1))
}

type fakeBroadcaster struct {
	mu    sync.Mutex
	count int
}

func (b *fakeBroadcaster) BroadcastSnapshot(domain.PublishingSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count++
}

func TestPollerFansOutToBroadcaster(t *testing.T) {
	repo := newFakeContentRepo(&domain.ContentItem{ID: 1, PublishStatus: "Publishing"})
	b := &fakeBroadcaster{}
	poller := NewStatusPoller(repo, b).WithInterval(10 * time.Millisecond)

	unsubscribe := poller.Subscribe(1, func(domain.PublishingSnapshot) {})
	defer unsubscribe()

	assert.Eventually(t, func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.count == 1
	}, time.Second, 10*time.Millisecond)
}
