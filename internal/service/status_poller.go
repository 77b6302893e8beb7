package service

import (
	"sync"
	"time"

	"github.com/zuqon/content-backend/internal/domain"
	"github.com/zuqon/content-backend/internal/repository"
	pkglogger "github.com/zuqon/content-backend/pkg/logger"
)

const defaultPollInterval = 5 * time.Second

// SnapshotCallback receives publishing snapshots as they change.
type SnapshotCallback func(domain.PublishingSnapshot)

// SnapshotBroadcaster fans snapshots out to connected clients.
type SnapshotBroadcaster interface {
	BroadcastSnapshot(snapshot domain.PublishingSnapshot)
}

// StatusPoller re-reads publishing state for subscribed content ids on a
// fixed interval and pushes de-duplicated snapshots to subscribers. One
// polling goroutine runs per content id, so at most one store read is in
// flight per id; the goroutine stops when the last subscriber leaves.
type StatusPoller struct {
	contentRepo repository.ContentRepository
	broadcaster SnapshotBroadcaster
	interval    time.Duration

	mu       sync.Mutex
	watchers map[uint64]*watcher
}

type watcher struct {
	stop    chan struct{}
	subs    map[uint64]SnapshotCallback
	nextSub uint64
	last    *domain.PublishingSnapshot
}

func NewStatusPoller(contentRepo repository.ContentRepository, broadcaster SnapshotBroadcaster) *StatusPoller {
	return &StatusPoller{
		contentRepo: contentRepo,
		broadcaster: broadcaster,
		interval:    defaultPollInterval,
		watchers:    make(map[uint64]*watcher),
	}
}

// WithInterval overrides the poll interval, for tests.
func (p *StatusPoller) WithInterval(d time.Duration) *StatusPoller {
	p.interval = d
	return p
}

// Subscribe registers a callback for a content id and returns its
// unsubscribe handle. The first subscriber for an id starts its polling
// loop; the last one's unsubscribe stops it.
func (p *StatusPoller) Subscribe(contentID uint64, cb SnapshotCallback) (unsubscribe func()) {
	p.mu.Lock()
	w, ok := p.watchers[contentID]
	if !ok {
		w = &watcher{
			stop: make(chan struct{}),
			subs: make(map[uint64]SnapshotCallback),
		}
		p.watchers[contentID] = w
		go p.poll(contentID, w)
	}
	w.nextSub++
	subID := w.nextSub
	w.subs[subID] = cb
	replay := w.last
	p.mu.Unlock()

	// late subscribers get the current snapshot immediately
	if replay != nil {
		cb(*replay)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(w.subs, subID)
			if len(w.subs) == 0 {
				close(w.stop)
				delete(p.watchers, contentID)
			}
		})
	}
}

// Watching reports whether a polling loop is active for the content id.
func (p *StatusPoller) Watching(contentID uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.watchers[contentID]
	return ok
}

func (p *StatusPoller) poll(contentID uint64, w *watcher) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.pollOnce(contentID, w)
	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			p.pollOnce(contentID, w)
		}
	}
}

// pollOnce reads the current state and emits a snapshot if it changed.
// Items never submitted for publishing produce no update.
func (p *StatusPoller) pollOnce(contentID uint64, w *watcher) {
	item, err := p.contentRepo.FindByID(contentID)
	if err != nil {
		pkglogger.WithContentID(contentID).Warn().Err(err).Msg("status poll failed")
		return
	}

	snapshot := item.Snapshot()
	if snapshot.Status == domain.StatusNotPublished {
		return
	}

	p.mu.Lock()
	if w.last != nil && w.last.Equal(snapshot) {
		p.mu.Unlock()
		return
	}
	w.last = &snapshot
	callbacks := make([]SnapshotCallback, 0, len(w.subs))
	for _, cb := range w.subs {
		callbacks = append(callbacks, cb)
	}
	p.mu.Unlock()

	for _, cb := range callbacks {
		cb(snapshot)
	}
	if p.broadcaster != nil {
		p.broadcaster.BroadcastSnapshot(snapshot)
	}
}
