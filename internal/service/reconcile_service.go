package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/zuqon/content-backend/internal/domain"
	"github.com/zuqon/content-backend/internal/repository"
	pkglogger "github.com/zuqon/content-backend/pkg/logger"
)

// Reconciler merges publish intents and asynchronous automation results
// into the stored publishing state. All writes for one content id are
// serialized; results can arrive duplicated or late, so confirmed
// per-platform outcomes are never regressed.
type Reconciler struct {
	contentRepo repository.ContentRepository

	mu    sync.Mutex
	locks map[uint64]*sync.Mutex

	now func() time.Time
}

func NewReconciler(contentRepo repository.ContentRepository) *Reconciler {
	return &Reconciler{
		contentRepo: contentRepo,
		locks:       make(map[uint64]*sync.Mutex),
		now:         time.Now,
	}
}

// lockFor returns the per-content mutex, creating it on first use.
func (r *Reconciler) lockFor(contentID uint64) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[contentID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[contentID] = l
	}
	return l
}

// MarkReady records a publish or schedule intent: aggregate status becomes
// Scheduled when a time is given, Ready_to_Publish otherwise; the platform
// set grows by union and never shrinks; requested platforms not yet
// published are set to Pending. Calling twice with the same arguments
// leaves the same stored state.
func (r *Reconciler) MarkReady(contentID uint64, platforms []domain.Platform, scheduledAt *time.Time) error {
	lock := r.lockFor(contentID)
	lock.Lock()
	defer lock.Unlock()

	item, err := r.contentRepo.FindByID(contentID)
	if err != nil {
		return err
	}

	target := domain.StatusReadyToPublish
	if scheduledAt != nil {
		target = domain.StatusScheduled
	}

	union := unionPlatforms(item.TargetedPlatforms(), platforms)

	fields := domain.PublishingFields{
		PublishStatus:    &target,
		PublishPlatforms: union,
	}
	changed := item.AggregateStatus() != target || len(union) != len(item.TargetedPlatforms())

	if scheduledAt != nil {
		at := scheduledAt.UTC()
		fields.ScheduledTime = &at
		if item.ScheduledTime == nil || !item.ScheduledTime.UTC().Equal(at) {
			changed = true
		}
	}

	for _, p := range platforms {
		if item.PlatformStatusFor(p) == domain.PlatformPublished {
			continue
		}
		pending := domain.PlatformPending
		setPlatformStatus(&fields, p, pending)
		if item.PlatformStatusFor(p) != domain.PlatformPending || platformStatusRaw(item, p) == "" {
			changed = true
		}
	}

	if !changed {
		return nil
	}

	note := fmt.Sprintf("Publish requested for %s at %s",
		joinPlatforms(platforms), r.now().UTC().Format(time.RFC3339))
	fields.PublishingNotes = &note

	if err := r.contentRepo.UpdatePublishingFields(contentID, fields); err != nil {
		return err
	}

	pkglogger.WithContentID(contentID).Info().
		Str("status", string(target)).
		Strs("platforms", platformStrings(union)).
		Msg("publish intent recorded")
	return nil
}

// ApplyResults applies a batch of per-platform outcomes and recomputes the
// aggregate status. The whole batch lands in one store write; a failed
// write leaves state untouched for a wholesale retry by the caller.
func (r *Reconciler) ApplyResults(contentID uint64, results []domain.PlatformResult) error {
	lock := r.lockFor(contentID)
	lock.Lock()
	defer lock.Unlock()

	item, err := r.contentRepo.FindByID(contentID)
	if err != nil {
		return err
	}

	log := pkglogger.WithContentID(contentID)

	fields := domain.PublishingFields{}
	next := map[domain.Platform]domain.PlatformStatus{}
	for _, p := range domain.AllPlatforms {
		next[p] = item.PlatformStatusFor(p)
	}

	var failMsgs []string
	var publishedAt *time.Time
	changed := false

	for _, res := range results {
		current := next[res.Platform]

		if res.Outcome == domain.OutcomeFailed && current == domain.PlatformPublished {
			// duplicate or late retry from the automation worker
			log.Warn().Str("platform", string(res.Platform)).
				Msg("ignoring failed result for already published platform")
			continue
		}

		if res.Outcome == domain.OutcomeSuccess {
			if current != domain.PlatformPublished {
				next[res.Platform] = domain.PlatformPublished
				setPlatformStatus(&fields, res.Platform, domain.PlatformPublished)
				changed = true
			}
			at := r.now().UTC()
			if res.PublishedAt != nil {
				at = res.PublishedAt.UTC()
			}
			if publishedAt == nil || at.After(*publishedAt) {
				publishedAt = &at
			}
		} else {
			if current != domain.PlatformFailed {
				next[res.Platform] = domain.PlatformFailed
				setPlatformStatus(&fields, res.Platform, domain.PlatformFailed)
				changed = true
			}
			msg := res.Message
			if msg == "" {
				msg = "publish failed"
			}
			failMsgs = append(failMsgs, fmt.Sprintf("%s: %s", displayName(res.Platform), msg))
		}
	}

	targeted := item.TargetedPlatforms()
	aggregate := recomputeAggregate(item.AggregateStatus(), targeted, next)
	if aggregate != item.AggregateStatus() {
		fields.PublishStatus = &aggregate
		changed = true
	}

	if publishedAt != nil {
		fields.PublishedAt = publishedAt
		changed = true
	}

	if len(failMsgs) > 0 {
		joined := strings.Join(failMsgs, "; ")
		fields.PublishingErrors = &joined
		changed = true
	}

	if !changed {
		return nil
	}

	if err := r.contentRepo.UpdatePublishingFields(contentID, fields); err != nil {
		return err
	}

	log.Info().
		Str("status", string(aggregate)).
		Int("results", len(results)).
		Int("failures", len(failMsgs)).
		Msg("publishing results reconciled")
	return nil
}

// recomputeAggregate derives the aggregate status from the targeted set's
// per-platform statuses. Partial completion keeps the current status.
func recomputeAggregate(current domain.PublishStatus, targeted []domain.Platform, statuses map[domain.Platform]domain.PlatformStatus) domain.PublishStatus {
	if len(targeted) == 0 {
		return current
	}

	allPublished := true
	anyFailed := false
	for _, p := range targeted {
		switch statuses[p] {
		case domain.PlatformPublished:
		case domain.PlatformFailed:
			allPublished = false
			anyFailed = true
		default:
			allPublished = false
		}
	}

	if allPublished {
		return domain.StatusPublished
	}
	if anyFailed {
		return domain.StatusFailed
	}
	return current
}

func setPlatformStatus(fields *domain.PublishingFields, p domain.Platform, st domain.PlatformStatus) {
	switch p {
	case domain.PlatformFacebook:
		fields.FacebookStatus = &st
	case domain.PlatformInstagram:
		fields.InstagramStatus = &st
	case domain.PlatformTwitter:
		fields.TwitterStatus = &st
	}
}

func platformStatusRaw(item *domain.ContentItem, p domain.Platform) string {
	switch p {
	case domain.PlatformFacebook:
		return item.FacebookStatus
	case domain.PlatformInstagram:
		return item.InstagramStatus
	case domain.PlatformTwitter:
		return item.TwitterStatus
	}
	return ""
}

func unionPlatforms(existing, requested []domain.Platform) []domain.Platform {
	seen := map[domain.Platform]bool{}
	var out []domain.Platform
	for _, p := range append(append([]domain.Platform{}, existing...), requested...) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

func platformStrings(platforms []domain.Platform) []string {
	out := make([]string, len(platforms))
	for i, p := range platforms {
		out[i] = string(p)
	}
	return out
}

func joinPlatforms(platforms []domain.Platform) string {
	return strings.Join(platformStrings(platforms), ", ")
}

// displayName capitalizes a platform for user-facing error messages.
func displayName(p domain.Platform) string {
	switch p {
	case domain.PlatformFacebook:
		return "Facebook"
	case domain.PlatformInstagram:
		return "Instagram"
	case domain.PlatformTwitter:
		return "Twitter"
	}
	return string(p)
}
