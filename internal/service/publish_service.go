package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zuqon/content-backend/internal/common"
	"github.com/zuqon/content-backend/internal/domain"
	"github.com/zuqon/content-backend/internal/repository"
	"github.com/zuqon/content-backend/pkg/automation"
	pkglogger "github.com/zuqon/content-backend/pkg/logger"
)

// AutomationTrigger dispatches publish requests to the automation
// platform.
type AutomationTrigger interface {
	TriggerPublish(ctx context.Context, payload automation.PublishPayload) error
}

// PublishOutcome reports how a publish request was handed off.
type PublishOutcome struct {
	Platforms []domain.Platform `json:"platforms"`
	Status    domain.PublishStatus
	// Degraded is set when the automation webhook was unreachable and the
	// intent was only recorded locally.
	Degraded bool
}

// PublishService validates publish/schedule requests and hands them to the
// automation trigger, with the reconciler as the durable fallback path.
type PublishService struct {
	contentRepo repository.ContentRepository
	reconciler  *Reconciler
	eligibility *Eligibility
	trigger     AutomationTrigger
	selections  SelectionStore
}

func NewPublishService(
	contentRepo repository.ContentRepository,
	reconciler *Reconciler,
	eligibility *Eligibility,
	trigger AutomationTrigger,
	selections SelectionStore,
) *PublishService {
	return &PublishService{
		contentRepo: contentRepo,
		reconciler:  reconciler,
		eligibility: eligibility,
		trigger:     trigger,
		selections:  selections,
	}
}

// RequestPublish validates the request, dispatches it, and records the
// intent. Validation failures leave no trace: no store write, no trigger
// call. A transport failure still records the intent and reports a
// degraded outcome.
func (s *PublishService) RequestPublish(ctx context.Context, contentID uint64, platforms []domain.Platform, scheduledAt *time.Time) (*PublishOutcome, error) {
	if len(platforms) == 0 {
		return nil, common.ErrEmptyPlatformSet
	}

	item, err := s.contentRepo.FindByID(contentID)
	if err != nil {
		return nil, err
	}

	// Fail fast when any requested platform has no caption; no partial
	// silent drop.
	for _, p := range platforms {
		if item.PostFor(p) == "" {
			return nil, fmt.Errorf("%w: %s post is empty", common.ErrMissingContent, displayName(p))
		}
	}

	eligible := make([]domain.Platform, 0, len(platforms))
	for _, p := range platforms {
		if s.eligibility.IsEligible(item, p) {
			eligible = append(eligible, p)
		}
	}
	if len(eligible) == 0 {
		return nil, common.ErrAllPlatformsIneligible
	}

	payload := automation.PublishPayload{
		ContentID:        item.ID,
		Name:             item.Name,
		OriginalURL:      item.SourceURL,
		FacebookPost:     item.FacebookPost,
		InstagramPost:    item.InstagramPost,
		TwitterPost:      item.TwitterPost,
		GraphicURL:       item.GraphicURL,
		PublishPlatforms: platformStrings(eligible),
	}
	if scheduledAt != nil {
		payload.ScheduledTime = scheduledAt.UTC().Format(time.RFC3339)
	}

	outcome := &PublishOutcome{Platforms: eligible, Status: domain.StatusReadyToPublish}
	if scheduledAt != nil {
		outcome.Status = domain.StatusScheduled
	}

	triggerErr := s.trigger.TriggerPublish(ctx, payload)
	if triggerErr != nil {
		var te *automation.TransportError
		if !errors.As(triggerErr, &te) {
			return nil, triggerErr
		}
		// Webhook unreachable: record the intent locally so the store
		// still reflects it, and report a degraded hand-off.
		outcome.Degraded = true
		pkglogger.WithContentID(contentID).Warn().Err(triggerErr).
			Msg("automation trigger failed, recording intent locally")
	}

	if err := s.reconciler.MarkReady(contentID, eligible, scheduledAt); err != nil {
		return nil, err
	}

	if err := s.selections.Clear(ctx, contentID); err != nil {
		pkglogger.WithContentID(contentID).Warn().Err(err).Msg("failed to clear platform selection")
	}

	return outcome, nil
}

// EligiblePlatforms returns the per-platform eligibility verdicts for a
// content item.
func (s *PublishService) EligiblePlatforms(contentID uint64) ([]domain.PlatformEligibility, error) {
	item, err := s.contentRepo.FindByID(contentID)
	if err != nil {
		return nil, err
	}
	return s.eligibility.EligiblePlatforms(item), nil
}

// PendingPlatforms returns the targeted platforms still awaiting a result.
func (s *PublishService) PendingPlatforms(contentID uint64) ([]domain.Platform, error) {
	item, err := s.contentRepo.FindByID(contentID)
	if err != nil {
		return nil, err
	}
	var pending []domain.Platform
	for _, p := range item.TargetedPlatforms() {
		if item.PlatformStatusFor(p) != domain.PlatformPublished {
			pending = append(pending, p)
		}
	}
	return pending, nil
}

// ReceiveResults is the inbound path for automation worker callbacks.
func (s *PublishService) ReceiveResults(contentID uint64, results []domain.PlatformResult) error {
	return s.reconciler.ApplyResults(contentID, results)
}
