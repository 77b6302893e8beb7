package service

import (
	"github.com/zuqon/content-backend/internal/domain"
)

// Eligibility decides which platforms may still be targeted by a new
// publish or schedule request. A platform with a post already live or a
// pending scheduled send is blocked; every other platform on the same
// content item remains independently actionable.
type Eligibility struct{}

func NewEligibility() *Eligibility {
	return &Eligibility{}
}

// IsEligible reports whether platform can be targeted on item.
func (e *Eligibility) IsEligible(item *domain.ContentItem, platform domain.Platform) bool {
	_, ok := e.IneligibilityReason(item, platform)
	return !ok
}

// IneligibilityReason returns why a platform is blocked, if it is.
func (e *Eligibility) IneligibilityReason(item *domain.ContentItem, platform domain.Platform) (domain.IneligibilityReason, bool) {
	targeted := false
	for _, p := range item.TargetedPlatforms() {
		if p == platform {
			targeted = true
			break
		}
	}

	status := item.AggregateStatus()
	if targeted && status == domain.StatusPublished {
		return domain.ReasonPublished, true
	}
	if targeted && status == domain.StatusScheduled {
		return domain.ReasonScheduled, true
	}
	// The aggregate may have moved on while this platform's own record
	// still shows published.
	if item.PlatformStatusFor(platform) == domain.PlatformPublished {
		return domain.ReasonPublished, true
	}
	return "", false
}

// EligiblePlatforms returns the verdict for every supported platform, for
// the UI's platform picker.
func (e *Eligibility) EligiblePlatforms(item *domain.ContentItem) []domain.PlatformEligibility {
	out := make([]domain.PlatformEligibility, 0, len(domain.AllPlatforms))
	for _, p := range domain.AllPlatforms {
		reason, blocked := e.IneligibilityReason(item, p)
		out = append(out, domain.PlatformEligibility{
			Platform: p,
			Eligible: !blocked,
			Reason:   reason,
		})
	}
	return out
}
