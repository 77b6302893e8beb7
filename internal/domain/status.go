package domain

import (
	"fmt"
	"strings"
)

// Platform is a social network a content item can be published to.
type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
)

// AllPlatforms lists every supported platform in display order.
var AllPlatforms = []Platform{PlatformFacebook, PlatformInstagram, PlatformTwitter}

// ParsePlatform normalizes a platform name arriving from the API or the
// automation webhook. Webhook payloads use capitalized names ("Facebook"),
// the UI may send "Twitter/X".
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "facebook":
		return PlatformFacebook, nil
	case "instagram":
		return PlatformInstagram, nil
	case "twitter", "twitter/x", "twitter_x", "x":
		return PlatformTwitter, nil
	}
	return "", fmt.Errorf("unknown platform %q", s)
}

// PublishStatus is the aggregate publishing status of a content item.
// It is always derived from the per-platform statuses, never set freely.
type PublishStatus string

const (
	StatusNotPublished   PublishStatus = "Not_Published"
	StatusReadyToPublish PublishStatus = "Ready_to_Publish"
	StatusPublishing     PublishStatus = "Publishing"
	StatusScheduled      PublishStatus = "Scheduled"
	StatusPublished      PublishStatus = "Published"
	StatusFailed         PublishStatus = "Failed"
)

// ParsePublishStatus validates a stored aggregate status. The record store
// has no schema enforcement of its own, so unknown values are rejected here
// at the read boundary instead of leaking into the state machine. An empty
// value means the item was never submitted for publishing.
func ParsePublishStatus(s string) (PublishStatus, error) {
	switch PublishStatus(strings.TrimSpace(s)) {
	case "", StatusNotPublished:
		return StatusNotPublished, nil
	case StatusReadyToPublish:
		return StatusReadyToPublish, nil
	case StatusPublishing:
		return StatusPublishing, nil
	case StatusScheduled:
		return StatusScheduled, nil
	case StatusPublished:
		return StatusPublished, nil
	case StatusFailed:
		return StatusFailed, nil
	}
	return "", fmt.Errorf("unknown publish status %q", s)
}

// Terminal reports whether the aggregate status blocks re-submission of the
// platforms it covers.
func (s PublishStatus) Terminal() bool {
	return s == StatusPublished || s == StatusScheduled
}

// PlatformStatus is the per-platform publishing outcome, independent per
// platform.
type PlatformStatus string

const (
	PlatformPending   PlatformStatus = "Pending"
	PlatformPublished PlatformStatus = "Published"
	PlatformFailed    PlatformStatus = "Failed"
)

// ParsePlatformStatus validates a stored per-platform status. Empty means
// the platform was never targeted (treated as Pending).
func ParsePlatformStatus(s string) (PlatformStatus, error) {
	switch PlatformStatus(strings.TrimSpace(s)) {
	case "", PlatformPending:
		return PlatformPending, nil
	case PlatformPublished:
		return PlatformPublished, nil
	case PlatformFailed:
		return PlatformFailed, nil
	}
	return "", fmt.Errorf("unknown platform status %q", s)
}

// Outcome is the result reported by the automation worker for one platform.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

// ParseOutcome validates a webhook result outcome.
func ParseOutcome(s string) (Outcome, error) {
	switch Outcome(strings.ToLower(strings.TrimSpace(s))) {
	case OutcomeSuccess:
		return OutcomeSuccess, nil
	case OutcomeFailed:
		return OutcomeFailed, nil
	}
	return "", fmt.Errorf("unknown outcome %q", s)
}

// IneligibilityReason explains why a platform cannot be targeted by a new
// publish or schedule request.
type IneligibilityReason string

const (
	ReasonPublished IneligibilityReason = "Published"
	ReasonScheduled IneligibilityReason = "Scheduled"
)
