package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zuqon/content-backend/internal/common"
	"github.com/zuqon/content-backend/internal/domain"
	"github.com/zuqon/content-backend/internal/middleware"
	"github.com/zuqon/content-backend/internal/service"
)

// PublishHandler handles publish/schedule requests and the automation
// result callbacks.
type PublishHandler struct {
	publishService *service.PublishService
}

// NewPublishHandler creates a new PublishHandler
func NewPublishHandler(publishService *service.PublishService) *PublishHandler {
	return &PublishHandler{publishService: publishService}
}

// RequestPublish handles POST /api/v1/contents/:id/publish
func (h *PublishHandler) RequestPublish(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		Platforms     []string `json:"platforms" binding:"required"`
		ScheduledTime string   `json:"scheduled_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	platforms := make([]domain.Platform, 0, len(req.Platforms))
	for _, raw := range req.Platforms {
		p, err := domain.ParsePlatform(raw)
		if err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "unknown platform", err)
			return
		}
		platforms = append(platforms, p)
	}

	var scheduledAt *time.Time
	if req.ScheduledTime != "" {
		at, err := time.Parse(time.RFC3339, req.ScheduledTime)
		if err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "invalid scheduled_time, want RFC3339", err)
			return
		}
		scheduledAt = &at
	}

	outcome, err := h.publishService.RequestPublish(c.Request.Context(), id, platforms, scheduledAt)
	switch {
	case errors.Is(err, common.ErrEmptyPlatformSet):
		middleware.CountPublishRequest("rejected")
		common.ErrorResponse(c, http.StatusBadRequest, "no platforms selected", err)
		return
	case errors.Is(err, common.ErrMissingContent):
		middleware.CountPublishRequest("rejected")
		common.ErrorResponse(c, http.StatusUnprocessableEntity, err.Error(), err)
		return
	case errors.Is(err, common.ErrAllPlatformsIneligible):
		middleware.CountPublishRequest("rejected")
		common.ErrorResponse(c, http.StatusConflict, "all selected platforms are already published or scheduled", err)
		return
	case errors.Is(err, common.ErrContentNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "content not found", err)
		return
	case err != nil:
		common.ErrorResponse(c, http.StatusInternalServerError, "publish request failed", err)
		return
	}

	if outcome.Degraded {
		middleware.CountPublishRequest("degraded")
		common.AcceptedResponse(c, outcome, "automation webhook unreachable, publish intent recorded")
		return
	}
	middleware.CountPublishRequest("dispatched")
	common.SuccessResponse(c, outcome, nil)
}

type resultPayload struct {
	Platform    string     `json:"platform" binding:"required"`
	Status      string     `json:"status" binding:"required"`
	PostID      string     `json:"post_id"`
	Message     string     `json:"message"`
	PublishedAt *time.Time `json:"published_at"`
}

func parseResults(payload []resultPayload) ([]domain.PlatformResult, error) {
	results := make([]domain.PlatformResult, 0, len(payload))
	for _, r := range payload {
		platform, err := domain.ParsePlatform(r.Platform)
		if err != nil {
			return nil, err
		}
		outcome, err := domain.ParseOutcome(r.Status)
		if err != nil {
			return nil, err
		}
		results = append(results, domain.PlatformResult{
			Platform:    platform,
			Outcome:     outcome,
			PostID:      r.PostID,
			Message:     r.Message,
			PublishedAt: r.PublishedAt,
		})
	}
	return results, nil
}

// ReceiveResults handles POST /api/v1/webhooks/publish-results, the
// automation worker's callback.
func (h *PublishHandler) ReceiveResults(c *gin.Context) {
	var req struct {
		ContentID uint64          `json:"content_id" binding:"required"`
		Results   []resultPayload `json:"results" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	results, err := parseResults(req.Results)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid result entry", err)
		return
	}

	if err := h.publishService.ReceiveResults(req.ContentID, results); err != nil {
		if errors.Is(err, common.ErrContentNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "content not found", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to apply results", err)
		return
	}

	for _, r := range results {
		middleware.CountPublishResult(string(r.Platform), string(r.Outcome))
	}
	common.SuccessResponse(c, gin.H{"applied": len(results)}, nil)
}

// SimulateResults handles POST /api/v1/webhooks/publish-results/simulate.
// It fabricates a result batch for every targeted platform of a content
// item, matching the
// automation worker's payload shape, for testing the reconciliation path
// end to end.
func (h *PublishHandler) SimulateResults(c *gin.Context) {
	var req struct {
		ContentID uint64 `json:"content_id" binding:"required"`
		Outcome   string `json:"outcome" binding:"required"`
		Message   string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	outcome, err := domain.ParseOutcome(req.Outcome)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid outcome", err)
		return
	}

	pending, err := h.publishService.PendingPlatforms(req.ContentID)
	if errors.Is(err, common.ErrContentNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "content not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to load content", err)
		return
	}

	now := time.Now().UTC()
	message := req.Message
	if message == "" && outcome == domain.OutcomeFailed {
		message = "simulated failure"
	}

	results := make([]domain.PlatformResult, 0, len(pending))
	for _, p := range pending {
		results = append(results, domain.PlatformResult{
			Platform:    p,
			Outcome:     outcome,
			Message:     message,
			PublishedAt: &now,
		})
	}
	if len(results) == 0 {
		common.ErrorResponse(c, http.StatusConflict, "no platforms left to simulate", nil)
		return
	}

	if err := h.publishService.ReceiveResults(req.ContentID, results); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to apply simulated results", err)
		return
	}
	common.SuccessResponse(c, gin.H{"applied": len(results)}, nil)
}
