package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zuqon/content-backend/internal/common"
	"github.com/zuqon/content-backend/internal/domain"
	"github.com/zuqon/content-backend/internal/service"
)

// GraphicStorage uploads a generated graphic and returns its public URL.
type GraphicStorage interface {
	UploadGraphic(ctx context.Context, filename string, body io.Reader, contentType string, size int64) (string, error)
}

// ContentHandler handles content CRUD, generation and publishing-state
// reads.
type ContentHandler struct {
	contentService *service.ContentService
	publishService *service.PublishService
	selections     service.SelectionStore
	graphics       GraphicStorage
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(
	contentService *service.ContentService,
	publishService *service.PublishService,
	selections service.SelectionStore,
	graphics GraphicStorage,
) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		publishService: publishService,
		selections:     selections,
		graphics:       graphics,
	}
}

func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid content ID", err)
		return 0, false
	}
	return id, true
}

// List handles GET /api/v1/contents
func (h *ContentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	list, err := h.contentService.List(c.Request.Context(), page, limit)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list content", err)
		return
	}
	common.SuccessResponse(c, list.Items, &common.Meta{Page: page, Limit: limit, Total: list.Total})
}

// Get handles GET /api/v1/contents/:id
func (h *ContentHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.contentService.Get(id)
	if errors.Is(err, common.ErrContentNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "content not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to load content", err)
		return
	}
	common.SuccessResponse(c, item, nil)
}

// Update handles PUT /api/v1/contents/:id
func (h *ContentHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.contentService.Get(id)
	if errors.Is(err, common.ErrContentNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "content not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to load content", err)
		return
	}

	var req struct {
		Name          *string `json:"name"`
		FacebookPost  *string `json:"facebook_post"`
		InstagramPost *string `json:"instagram_post"`
		TwitterPost   *string `json:"twitter_post"`
		VideoScript   *string `json:"video_script"`
		GraphicURL    *string `json:"graphic_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.FacebookPost != nil {
		item.FacebookPost = *req.FacebookPost
	}
	if req.InstagramPost != nil {
		item.InstagramPost = *req.InstagramPost
	}
	if req.TwitterPost != nil {
		item.TwitterPost = *req.TwitterPost
	}
	if req.VideoScript != nil {
		item.VideoScript = *req.VideoScript
	}
	if req.GraphicURL != nil {
		item.GraphicURL = *req.GraphicURL
	}

	if err := h.contentService.Update(item); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to update content", err)
		return
	}
	common.SuccessResponse(c, item, nil)
}

// Delete handles DELETE /api/v1/contents/:id
func (h *ContentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.contentService.Delete(id); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to delete content", err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": id}, nil)
}

// Generate handles POST /api/v1/contents/generate
func (h *ContentHandler) Generate(c *gin.Context) {
	var req struct {
		ArticleID uint64 `json:"article_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	item, err := h.contentService.GenerateFromArticle(c.Request.Context(), req.ArticleID)
	if errors.Is(err, common.ErrArticleNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "article not found", err)
		return
	}
	if errors.Is(err, common.ErrNoActivePrompt) {
		common.ErrorResponse(c, http.StatusUnprocessableEntity, "no active prompt configured", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "content generation failed", err)
		return
	}
	common.SuccessResponse(c, item, nil)
}

// UploadGraphic handles POST /api/v1/contents/:id/graphic — stores the
// uploaded file and records its public URL on the content item.
func (h *ContentHandler) UploadGraphic(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if h.graphics == nil {
		common.ErrorResponse(c, http.StatusServiceUnavailable, "graphic storage not configured", nil)
		return
	}

	item, err := h.contentService.Get(id)
	if errors.Is(err, common.ErrContentNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "content not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to load content", err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "file is required", err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "failed to read file", err)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := h.graphics.UploadGraphic(c.Request.Context(), fileHeader.Filename, file, contentType, fileHeader.Size)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "graphic upload failed", err)
		return
	}

	item.GraphicURL = url
	if err := h.contentService.Update(item); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to save graphic URL", err)
		return
	}
	common.SuccessResponse(c, gin.H{"graphic_url": url}, nil)
}

// Status handles GET /api/v1/contents/:id/status
func (h *ContentHandler) Status(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	snapshot, err := h.contentService.Snapshot(c.Request.Context(), id)
	if errors.Is(err, common.ErrContentNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "content not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to read status", err)
		return
	}
	common.SuccessResponse(c, snapshot, nil)
}

// Platforms handles GET /api/v1/contents/:id/platforms
func (h *ContentHandler) Platforms(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	verdicts, err := h.publishService.EligiblePlatforms(id)
	if errors.Is(err, common.ErrContentNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "content not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to evaluate platforms", err)
		return
	}
	common.SuccessResponse(c, verdicts, nil)
}

// GetSelection handles GET /api/v1/contents/:id/selection
func (h *ContentHandler) GetSelection(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	platforms, err := h.selections.Get(c.Request.Context(), id)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to read selection", err)
		return
	}
	common.SuccessResponse(c, gin.H{"platforms": platforms}, nil)
}

// SetSelection handles PUT /api/v1/contents/:id/selection
func (h *ContentHandler) SetSelection(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		Platforms []string `json:"platforms"`
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

	if err := h.selections.Set(c.Request.Context(), id, platforms); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to save selection", err)
		return
	}
	common.SuccessResponse(c, gin.H{"platforms": platforms}, nil)
}
