package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zuqon/content-backend/internal/common"
	"github.com/zuqon/content-backend/internal/domain"
	"github.com/zuqon/content-backend/internal/repository"
	"github.com/zuqon/content-backend/internal/service"
	"github.com/zuqon/content-backend/pkg/cache"
)

// ArticleHandler handles the saved-article pool and source configuration.
type ArticleHandler struct {
	articleService *service.ArticleService
	sourceRepo     repository.SourceRepository
	cache          cache.Service
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(articleService *service.ArticleService, sourceRepo repository.SourceRepository, cacheService cache.Service) *ArticleHandler {
	return &ArticleHandler{articleService: articleService, sourceRepo: sourceRepo, cache: cacheService}
}

// List handles GET /api/v1/articles
func (h *ArticleHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	ctx := c.Request.Context()

	if h.cache != nil {
		if cached, err := h.cache.GetArticles(ctx, page, limit); err == nil {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json", cached)
			return
		}
	}

	articles, total, err := h.articleService.List(page, limit)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list articles", err)
		return
	}

	response := common.APIResponse{
		Data: articles,
		Meta: &common.Meta{Page: page, Limit: limit, Total: total},
	}
	if h.cache != nil {
		_ = h.cache.SetArticles(ctx, page, limit, response)
	}
	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, response)
}

func (h *ArticleHandler) invalidateArticles(c *gin.Context) {
	if h.cache != nil {
		_ = h.cache.InvalidateArticles(c.Request.Context())
	}
}

func (h *ArticleHandler) invalidateSources(c *gin.Context) {
	if h.cache != nil {
		_ = h.cache.InvalidateSources(c.Request.Context())
	}
}

// Save handles POST /api/v1/articles
func (h *ArticleHandler) Save(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required"`
		URL         string `json:"url" binding:"required"`
		Description string `json:"description"`
		SourceName  string `json:"source_name"`
		ImageURL    string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	article := &domain.Article{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		SourceName:  req.SourceName,
		ImageURL:    req.ImageURL,
	}
	err := h.articleService.Save(article)
	if errors.Is(err, common.ErrDuplicateArticle) {
		common.ErrorResponse(c, http.StatusConflict, "article already saved", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to save article", err)
		return
	}
	h.invalidateArticles(c)
	common.SuccessResponse(c, article, nil)
}

// Delete handles DELETE /api/v1/articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.articleService.Delete(id); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to delete article", err)
		return
	}
	h.invalidateArticles(c)
	common.SuccessResponse(c, gin.H{"deleted": id}, nil)
}

// Ingest handles POST /api/v1/articles/ingest, an on-demand run of all
// enabled sources.
func (h *ArticleHandler) Ingest(c *gin.Context) {
	saved, err := h.articleService.IngestAll(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "ingestion failed", err)
		return
	}
	h.invalidateArticles(c)
	common.SuccessResponse(c, gin.H{"saved": saved}, nil)
}

// ListSources handles GET /api/v1/sources
func (h *ArticleHandler) ListSources(c *gin.Context) {
	ctx := c.Request.Context()
	if h.cache != nil {
		if cached, err := h.cache.GetSources(ctx); err == nil {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json", cached)
			return
		}
	}

	sources, err := h.sourceRepo.ListAll()
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list sources", err)
		return
	}

	response := common.APIResponse{Data: sources}
	if h.cache != nil {
		_ = h.cache.SetSources(ctx, response)
	}
	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, response)
}

type sourceRequest struct {
	Name    string `json:"name" binding:"required"`
	Type    string `json:"type" binding:"required,oneof=rss newsapi"`
	URL     string `json:"url"`
	Query   string `json:"query"`
	Enabled *bool  `json:"enabled"`
}

func (r *sourceRequest) toDomain() *domain.Source {
	source := &domain.Source{
		Name:    r.Name,
		Type:    r.Type,
		URL:     r.URL,
		Query:   r.Query,
		Enabled: true,
	}
	if r.Enabled != nil {
		source.Enabled = *r.Enabled
	}
	return source
}

// CreateSource handles POST /api/v1/sources
func (h *ArticleHandler) CreateSource(c *gin.Context) {
	var req sourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	source := req.toDomain()
	if err := h.sourceRepo.Create(source); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to create source", err)
		return
	}
	h.invalidateSources(c)
	common.SuccessResponse(c, source, nil)
}

// UpdateSource handles PUT /api/v1/sources/:id
func (h *ArticleHandler) UpdateSource(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req sourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	source, err := h.sourceRepo.FindByID(id)
	if errors.Is(err, common.ErrSourceNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "source not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to load source", err)
		return
	}

	source.Name = req.Name
	source.Type = req.Type
	source.URL = req.URL
	source.Query = req.Query
	if req.Enabled != nil {
		source.Enabled = *req.Enabled
	}

	if err := h.sourceRepo.Update(source); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to update source", err)
		return
	}
	h.invalidateSources(c)
	common.SuccessResponse(c, source, nil)
}

// DeleteSource handles DELETE /api/v1/sources/:id
func (h *ArticleHandler) DeleteSource(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.sourceRepo.Delete(id); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to delete source", err)
		return
	}
	h.invalidateSources(c)
	common.SuccessResponse(c, gin.H{"deleted": id}, nil)
}

// TestSource handles POST /api/v1/sources/test — probes a source config
// without saving anything.
func (h *ArticleHandler) TestSource(c *gin.Context) {
	var req sourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	found, err := h.articleService.TestSource(c.Request.Context(), req.toDomain())
	if err != nil {
		common.ErrorResponse(c, http.StatusUnprocessableEntity, "source probe failed", err)
		return
	}
	common.SuccessResponse(c, gin.H{"found": found}, nil)
}
