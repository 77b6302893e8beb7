package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zuqon/content-backend/internal/common"
	"github.com/zuqon/content-backend/internal/domain"
	"github.com/zuqon/content-backend/internal/repository"
)

// PromptHandler manages generation prompt templates.
type PromptHandler struct {
	promptRepo repository.PromptRepository
}

// NewPromptHandler creates a new PromptHandler
func NewPromptHandler(promptRepo repository.PromptRepository) *PromptHandler {
	return &PromptHandler{promptRepo: promptRepo}
}

// List handles GET /api/v1/prompts
func (h *PromptHandler) List(c *gin.Context) {
	prompts, err := h.promptRepo.ListAll()
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list prompts", err)
		return
	}
	common.SuccessResponse(c, prompts, nil)
}

// Create handles POST /api/v1/prompts
func (h *PromptHandler) Create(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Template string `json:"template" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	prompt := &domain.Prompt{Name: req.Name, Template: req.Template}
	if err := h.promptRepo.Create(prompt); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to create prompt", err)
		return
	}
	common.SuccessResponse(c, prompt, nil)
}

// Update handles PUT /api/v1/prompts/:id
func (h *PromptHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	prompt, err := h.promptRepo.FindByID(id)
	if errors.Is(err, common.ErrPromptNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "prompt not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to load prompt", err)
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Template *string `json:"template"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Name != nil {
		prompt.Name = *req.Name
	}
	if req.Template != nil {
		prompt.Template = *req.Template
	}

	if err := h.promptRepo.Update(prompt); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to update prompt", err)
		return
	}
	common.SuccessResponse(c, prompt, nil)
}

// Activate handles POST /api/v1/prompts/:id/activate
func (h *PromptHandler) Activate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	err := h.promptRepo.SetActive(id)
	if errors.Is(err, common.ErrPromptNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "prompt not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to activate prompt", err)
		return
	}
	common.SuccessResponse(c, gin.H{"active": id}, nil)
}

// Delete handles DELETE /api/v1/prompts/:id
func (h *PromptHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.promptRepo.Delete(id); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to delete prompt", err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": id}, nil)
}
