package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/zuqon/content-backend/internal/config"
	"github.com/zuqon/content-backend/internal/handler"
	"github.com/zuqon/content-backend/internal/middleware"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	contentHandler *handler.ContentHandler,
	publishHandler *handler.PublishHandler,
	articleHandler *handler.ArticleHandler,
	promptHandler *handler.PromptHandler,
	wsHandler *handler.WSHandler,
	cfg *config.Config,
) {
	api := router.Group("/api/v1")

	// Generated content
	contents := api.Group("/contents")
	contents.GET("", contentHandler.List)
	contents.GET("/:id", contentHandler.Get)
	contents.PUT("/:id", contentHandler.Update)
	contents.DELETE("/:id", contentHandler.Delete)
	contents.POST("/generate", contentHandler.Generate)
	contents.POST("/:id/graphic", contentHandler.UploadGraphic)

	// Publishing
	contents.POST("/:id/publish", publishHandler.RequestPublish)
	contents.GET("/:id/status", contentHandler.Status)
	contents.GET("/:id/platforms", contentHandler.Platforms)
	contents.GET("/:id/selection", contentHandler.GetSelection)
	contents.PUT("/:id/selection", contentHandler.SetSelection)

	// Publish result reporting (called by the automation pipeline)
	webhooks := api.Group("/webhooks", middleware.WebhookAuth(cfg.Automation.WebhookSecret))
	webhooks.POST("/publish-results", publishHandler.ReceiveResults)
	webhooks.POST("/publish-results/simulate", publishHandler.SimulateResults)

	// Article ingestion
	articles := api.Group("/articles")
	articles.GET("", articleHandler.List)
	articles.POST("", articleHandler.Save)
	articles.DELETE("/:id", articleHandler.Delete)
	articles.POST("/ingest", articleHandler.Ingest)

	// Feed sources
	sources := api.Group("/sources")
	sources.GET("", articleHandler.ListSources)
	sources.POST("", articleHandler.CreateSource)
	sources.PUT("/:id", articleHandler.UpdateSource)
	sources.DELETE("/:id", articleHandler.DeleteSource)
	sources.POST("/test", articleHandler.TestSource)

	// Prompt templates
	prompts := api.Group("/prompts")
	prompts.GET("", promptHandler.List)
	prompts.POST("", promptHandler.Create)
	prompts.PUT("/:id", promptHandler.Update)
	prompts.POST("/:id/activate", promptHandler.Activate)
	prompts.DELETE("/:id", promptHandler.Delete)

	// WebSocket status watch (one stream per content item)
	router.GET("/ws/contents/:id", wsHandler.Watch)
}
