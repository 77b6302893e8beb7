package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/zuqon/content-backend/internal/config"
	"github.com/zuqon/content-backend/internal/handler"
	"github.com/zuqon/content-backend/internal/middleware"
	"github.com/zuqon/content-backend/internal/migration"
	"github.com/zuqon/content-backend/internal/repository"
	"github.com/zuqon/content-backend/internal/routes"
	"github.com/zuqon/content-backend/internal/scheduler"
	"github.com/zuqon/content-backend/internal/service"
	"github.com/zuqon/content-backend/internal/ws"
	"github.com/zuqon/content-backend/pkg/automation"
	pkgcache "github.com/zuqon/content-backend/pkg/cache"
	"github.com/zuqon/content-backend/pkg/feeds"
	"github.com/zuqon/content-backend/pkg/llm"
	pkglogger "github.com/zuqon/content-backend/pkg/logger"
	"github.com/zuqon/content-backend/pkg/newsapi"
	pkgredis "github.com/zuqon/content-backend/pkg/redis"
	pkgstorage "github.com/zuqon/content-backend/pkg/storage"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)

	// MySQL
	db, err := initDB(cfg)
	if err != nil {
		pkglogger.Info("Warning: Failed to connect to database: %v (continuing without DB)", err)
		db = nil
	} else {
		pkglogger.Info("Connected to MySQL")
		if err := migration.Run(db); err != nil {
			pkglogger.Info("Migration warning: %v", err)
		}
	}

	// Redis
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.Info("Warning: Failed to connect to Redis: %v (continuing without Redis)", err)
		redisClient = nil
	} else {
		pkglogger.Info("Connected to Redis")
	}

	// Cache Service
	var cacheService pkgcache.Service
	if redisClient != nil {
		cacheService = pkgcache.NewService(redisClient)
		pkglogger.Info("Cache service initialized")
	}

	// S3-compatible storage for generated graphics
	var s3Client *pkgstorage.S3Client
	if cfg.Storage.Enabled && cfg.Storage.Bucket != "" {
		var s3Err error
		s3Client, s3Err = pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          cfg.Storage.CDNURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if s3Err != nil {
			pkglogger.Info("Warning: S3 storage init failed: %v (continuing without S3)", s3Err)
			s3Client = nil
		} else {
			pkglogger.Info("Connected to S3 storage")
		}
	}

	// WebSocket Hub
	wsHub := ws.NewHub(redisClient)
	go wsHub.Run()

	// Gin router
	router := gin.Default()

	// CORS
	allowOrigins := cfg.CORS.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}
	corsConfig := cors.Config{
		AllowOrigins:     splitAndTrim(allowOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "X-Webhook-Secret"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-Cache"},
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))

	// Middleware
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "content-backend",
			"time":    time.Now().Unix(),
		})
	})

	if db != nil {
		// Repositories
		contentRepo := repository.NewContentRepository(db)
		articleRepo := repository.NewArticleRepository(db)
		sourceRepo := repository.NewSourceRepository(db)
		promptRepo := repository.NewPromptRepository(db)

		// External clients
		automationClient := automation.NewClient(cfg.Automation.WebhookURL, cfg.Automation.Timeout)
		if !automationClient.Configured() {
			pkglogger.Info("Warning: automation webhook URL not set, publish requests are recorded locally only")
		}
		newsClient := newsapi.NewClient(cfg.NewsAPI.APIKey)
		feedFetcher := feeds.NewFetcher()

		var generator service.PostGenerator
		if cfg.Gemini.APIKey != "" {
			llmClient, llmErr := llm.NewClient(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
			if llmErr != nil {
				pkglogger.Info("Warning: Gemini client init failed: %v (content generation disabled)", llmErr)
			} else {
				generator = llmClient
				pkglogger.Info("Gemini client initialized (model=%s)", cfg.Gemini.Model)
			}
		}
		var graphics handler.GraphicStorage
		if s3Client != nil {
			graphics = s3Client
		}

		// Platform selection store (Redis-backed when available)
		var selections service.SelectionStore
		if redisClient != nil {
			selections = service.NewRedisSelectionStore(redisClient)
		} else {
			selections = service.NewMemorySelectionStore()
		}

		// Services
		reconciler := service.NewReconciler(contentRepo)
		eligibility := service.NewEligibility()
		publishService := service.NewPublishService(contentRepo, reconciler, eligibility, automationClient, selections)
		contentService := service.NewContentService(contentRepo, articleRepo, promptRepo, generator, cacheService)
		articleService := service.NewArticleService(articleRepo, sourceRepo, newsClient, feedFetcher)
		poller := service.NewStatusPoller(contentRepo, wsHub)

		// Handlers
		contentHandler := handler.NewContentHandler(contentService, publishService, selections, graphics)
		publishHandler := handler.NewPublishHandler(publishService)
		articleHandler := handler.NewArticleHandler(articleService, sourceRepo, cacheService)
		promptHandler := handler.NewPromptHandler(promptRepo)
		wsHandler := handler.NewWSHandler(wsHub, poller, allowOrigins)

		routes.Setup(router, contentHandler, publishHandler, articleHandler, promptHandler, wsHandler, cfg)

		// Background feed ingestion
		if cfg.Scheduler.Enabled {
			sched := scheduler.New()
			ingest := func(ctx context.Context) error {
				_, err := articleService.IngestAll(ctx)
				return err
			}
			if err := sched.AddJob("ingest", cfg.Scheduler.IngestSpec, ingest); err != nil {
				pkglogger.Info("Warning: failed to schedule ingest job: %v", err)
			} else {
				sched.Start()
				defer sched.Stop()
			}
		}
	} else {
		pkglogger.Info("Skipping API route setup (no DB connection)")
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	pkglogger.Info("Server listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// splitAndTrim splits a string by delimiter and trims spaces
func splitAndTrim(s string, delimiter string) []string {
	parts := strings.Split(s, delimiter)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// initDB connects to MySQL using GORM
func initDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
