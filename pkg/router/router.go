package router

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"ai-influencer-studio/backend/internal/api"
	"ai-influencer-studio/backend/pkg/di"
	"ai-influencer-studio/backend/pkg/errors"
	"ai-influencer-studio/backend/pkg/logger"
	"ai-influencer-studio/backend/pkg/metrics"
	"ai-influencer-studio/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Router is the main router for the application
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
}

// New creates a new router with the given container
func New(container *di.Container) *Router {
	logger.SetGlobal(container.Logger)

	cfg := container.Config
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(logger.Middleware(container.Logger))
	engine.Use(errors.ErrorHandler())
	engine.Use(errors.RecoveryWithLogger())

	opts := middleware.DefaultRateLimiterOptions()
	opts.Limit = rate.Limit(cfg.Security.RateLimit)
	opts.Burst = cfg.Security.RateLimitBurst
	rateLimiter := middleware.NewRateLimiter(container.Logger, opts)
	engine.Use(rateLimiter.Middleware())

	engine.Use(corsMiddleware(cfg.Security.AllowedOrigins))

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
	}
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() {
	c := r.Container
	cfg := c.Config

	auth := middleware.AuthMiddleware(c.JWTService, r.Logger)
	admin := middleware.RequireAdmin(c.Profiles.GetRole)

	uploadHandler := api.NewUploadHandler(c.Store, cfg)
	characterHandler := api.NewCharacterHandler(c.CharacterService, uploadHandler, cfg)
	planHandler := api.NewContentPlanHandler(c.ContentService, c.CharacterService)
	mediaHandler := api.NewMediaHandler(c.MediaService, c.ContentService, c.CharacterService, uploadHandler)
	generateHandler := api.NewGenerateHandler(c.GenerateService, c.CharacterService)
	adminHandler := api.NewAdminHandler(c.AdminClient, c.Profiles)

	// Public media and download routes
	r.Engine.Static("/media/images", c.Store.ImagesDir())
	r.Engine.Static("/media/videos", c.Store.VideosDir())
	r.Engine.GET("/api/download/images/:filename", downloadHandler(c.Store.ImagesDir()))
	r.Engine.GET("/api/download/videos/:filename", downloadHandler(c.Store.VideosDir()))

	r.Engine.GET("/api/health", r.healthHandler())
	r.Engine.GET("/metrics", metrics.Handler())

	protected := r.Engine.Group("/api")
	protected.Use(auth)
	{
		characters := protected.Group("/characters")
		{
			characters.POST("", characterHandler.CreateCharacter)
			characters.GET("", characterHandler.ListCharacters)
			characters.GET("/:id", characterHandler.GetCharacter)
			characters.DELETE("/:id", characterHandler.DeleteCharacter)
		}

		plans := protected.Group("/content-plans")
		{
			plans.POST("", planHandler.CreatePlan)
			plans.GET("", planHandler.ListPlans)
			plans.GET("/:id", planHandler.GetPlan)
		}

		media := protected.Group("/media")
		{
			media.POST("/generate", mediaHandler.Generate)
			media.GET("/history", mediaHandler.History)
			media.POST("/upload-video", mediaHandler.UploadVideo)
			media.POST("/generate-dreamactor", mediaHandler.GenerateDreamactor)
			media.GET("/:plan_id", mediaHandler.GetByPlan)
		}

		generate := protected.Group("/generate")
		{
			generate.POST("/image", generateHandler.GenerateImage)
			generate.POST("/video/prepare", generateHandler.PrepareVideo)
			generate.POST("/video/final", generateHandler.FinalizeVideo)
			generate.POST("/video/motion", generateHandler.MotionVideo)
		}

		protected.POST("/upload/image", uploadHandler.UploadImage)

		adminRoutes := protected.Group("/admin")
		adminRoutes.Use(admin)
		{
			adminRoutes.GET("/users", adminHandler.ListUsers)
			adminRoutes.POST("/users", adminHandler.CreateUser)
			adminRoutes.DELETE("/users/:id", adminHandler.DeleteUser)
		}
	}
}

// downloadHandler serves a directory's files with attachment disposition so
// browsers save instead of render
func downloadHandler(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		filename := filepath.Base(c.Param("filename"))
		c.FileAttachment(filepath.Join(dir, filename), filename)
	}
}

func (r *Router) healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "ok"
		if err := r.Container.DB.Exec("SELECT 1").Error; err != nil {
			dbStatus = "unavailable"
			r.Logger.Error("Database health check failed", "error", err)
		}

		status := http.StatusOK
		if dbStatus != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"status":    dbStatus,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowAll := len(allowedOrigins) == 0
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		switch {
		case allowAll:
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && containsOrigin(allowedOrigins, origin):
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Authorization, Origin, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func containsOrigin(origins []string, origin string) bool {
	for _, o := range origins {
		if strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}
