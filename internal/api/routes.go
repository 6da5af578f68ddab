package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"folioforge/internal/api/middleware"
	"folioforge/internal/auth"
	"folioforge/internal/config"
	"folioforge/internal/portfolio"
	"folioforge/internal/storage"
)

// RegisterRoutes registers all API routes on the engine.
func RegisterRoutes(
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	asynqClient *asynq.Client,
	authService *auth.AuthService,
	redisClient redis.UniversalClient,
	sessions *auth.SessionNotifier,
	logger *slog.Logger,
	storageClient *storage.Client,
	generateService *portfolio.Service,
) {
	authHandler := NewAuthHandler(
		db,
		authService,
		redisClient,
		sessions,
		logger,
		cfg.Security.LoginRateLimitPerHour,
		cfg.Security.LoginLockThreshold,
		cfg.Security.LoginLockTTL,
		cfg.Security.CookieDomain,
	)
	generateHandler := NewGenerateHandler(generateService, logger)
	dashboardHandler := NewDashboardHandler(db)
	portfolioHandler := NewPortfolioHandler(db, asynqClient)
	resumeHandler := NewResumeHandler(db, storageClient, logger, cfg.Security.ClamdAddr, cfg.Security.MaxResumeUploadBytes)
	wsHandler := NewWsHandler(redisClient, authService, logger, cfg.API.AllowedOrigins)

	authMiddleware := middleware.AuthMiddleware(authService)
	optionalAuth := middleware.OptionalAuthMiddleware(authService)

	// Published portfolios are served without authentication.
	router.GET("/p/:slug", portfolioHandler.GetPublishedPortfolio)

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.POST("/change-password", authMiddleware, authHandler.ChangePassword)
		}

		// Anonymous callers can generate without persistence.
		v1.POST("/portfolio/generate", optionalAuth, generateHandler.Generate)

		v1.GET("/dashboard", authMiddleware, dashboardHandler.GetDashboard)

		portfolioGroup := v1.Group("/portfolios")
		portfolioGroup.Use(authMiddleware)
		{
			portfolioGroup.GET("", portfolioHandler.ListPortfolios)
			portfolioGroup.GET("/:id", portfolioHandler.GetPortfolio)
			portfolioGroup.POST("/:id/publish", portfolioHandler.PublishPortfolio)
		}

		resumeGroup := v1.Group("/resumes")
		resumeGroup.Use(authMiddleware)
		{
			resumeGroup.POST("", resumeHandler.UploadResume)
			resumeGroup.GET("/:id/download-link", resumeHandler.GetDownloadLink)
		}
	}
}
