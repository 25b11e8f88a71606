package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ausverity/ausverity-api/docs" // Swagger docs
	"github.com/ausverity/ausverity-api/internal/config"
	"github.com/ausverity/ausverity-api/internal/database"
	"github.com/ausverity/ausverity-api/internal/handlers"
	"github.com/ausverity/ausverity-api/internal/jobs"
	"github.com/ausverity/ausverity-api/internal/middleware"
	"github.com/ausverity/ausverity-api/internal/models"
	"github.com/ausverity/ausverity-api/internal/repository"
	"github.com/ausverity/ausverity-api/internal/services"
	"github.com/ausverity/ausverity-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title AusVerity API
// @version 1.0
// @description REST API for the AusVerity legal professional directory

// @contact.name API Support
// @contact.email support@ausverity.com.au

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY or FROM_EMAIL not set")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Run schema migrations
	if err := database.Migrate(db, "migrations"); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	if version, dirty, err := database.MigrationVersion(db, "migrations"); err == nil {
		logger.Info("Database schema up to date", "version", version, "dirty", dirty)
	}

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, cfg, db)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs)

	// Initialize handlers
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	worker.Shutdown()
	logger.Info("Background worker stopped")

	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Redirect root to swagger
		router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
		})

		// Swagger documentation
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// Public directory
		v1.GET("/lawyers", h.Lawyer.Index)
		v1.GET("/firms", h.Firm.Index)
		v1.GET("/profiles/lawyers/:slug", h.Lawyer.Show)
		v1.GET("/profiles/firms/:slug", h.Firm.Show)
		v1.GET("/lawyers/:id/history", h.Membership.HistoryForLawyer)
		v1.GET("/firms/:id/history", h.Membership.HistoryForFirm)
		v1.GET("/firms/:id/members", h.Firm.Members)

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			protected.POST("/auth/logout", h.Auth.Logout)
			protected.GET("/auth/me", h.Auth.Me)

			// Own professional profiles
			protected.GET("/lawyers/me", h.Lawyer.Me)
			protected.GET("/firms/me", h.Firm.Me)
			protected.GET("/lawyers/:id/preview", h.PendingChange.PreviewLawyer)
			protected.GET("/firms/:id/preview", h.PendingChange.PreviewFirm)
			protected.GET("/lawyers/:id/pdf", h.Lawyer.DownloadPDF)
			protected.GET("/firms/:id/pdf", h.Firm.DownloadPDF)

			// Profile change submission (professionals only)
			protected.POST("/changes",
				middleware.RequireRole(models.RoleLawyer, models.RoleFirmOwner, models.RoleLawyerFirmOwner),
				h.PendingChange.Submit)

			// Firm membership
			protected.POST("/firms/:id/invitations",
				middleware.RequireRole(models.RoleFirmOwner, models.RoleLawyerFirmOwner),
				h.Membership.Invite)
			protected.GET("/firms/:id/invitations", h.Membership.ListForFirm)
			protected.GET("/lawyers/:id/invitations", h.Membership.ListForLawyer)
			protected.POST("/invitations/:id/accept", h.Membership.Accept)
			protected.POST("/invitations/:id/decline", h.Membership.Decline)
			protected.POST("/lawyers/:id/leave", h.Membership.Leave)
			protected.DELETE("/firms/:id/members/:lawyer_id", h.Membership.Remove)

			// Reviews
			protected.POST("/reviews", h.Review.Submit)
			protected.POST("/reviews/:id/respond", h.Review.Respond)

			// Notifications (static routes first so they are not matched as :id)
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.GET("/unread_count", h.Notification.UnreadCount)
				notifications.POST("/read_all", h.Notification.MarkAllAsRead)
				notifications.POST("/:id/read", h.Notification.MarkAsRead)
				notifications.DELETE("/:id", h.Notification.Delete)
			}

			// Account management
			protected.GET("/users/:id", middleware.RequireAdminOrOwner(), h.User.Show)
			protected.PATCH("/users/:id", middleware.RequireAdminOrOwner(), h.User.Update)
			protected.POST("/users/:id/password", h.User.ChangePassword)

			// Admin console
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/changes", h.PendingChange.Index)
				admin.GET("/changes/stats", h.PendingChange.Stats)
				admin.GET("/changes/:id", h.PendingChange.Show)
				admin.POST("/changes/:id/approve", h.PendingChange.Approve)
				admin.POST("/changes/:id/reject", h.PendingChange.Reject)

				admin.GET("/reviews", h.Review.Index)
				admin.POST("/reviews/:id/approve", h.Review.Approve)
				admin.POST("/reviews/:id/reject", h.Review.Reject)

				admin.GET("/audit", h.Audit.Index)
				admin.GET("/audit/export", h.Audit.Export)

				admin.GET("/users", h.User.Index)
				admin.POST("/users/:id/role", h.User.ChangeRole)
				admin.POST("/users/:id/status", h.User.SetStatus)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Purge expired refresh tokens daily
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Purging expired refresh tokens...")
		purged, err := svcs.Auth.PurgeExpiredTokens(ctx)
		if err != nil {
			return err
		}
		logger.Info("[Job] Purged expired refresh tokens", "count", purged)
		return nil
	})

	logger.Info("Scheduled recurring jobs")
}
