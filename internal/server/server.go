package server

import (
	"log"
	"strings"
	"time"

	"anoa.com/wismacare/internal/config"
	"anoa.com/wismacare/internal/middleware"
	"anoa.com/wismacare/internal/modules/audit"
	"anoa.com/wismacare/pkg/ratelimiter"
	"anoa.com/wismacare/pkg/storage"

	adminHttp "anoa.com/wismacare/internal/modules/admin/delivery/http"
	adminService "anoa.com/wismacare/internal/modules/admin/service"

	analyticsHttp "anoa.com/wismacare/internal/modules/analytics/delivery/http"
	analyticsService "anoa.com/wismacare/internal/modules/analytics/service"

	commentHttp "anoa.com/wismacare/internal/modules/comment/delivery/http"
	commentRepo "anoa.com/wismacare/internal/modules/comment/repository"
	commentService "anoa.com/wismacare/internal/modules/comment/service"

	notiHttp "anoa.com/wismacare/internal/modules/notification/delivery/http"
	notifRepo "anoa.com/wismacare/internal/modules/notification/repository"
	notifService "anoa.com/wismacare/internal/modules/notification/service"

	requestHttp "anoa.com/wismacare/internal/modules/request/delivery/http"
	requestRepo "anoa.com/wismacare/internal/modules/request/repository"
	requestService "anoa.com/wismacare/internal/modules/request/service"

	searchService "anoa.com/wismacare/internal/modules/search/service"

	userHttp "anoa.com/wismacare/internal/modules/user/delivery/http"
	userRepo "anoa.com/wismacare/internal/modules/user/repository"
	userService "anoa.com/wismacare/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, zapLog *zap.Logger) *Server {
	users := userRepo.NewUserRepository(db)

	mediaStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	meiliHost := cfg.MeiliSearchHost
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	searchSvc := searchService.NewSearchService(meiliClient)

	auditLog := audit.NewService(db, zapLog)

	authSvc := userService.NewAuthService(users, mediaStorage, auditLog, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := userHttp.NewAuthHandler(authSvc, cfg.AppEnv)

	adminSvc := adminService.NewAdminService(users, mediaStorage, auditLog)
	adminHandler := adminHttp.NewAdminHandler(adminSvc)

	notificationRepository := notifRepo.NewNotificationRepository(db)
	notificationSvc := notifService.NewNotificationService(notificationRepository, redisClient)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, redisClient)

	requests := requestRepo.NewRepository(db)
	requestSvc := requestService.NewService(requests, users, mediaStorage, auditLog, searchSvc, notificationSvc)
	requestHandler := requestHttp.NewRequestHandler(requestSvc)

	comments := commentRepo.NewCommentRepository(db)
	commentSvc := commentService.NewCommentService(comments, requests)
	commentHandler := commentHttp.NewCommentHandler(commentSvc)

	analyticsSvc := analyticsService.NewAnalyticsService(db, redisClient)
	analyticsHandler := analyticsHttp.NewAnalyticsHandler(analyticsSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)
	authLimiter := ratelimiter.New(redisClient, cfg.AuthRateWindow, cfg.AuthRateMax)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimit(authLimiter, "auth"))
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Maintenance request routes
		protected.POST("/requests", requestHandler.CreateRequest)
		protected.GET("/requests", requestHandler.GetRequests)
		protected.GET("/requests/search", authMiddleware.RequireAdmin(), requestHandler.SearchRequests)
		protected.PUT("/requests/:id/status", requestHandler.UpdateStatus)
		protected.PUT("/requests/:id/assign", requestHandler.AssignTechnician)
		protected.PUT("/requests/:id/resolve", requestHandler.ResolveRequest)
		protected.POST("/requests/:id/feedback", requestHandler.SubmitFeedback)
		protected.DELETE("/requests/:id", requestHandler.DeleteRequest)

		// Comment routes
		protected.POST("/requests/:id/comments", commentHandler.AddComment)
		protected.GET("/requests/:id/comments", commentHandler.GetComments)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)

		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.GET("/technicians", adminHandler.GetTechnicians)
			adminGroup.GET("/technicians/all", adminHandler.GetAllTechnicians)
			adminGroup.GET("/technicians/pending", adminHandler.GetPendingTechnicians)
			adminGroup.GET("/technicians/specialization/:spec", adminHandler.GetTechniciansBySpecialization)
			adminGroup.PATCH("/technicians/:id/approve", adminHandler.ApproveTechnician)
			adminGroup.DELETE("/technicians/:id/reject", adminHandler.RejectTechnician)
			adminGroup.GET("/users", adminHandler.GetAllUsers)
			adminGroup.GET("/stats/dashboard", analyticsHandler.GetDashboardStats)
			adminGroup.GET("/stats/technicians", analyticsHandler.GetTechnicianStats)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	origins := []string{"http://localhost:4200"}
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
