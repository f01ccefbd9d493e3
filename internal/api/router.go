// Package api assembles the HTTP surface from handlers and middleware.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	iauth "github.com/ideaforge/ideaforge/internal/auth"
	"github.com/ideaforge/ideaforge/internal/handlers"
	"github.com/ideaforge/ideaforge/internal/middleware"
	"github.com/ideaforge/ideaforge/internal/models"
	"github.com/ideaforge/ideaforge/internal/notifications"
	"github.com/ideaforge/ideaforge/internal/services"
	"github.com/ideaforge/ideaforge/internal/storage"
)

// RouterConfig bundles the dependencies the HTTP layer needs.
type RouterConfig struct {
	DB            *gorm.DB
	JWT           *iauth.JWTService
	Hub           *notifications.Hub
	Store         *storage.LocalStore
	Users         *services.UserService
	Ideas         *services.IdeaService
	Notifications *services.NotificationService

	MaxAttachments int
	StrictTags     bool

	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewRouter builds the gin engine with all routes and middleware attached.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())

	if cfg.RateLimitRequests > 0 {
		window := cfg.RateLimitWindow
		if window <= 0 {
			window = time.Minute
		}
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, window))
	}

	authHandler := handlers.NewAuthHandler(cfg.Users, cfg.JWT)
	userHandler := handlers.NewUserHandler(cfg.Users)
	ideaHandler := handlers.NewIdeaHandler(cfg.Ideas, cfg.Store, handlers.IdeaHandlerConfig{
		MaxAttachments: cfg.MaxAttachments,
		StrictTags:     cfg.StrictTags,
	})
	notificationHandler := handlers.NewNotificationHandler(cfg.Notifications, cfg.Hub, cfg.JWT)

	r.GET("/health", handlers.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	api.POST("/auth/login", authHandler.Login)
	api.POST("/users/register", userHandler.Register)

	// The browser WebSocket API cannot set an Authorization header, so the
	// stream endpoint validates its token itself.
	api.GET("/notifications/stream", notificationHandler.Stream)

	if cfg.Store != nil {
		api.Static("/uploads", cfg.Store.Dir())
	}

	authed := api.Group("")
	authed.Use(middleware.Auth(cfg.JWT, cfg.DB))

	authed.GET("/users", middleware.RequireRole(models.RoleAdmin), userHandler.List)
	authed.GET("/users/me", userHandler.Me)
	authed.PUT("/users/:id", userHandler.Update)
	authed.DELETE("/users/:id", middleware.RequireRole(models.RoleAdmin), userHandler.Delete)

	authed.GET("/ideas", ideaHandler.List)
	authed.GET("/ideas/:id", ideaHandler.Get)
	authed.POST("/ideas", ideaHandler.Create)
	authed.PUT("/ideas/:id", ideaHandler.Update)
	authed.DELETE("/ideas/:id", ideaHandler.Delete)

	authed.GET("/notifications", notificationHandler.List)
	authed.PUT("/notifications/:id/read", notificationHandler.MarkRead)
	authed.PUT("/notifications/read-all", notificationHandler.MarkAllRead)
	authed.DELETE("/notifications/:id", notificationHandler.Delete)

	r.NoRoute(middleware.NotFoundHandler)

	return r
}
