package http

import (
	"context"
	"log"
	nethttp "net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"shinypath-api/res/auth"
	"shinypath-api/res/notification"
	"shinypath-api/res/pricing"
	"shinypath-api/res/store"
	"shinypath-api/sys/http/middleware"
)

type Config struct {
	Logger   *log.Logger
	Store    store.Store
	Auth     auth.Auth
	Pricing  *pricing.Cache
	Notifier notification.Notifier

	Environment string
	FrontendURL string

	// AdminEmail gets the admin role on first Google sign-in.
	AdminEmail string
}

type Server struct {
	*Config

	hub    *Hub
	engine *gin.Engine
	srv    *nethttp.Server
}

func NewServer(cfg *Config) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		Config: cfg,
		hub:    NewHub(cfg.Logger),
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())
	engine.Use(middleware.CSPMiddleware())
	engine.Use(cors.New(s.corsConfig()))

	s.engine = engine
	s.registerRoutes()

	return s
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	// In production, restrict to the configured frontend domain. In
	// development, reflect the requesting origin for easier local work.
	if s.Environment == "production" && s.FrontendURL != "" {
		cfg.AllowOrigins = []string{s.FrontendURL}
	} else {
		cfg.AllowOriginFunc = func(origin string) bool { return true }
	}

	return cfg
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api")
	api.Use(middleware.AuthMiddleware(s.Logger, s.Store, s.Auth))

	// Public quote funnel
	api.POST("/quotes", s.submitQuote)
	api.GET("/pricing", s.getPricing)
	api.GET("/availability", s.getAvailability)
	api.GET("/availability/times", s.getAvailableTimes)

	// Session management
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/google", s.authWithGoogle)
		authGroup.POST("/refresh", s.authWithRefreshToken)
		authGroup.POST("/logout", middleware.RequireUser(), s.logout)
		authGroup.GET("/me", middleware.RequireUser(), s.currentUser)
	}

	// Admin panel. Staff can read and work submissions; pricing, email
	// settings and deletion stay admin-only.
	admin := api.Group("/admin")
	admin.Use(middleware.RequireUser())
	{
		admin.GET("/quotes", s.listQuotes)
		admin.GET("/quotes/:id", s.getQuote)
		admin.PATCH("/quotes/:id", s.updateQuote)
		admin.PATCH("/quotes/:id/status", s.updateQuoteStatus)
		admin.DELETE("/quotes/:id", middleware.RequireAdmin(), s.deleteQuote)

		admin.GET("/pricing", middleware.RequireAdmin(), s.getActivePricing)
		admin.PUT("/pricing", middleware.RequireAdmin(), s.saveActivePricing)

		admin.GET("/settings/email", middleware.RequireAdmin(), s.getEmailSettings)
		admin.PUT("/settings/email", middleware.RequireAdmin(), s.saveEmailSettings)
		admin.GET("/templates", middleware.RequireAdmin(), s.listEmailTemplates)
		admin.PUT("/templates/:type", middleware.RequireAdmin(), s.saveEmailTemplate)
	}

	api.GET("/ws", s.handleWS)
}

// Run starts the hub and serves until the listener fails or Shutdown is
// called.
func (s *Server) Run(ctx context.Context, addr string) error {
	go s.hub.Run(ctx)

	s.srv = &nethttp.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	err := s.srv.ListenAndServe()
	if err != nil && err != nethttp.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
