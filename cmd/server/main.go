package main

import (
	"context"
	"lead_crm_go/cache"
	"lead_crm_go/config"
	"lead_crm_go/db"
	"lead_crm_go/handlers"
	"lead_crm_go/middleware"
	"lead_crm_go/models"
	"lead_crm_go/services"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Lead{},
		&models.FollowUp{},
		&models.ActionLog{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Pick the cache backend: redis when configured, in-process otherwise
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisCache.Ping(ctx); err != nil {
			cancel()
			log.Fatalf("Failed to connect to redis at %s: %v", cfg.RedisAddr, err)
		}
		cancel()
		defer redisCache.Close()
		handlers.AppCache = redisCache
		log.Printf("Using redis cache at %s", cfg.RedisAddr)
	} else {
		handlers.AppCache = cache.NewInMemory()
		log.Println("Using in-memory cache")
	}

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Public routes (no authentication required)
	e.GET("/login", handlers.LoginHandler)
	e.POST("/login", handlers.LoginPostHandler)
	e.GET("/register", handlers.RegisterHandler)
	e.POST("/register", handlers.RegisterPostHandler)
	e.GET("/logout", handlers.LogoutHandler)

	// Protected routes (authentication required; permission checks live in
	// the handlers so failures can flash a message back to the list)
	protected := e.Group("")
	protected.Use(middleware.RequireAuth())
	{
		protected.GET("/", handlers.DashboardHandler)
		protected.GET("/list/", handlers.LeadListHandler)
		protected.GET("/create/", handlers.LeadCreateHandler)
		protected.POST("/create/", handlers.LeadCreatePostHandler)
		protected.GET("/:id/update/", handlers.LeadUpdateHandler)
		protected.POST("/:id/update/", handlers.LeadUpdatePostHandler)
		protected.GET("/:id/delete/", handlers.LeadDeleteHandler)
		protected.POST("/:id/delete/", handlers.LeadDeletePostHandler)
		protected.GET("/export/", handlers.ExportLeadsHandler)

		// JSON API
		protected.GET("/api/leads/", handlers.APILeadListHandler)
	}

	// Start background session cleanup (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
