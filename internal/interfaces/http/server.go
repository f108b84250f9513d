// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
	"github.com/your-org/storefront/internal/interfaces/http/routes"
	"gorm.io/gorm"
)

const requestBodyLimit = 1 << 20 // 1MB

// Server wires the gin engine, middleware stack and route tree around
// a shared DB handle and Redis client.
type Server struct {
	config    *config.Config
	engine    *gin.Engine
	http      *http.Server
	db        *gorm.DB
	redis     *redis.Client
	startedAt time.Time
}

func NewServer(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Server {
	return &Server{config: cfg, db: db, redis: rdb}
}

// Start builds the engine and blocks serving until Stop is called.
func (s *Server) Start() error {
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	s.engine = gin.New()
	s.startedAt = time.Now()
	s.mountMiddleware()
	s.mountRoutes()

	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.engine,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	log.Printf("🚀 HTTP Server starting on port %s", s.config.Server.Port)
	log.Printf("🌐 API Base URL: http://localhost:%s/api/v1", s.config.Server.Port)
	log.Printf("📊 Health Check: http://localhost:%s/health", s.config.Server.Port)

	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	log.Println("🛑 Shutting down HTTP server...")
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	log.Println("✅ HTTP server stopped gracefully")
	return nil
}

func (s *Server) mountMiddleware() {
	s.engine.Use(gin.Recovery())
	s.engine.Use(middleware.Logger(s.config))
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.CORS(s.config))
	s.engine.Use(middleware.SecurityHeaders())
	s.engine.Use(middleware.RateLimit(s.config, s.redis))
	s.engine.Use(middleware.RequestSizeLimit(requestBodyLimit))
	s.engine.Use(middleware.Timeout(30 * time.Second))
}

func (s *Server) mountRoutes() {
	s.engine.GET("/health", s.healthCheck)
	s.engine.GET("/ready", s.readinessCheck)

	apiV1 := s.engine.Group("/api/v1")
	routes.SetupRoutes(apiV1, s.db, s.redis, s.config)

	if s.config.IsDevelopment() {
		s.engine.GET("/", s.devIndex)
	}
}

// healthCheck reports 503 unless both Postgres and Redis answer a ping.
func (s *Server) healthCheck(c *gin.Context) {
	if err := s.pingDependencies(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

func (s *Server) pingDependencies(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("database connection error")
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed")
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed")
	}
	return nil
}

func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startedAt).String(),
	})
}

func (s *Server) devIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":     "Storefront API",
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
		"health":      "/health",
		"endpoints": gin.H{
			"products": "/api/v1/products",
			"cart":     "/api/v1/cart",
			"checkout": "/api/v1/checkout",
			"orders":   "/api/v1/orders",
		},
	})
}
