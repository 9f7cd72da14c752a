package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/openbrick/brick-ledger/internal/adapter"
	"github.com/openbrick/brick-ledger/internal/api/middleware"
	"github.com/openbrick/brick-ledger/internal/api/rest"
	"github.com/openbrick/brick-ledger/internal/config"
	"github.com/openbrick/brick-ledger/internal/ledger"
	"github.com/openbrick/brick-ledger/internal/logger"
	"github.com/openbrick/brick-ledger/internal/ratelimit"
	"github.com/openbrick/brick-ledger/internal/store"
)

// Config holds the server configuration
type Config struct {
	Debug        bool
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Auth         middleware.AuthConfig
	RateLimit    config.RateLimitConfig
}

// Server wraps the HTTP server
type Server struct {
	config     Config
	engine     *ledger.Ledger
	store      store.Store
	httpServer *http.Server
}

// New creates a new API server
func New(cfg Config, engine *ledger.Ledger, st store.Store) *Server {
	return &Server{
		config: cfg,
		engine: engine,
		store:  st,
	}
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS())

	if s.config.RateLimit.RequestsPerSecond > 0 {
		limiter := ratelimit.NewLimiter(s.config.RateLimit, adapter.NewClock())
		router.Use(limiter.Middleware())
	}

	restHandler := rest.NewHandler(s.config.Debug, s.engine, s.store)
	rest.SetupRoutes(router, restHandler, s.config.Auth)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("starting API server",
		zap.String("address", addr),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
