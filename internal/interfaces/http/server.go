// Package http exposes the charge information flow over HTTP.
// Handlers translate requests into service calls and nothing more.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/garyjia/charge-information/internal/application/service"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// HeaderRequestID carries the request id; one is generated when absent
const HeaderRequestID = "X-Request-ID"

// HealthFunc reports whether the service is healthy, with per-component detail
type HealthFunc func() (bool, any)

// ServerOption configures a Server
type ServerOption func(*Server)

// WithHealth makes /health report the given check instead of a static status
func WithHealth(check HealthFunc) ServerOption {
	return func(s *Server) {
		s.handlers.health = check
	}
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	handlers   *Handlers
	logger     Logger
}

// NewServer creates a new HTTP server for the charge information service
func NewServer(
	config ServerConfig,
	chargeInformation service.ChargeInformationService,
	exporter Exporter,
	logger Logger,
	opts ...ServerOption,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:   config,
		router:   gin.New(),
		handlers: NewHandlers(chargeInformation, exporter, logger),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(server)
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString("request_id"),
			"user", c.GetHeader(HeaderUser),
		)
	}
}

// setupRoutes mirrors the page URLs the navigation package builds, so a
// redirect returned by one handler is always a route of another
func (s *Server) setupRoutes() {
	h := s.handlers

	s.router.GET("/health", h.HealthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	ci := s.router.Group("/licences/:licenceId/charge-information")
	{
		ci.POST("/start", h.Start)
		ci.GET("/check", h.CheckAnswers)
		ci.GET("/check/export", h.ExportCheckAnswers)
		ci.POST("/submit", h.Submit)
		ci.POST("/cancel", h.Cancel)

		ci.POST("/charge-element", h.CreateElement)
		ci.DELETE("/charge-element/:elementId", h.RemoveElement)
		ci.GET("/charge-element/:elementId/:step", h.GetElementStep)
		ci.POST("/charge-element/:elementId/:step", h.SubmitElementStep)

		ci.POST("/charge-category/:elementId/purposes", h.CreatePurpose)
		ci.GET("/charge-category/:elementId/:step", h.GetCategoryStep)
		ci.POST("/charge-category/:elementId/:step", h.SubmitCategoryStep)

		ci.GET("/:step", h.GetStep)
		ci.POST("/:step", h.SubmitStep)

		// The review pages are keyed by workflow id, which shares the step segment
		ci.GET("/:step/review", h.Review)
		ci.POST("/:step/review", h.SubmitReview)
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
