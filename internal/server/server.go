// Package server exposes the generator and the backup store over HTTP.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/syssam/umlgen"
	"github.com/syssam/umlgen/internal/config"
	"github.com/syssam/umlgen/internal/events"
	"github.com/syssam/umlgen/internal/store"
)

// RequestIDHeader carries the id of a request. Incoming ids are kept.
const RequestIDHeader = "X-Request-ID"

// maxBodySize bounds the size of uploaded diagrams.
const maxBodySize = 8 << 20

// Server serves the HTTP API.
type Server struct {
	cfg    *config.Config
	store  store.Store
	cache  umlgen.Cache
	events events.Publisher
	logger *slog.Logger
	engine *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithStore sets the backup store. Without one, backups are kept in
// memory.
func WithStore(s store.Store) Option {
	return func(srv *Server) { srv.store = s }
}

// WithCache sets the project cache.
func WithCache(c umlgen.Cache) Option {
	return func(srv *Server) { srv.cache = c }
}

// WithPublisher sets the event publisher.
func WithPublisher(p events.Publisher) Option {
	return func(srv *Server) { srv.events = p }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(srv *Server) { srv.logger = l }
}

// New returns a server with its routes registered.
func New(cfg *config.Config, opts ...Option) *Server {
	s := &Server{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = store.NewMemory()
	}
	if s.cache == nil {
		s.cache = umlgen.NewMemoryCache(cfg.CacheSize)
	}
	if s.events == nil {
		s.events = events.Discard{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	gin.SetMode(gin.ReleaseMode)
	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), s.requestID, s.logRequest, cors.New(s.corsConfig()))
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.health)
	s.engine.POST("/generate", s.generate)
	s.engine.POST("/contexts", s.contexts)
	s.engine.POST("/ddl", s.ddl)
	s.engine.POST("/graphql", s.graphql)
	backups := s.engine.Group("/backups")
	backups.PUT("/:roomId", s.putBackup)
	backups.GET("/:roomId", s.getBackup)
	backups.DELETE("/:roomId", s.deleteBackup)
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// HTTPServer returns an http.Server listening on the configured port.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.engine,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

func (s *Server) corsConfig() cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", RequestIDHeader},
		ExposeHeaders: []string{"Content-Disposition", RequestIDHeader, cacheHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(s.cfg.CORSOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = s.cfg.CORSOrigins
	}
	return c
}

func (s *Server) requestID(c *gin.Context) {
	id := c.GetHeader(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set("requestId", id)
	c.Header(RequestIDHeader, id)
	c.Next()
}

func (s *Server) logRequest(c *gin.Context) {
	start := time.Now()
	c.Next()
	attrs := []any{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
		"request_id", c.GetString("requestId"),
	}
	if len(c.Errors) > 0 {
		attrs = append(attrs, "error", c.Errors.String())
	}
	switch status := c.Writer.Status(); {
	case status >= http.StatusInternalServerError:
		s.logger.Error("request failed", attrs...)
	case status >= http.StatusBadRequest:
		s.logger.Warn("request rejected", attrs...)
	default:
		s.logger.Info("request served", attrs...)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
