// Package server exposes competitor queries and commodity lookups over HTTP
// and streams query summaries to websocket clients.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"competitors/logger"
	"competitors/lookup"
	"competitors/query"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Runner answers one competitor query.
type Runner interface {
	Run(ctx context.Context, req query.Request) (*query.Result, error)
}

// Lookup answers commodity metadata questions.
type Lookup interface {
	ByCode(code string) ([]lookup.Entry, bool)
	ByText(term string) ([]lookup.Entry, bool)
	ByChapter(chapter string) ([]lookup.Entry, bool)
}

// Options wires a Server. Runner is required.
type Options struct {
	Runner      Runner
	Lookup      Lookup
	Hub         *Hub
	Cache       ResponseCache
	CacheTTL    time.Duration
	CORSOrigins []string
}

type Server struct {
	runner   Runner
	lookup   Lookup
	hub      *Hub
	cache    ResponseCache
	cacheTTL time.Duration
	router   *gin.Engine
}

func New(opts Options) *Server {
	s := &Server{
		runner:   opts.Runner,
		lookup:   opts.Lookup,
		hub:      opts.Hub,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.Use(corsMiddleware(opts.CORSOrigins))

	r.GET("/health", s.health)
	r.GET("/competitors", s.defaultCompetitors)
	r.GET("/competitors/:codeA/:codeB", s.codeCompetitors)
	r.GET("/companies/:name/competitors", s.companyCompetitors)

	lg := r.Group("/lookup")
	{
		lg.GET("/codes/:code", s.lookupCode)
		lg.GET("/search", s.lookupSearch)
		lg.GET("/chapters/:chapter", s.lookupChapter)
	}

	if s.hub != nil {
		r.GET("/ws", gin.WrapF(s.hub.HandleWebSocket))
	}

	s.router = r
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on port until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, port string) error {
	addr := port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(logger.StatusNet, "HTTP server listening on http://localhost%s", addr)
		if s.hub != nil {
			logger.Info(logger.StatusNet, "WebSocket stream on ws://localhost%s/ws", addr)
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info(logger.StatusNet, "Shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "X-Requested-With"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		msg := "%s %s %d %dms"
		args := []any{c.Request.Method, path, status, time.Since(start).Milliseconds()}
		switch {
		case status >= 500:
			logger.Error(logger.StatusNet, msg, args...)
		case status >= 400:
			logger.Warn(logger.StatusNet, msg, args...)
		default:
			logger.Debug(logger.StatusNet, msg, args...)
		}
	}
}
