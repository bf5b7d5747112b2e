// Package server exposes a viewer session over HTTP: a JSON API to drive
// it and a WebSocket stream of its views.
package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/atikulmunna/logview/internal/aggregator"
	"github.com/atikulmunna/logview/internal/hub"
	"github.com/atikulmunna/logview/internal/recent"
	"github.com/atikulmunna/logview/internal/session"
	"github.com/atikulmunna/logview/internal/store"
	"github.com/atikulmunna/logview/internal/tailer"
	"github.com/atikulmunna/logview/internal/watcher"
)

// Server holds the Gin engine and dependencies for the viewer API.
type Server struct {
	engine     *gin.Engine
	session    *session.Session
	hub        *hub.Hub
	aggregator *aggregator.Aggregator
	recent     *recent.List
	addr       string
}

// New creates a web server for a session. recent may be nil.
func New(sess *session.Session, h *hub.Hub, agg *aggregator.Aggregator, list *recent.List, addr string) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	// Disable automatic redirects that cause 301 issues.
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	s := &Server{
		engine:     engine,
		session:    sess,
		hub:        h,
		aggregator: agg,
		recent:     list,
		addr:       addr,
	}

	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) setupRoutes() {
	// Health check.
	s.engine.GET("/healthz", func(c *gin.Context) {
		stats := s.aggregator.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"status":        "ok",
			"uptime":        stats.Uptime,
			"file":          stats.File,
			"watching":      stats.Watching,
			"eps":           stats.EPS,
			"dropped_views": stats.DroppedViews,
		})
	})

	// Metrics API.
	s.engine.GET("/api/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.aggregator.Snapshot())
	})

	api := s.engine.Group("/api")
	api.GET("/view", s.handleView)
	api.POST("/open", s.handleOpen)
	api.POST("/filter", s.handleFilter)
	api.POST("/search", s.handleSearch)
	api.POST("/more", s.handleMore)
	api.POST("/seen", s.handleSeen)
	api.POST("/close", s.handleClose)
	api.GET("/recent", s.handleRecent)
	api.DELETE("/recent", s.handleRecentDelete)

	// WebSocket.
	s.engine.GET("/ws", s.handleWebSocket)

	// pprof profiling endpoints.
	s.engine.GET("/debug/pprof/", gin.WrapF(pprof.Index))
	s.engine.GET("/debug/pprof/cmdline", gin.WrapF(pprof.Cmdline))
	s.engine.GET("/debug/pprof/profile", gin.WrapF(pprof.Profile))
	s.engine.GET("/debug/pprof/symbol", gin.WrapF(pprof.Symbol))
	s.engine.GET("/debug/pprof/trace", gin.WrapF(pprof.Trace))
	s.engine.GET("/debug/pprof/allocs", gin.WrapH(pprof.Handler("allocs")))
	s.engine.GET("/debug/pprof/heap", gin.WrapH(pprof.Handler("heap")))
	s.engine.GET("/debug/pprof/goroutine", gin.WrapH(pprof.Handler("goroutine")))
}

func (s *Server) handleView(c *gin.Context) {
	v, err := s.session.Snapshot(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusServiceUnavailable, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type openRequest struct {
	Path string `json:"path" binding:"required"`
}

// handleOpen opens a file. The path may be a glob; the newest match wins.
func (s *Server) handleOpen(c *gin.Context) {
	var req openRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	path, err := watcher.Resolve(req.Path)
	if err != nil {
		abortWithError(c, http.StatusNotFound, err)
		return
	}
	if err := s.session.Open(c.Request.Context(), path); err != nil {
		abortWithError(c, statusFor(err), err)
		return
	}
	s.handleView(c)
}

type filterRequest struct {
	Level string `json:"level"`
}

func (s *Server) handleFilter(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	f, err := store.ParseLevelFilter(req.Level)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	if err := s.session.SetFilter(c.Request.Context(), f); err != nil {
		abortWithError(c, http.StatusServiceUnavailable, err)
		return
	}
	s.handleView(c)
}

type searchRequest struct {
	Query string `json:"query"`
}

// handleSearch schedules a debounced search. The result arrives on /ws.
func (s *Server) handleSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	if err := s.session.Search(c.Request.Context(), req.Query); err != nil {
		abortWithError(c, http.StatusServiceUnavailable, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"query": req.Query})
}

func (s *Server) handleMore(c *gin.Context) {
	if _, err := s.session.LoadMore(c.Request.Context()); err != nil {
		abortWithError(c, http.StatusServiceUnavailable, err)
		return
	}
	s.handleView(c)
}

func (s *Server) handleSeen(c *gin.Context) {
	if err := s.session.ClearNew(c.Request.Context()); err != nil {
		abortWithError(c, http.StatusServiceUnavailable, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleClose(c *gin.Context) {
	if err := s.session.Close(c.Request.Context()); err != nil {
		abortWithError(c, http.StatusServiceUnavailable, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRecent(c *gin.Context) {
	if s.recent == nil {
		c.JSON(http.StatusOK, []recent.File{})
		return
	}
	c.JSON(http.StatusOK, s.recent.Files())
}

// handleRecentDelete removes ?path= from the list, or clears it without one.
func (s *Server) handleRecentDelete(c *gin.Context) {
	if s.recent == nil {
		c.Status(http.StatusNoContent)
		return
	}
	if path := c.Query("path"); path != "" {
		if !s.recent.Remove(path) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not in recent files: " + path})
			return
		}
	} else {
		s.recent.Clear()
	}
	if err := s.recent.Save(); err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func statusFor(err error) int {
	var fae *tailer.FileAccessError
	if errors.As(err, &fae) {
		switch fae.Kind {
		case tailer.KindNotFound:
			return http.StatusNotFound
		case tailer.KindPermissionDenied:
			return http.StatusForbidden
		}
	}
	return http.StatusInternalServerError
}

func abortWithError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.WithField("addr", s.addr).Info("server: listening")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
