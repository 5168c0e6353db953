// Package server exposes the prediction form over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/crimson-sun/cardio/internal/handler"
)

const requestIDHeader = "X-Request-ID"

// Status describes the loaded artifacts for the health endpoint.
type Status struct {
	Backend string `json:"backend"`
	Scaler  bool   `json:"scaler"`
}

// Server wires the request handler into a gin router.
type Server struct {
	router  *gin.Engine
	handler *handler.Handler
	status  Status
	logger  *slog.Logger
}

// New builds the router. Set the gin mode before calling.
func New(h *handler.Handler, status Status, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		router:  gin.New(),
		handler: h,
		status:  status,
		logger:  logger,
	}

	s.router.Use(s.requestID(), s.accessLog(), gin.CustomRecovery(s.recover))
	s.router.SetHTMLTemplate(loadTemplates())

	s.router.GET("/", s.home)
	s.router.POST("/predict", s.predict)
	s.router.GET("/healthz", s.health)
	return s
}

// Handler returns the HTTP handler for embedding or testing.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down", "timeout", shutdownTimeout)
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", newPage(nil))
}

func (s *Server) predict(c *gin.Context) {
	ctx := c.Request.Context()
	if err := c.Request.ParseForm(); err != nil {
		view := s.handler.HandleUnreadable(ctx, err)
		c.HTML(http.StatusOK, "index.html", newPage(&view))
		return
	}

	// First value per key, matching how browsers submit a single form.
	form := make(map[string]string, len(c.Request.PostForm))
	for k, vs := range c.Request.PostForm {
		if len(vs) > 0 {
			form[k] = vs[0]
		}
	}

	view := s.handler.HandlePredict(ctx, form)
	c.HTML(http.StatusOK, "index.html", newPage(&view))
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"artifacts": s.status,
		"timestamp": time.Now().UTC(),
	})
}

// requestID propagates or assigns an X-Request-ID for log correlation.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(handler.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("http request",
			"request_id", handler.RequestID(c.Request.Context()),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) recover(c *gin.Context, err any) {
	s.logger.Error("panic serving request",
		"request_id", handler.RequestID(c.Request.Context()), "error", err)
	c.String(http.StatusInternalServerError, handler.InternalErrorText)
}
