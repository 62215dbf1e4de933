// Package server exposes the checker over HTTP for the dashboard's editing
// widget: one-shot JSON endpoints plus a websocket channel for live editing.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"markcheck/internal/engine"
)

const (
	// DefaultMaxBody caps request bodies and websocket messages.
	DefaultMaxBody int64 = 1 << 20
	requestTimeout       = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Engine       engine.Options
	Logger       *slog.Logger
	HistoryLimit int   // снимков на websocket-сессию; 0 = session.DefaultHistory
	MaxBody      int64 // 0 = DefaultMaxBody
	// CheckOrigin decides which origins may open the live channel; nil
	// accepts same-origin requests only.
	CheckOrigin func(r *http.Request) bool
}

// Server is the HTTP host around one engine.Engine.
type Server struct {
	eng      *engine.Engine
	log      *slog.Logger
	history  int
	maxBody  int64
	upgrader websocket.Upgrader
}

func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxBody := cfg.MaxBody
	if maxBody <= 0 {
		maxBody = DefaultMaxBody
	}
	return &Server{
		eng:     engine.New(cfg.Engine),
		log:     logger,
		history: cfg.HistoryLimit,
		maxBody: maxBody,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     cfg.CheckOrigin,
		},
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/rules", s.handleRules)
		r.Get("/live", s.handleLive)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			r.Use(middleware.Timeout(requestTimeout))
			r.Post("/tokenize", s.handleTokenize)
			r.Post("/validate", s.handleValidate)
			r.Post("/score", s.handleScore)
			r.Post("/format", s.handleFormat)
			r.Post("/autoclose", s.handleAutoClose)
			r.Post("/analyze", s.handleAnalyze)
			r.Post("/preview", s.handlePreview)
		})
	})
	return r
}

// requestLogger logs one line per request; 5xx at error level, 4xx at warn.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		attrs := []any{
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		switch {
		case status >= 500:
			s.log.Error("request failed", attrs...)
		case status >= 400:
			s.log.Warn("request error", attrs...)
		default:
			s.log.Debug("request completed", attrs...)
		}
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("server stopped")
	return nil
}
