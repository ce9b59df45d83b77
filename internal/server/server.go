// Package server exposes the ice breaker pipeline over HTTP: the static
// front end at / and the form-encoded generation endpoint at /process.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/icelab/icebreaker/internal/domain"
	"go.uber.org/zap"
)

//go:embed web/index.html
var webFS embed.FS

// Generator runs one end-to-end ice breaker generation.
type Generator interface {
	Generate(ctx context.Context, personName string) (*domain.Summary, string, error)
}

type Config struct {
	Addr  string
	Debug bool
}

type Server struct {
	httpServer *http.Server
	generator  Generator
	logger     *zap.Logger
	debug      bool
}

func New(cfg Config, generator Generator, logger *zap.Logger) *Server {
	s := &Server{
		generator: generator,
		logger:    logger,
		debug:     cfg.Debug,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/process", s.handleProcess)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.withRequestLogging(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the routing tree for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Page not found"})
		return
	}

	page, err := webFS.ReadFile("web/index.html")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal server error"})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "Method not allowed"})
		return
	}

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Name parameter is required"})
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Name parameter is required"})
		return
	}

	s.logger.Info("Processing ice breaker request", zap.String("name", name))

	summary, photoURL, err := s.generator.Generate(r.Context(), name)
	if err != nil {
		s.logger.Error("Ice breaker generation failed",
			zap.String("name", name),
			zap.Error(err),
		)

		var details any
		if s.debug {
			details = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "Failed to generate ice breaker content. Please try again.",
			"details": details,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"summary_and_facts": summary,
		"photoUrl":          photoURL,
	})
}

func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(recorder, r)

		s.logger.Info("Request handled",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", recorder.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
