package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"nbedit/internal/assist"
	"nbedit/internal/logger"
	"nbedit/internal/preview"
	"nbedit/internal/store"
)

// maxUploadSize bounds multipart uploads
const maxUploadSize = 32 << 20

// Server exposes the editor's collaborators to browser front-ends
type Server struct {
	store     *store.Store
	processor assist.Processor
	preview   *preview.Renderer
	model     string

	srv *http.Server
}

// Option configures a Server
type Option func(*Server)

// WithProcessor enables /api/process. model is reported by health checks.
func WithProcessor(p assist.Processor, model string) Option {
	return func(s *Server) {
		s.processor = p
		s.model = model
	}
}

// WithPreview renders /api/preview with r
func WithPreview(r *preview.Renderer) Option {
	return func(s *Server) {
		s.preview = r
	}
}

// New creates a server backed by st
func New(st *store.Store, opts ...Option) *Server {
	s := &Server{store: st}
	for _, opt := range opts {
		opt(s)
	}
	if s.preview == nil {
		s.preview = preview.New()
	}
	return s
}

// Handler returns the routed handler with CORS and request logging
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/process", s.handleProcess)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/models", s.handleModels)
	mux.HandleFunc("POST /api/validate-name", s.handleValidateName)
	mux.HandleFunc("POST /api/save-document", s.handleSaveDocument)
	mux.HandleFunc("POST /api/upload-image", s.handleUploadImage)
	mux.HandleFunc("POST /api/preview", s.handlePreview)
	mux.HandleFunc("GET /images/{doc}/{file}", s.handleImage)
	return withCORS(withLogging(mux))
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening on %s", addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("Shutting down server")
		return s.srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadSize)).Decode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}

// withCORS allows any origin so a front-end served elsewhere can call in
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
