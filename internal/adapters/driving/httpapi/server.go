// Package httpapi exposes the chat and document services over HTTP.
// The surface is a small JSON API intended for local frontends:
// chat, document upload and management, search, collection stats and
// health.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Defaults for the HTTP server.
const (
	DefaultAddr           = "127.0.0.1:8000"
	DefaultMaxUploadBytes = 50 << 20
)

// Config configures the HTTP server.
type Config struct {
	// Addr is the listen address. Defaults to DefaultAddr.
	Addr string

	// MaxUploadBytes bounds the total size of one upload request.
	// Defaults to DefaultMaxUploadBytes.
	MaxUploadBytes int64
}

// Server serves the JSON API.
type Server struct {
	chat     driving.ChatService
	ingest   driving.IngestService
	search   driving.SearchService
	llm      driven.LLMService
	embedder driven.EmbeddingService

	maxUploadBytes int64
	httpSrv        *http.Server
}

// NewServer wires the services into an HTTP server. The search service
// may be nil, which disables the search endpoint. The LLM and embedding
// services are only used for health reporting and may also be nil.
func NewServer(chat driving.ChatService, ingest driving.IngestService, search driving.SearchService, llm driven.LLMService, embedder driven.EmbeddingService, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}

	s := &Server{
		chat:           chat,
		ingest:         ingest,
		search:         search,
		llm:            llm,
		embedder:       embedder,
		maxUploadBytes: cfg.MaxUploadBytes,
	}
	s.httpSrv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /documents", s.handleUpload)
	mux.HandleFunc("GET /documents", s.handleListDocuments)
	mux.HandleFunc("DELETE /documents/{id}", s.handleDeleteDocument)
	mux.HandleFunc("DELETE /documents", s.handleClearDocuments)
	mux.HandleFunc("GET /stats", s.handleStats)
	if s.search != nil {
		mux.HandleFunc("GET /search", s.handleSearch)
	}

	return mux
}

// ListenAndServe blocks until the context is cancelled or the listener
// fails. Shutdown waits for in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http api listening on %s", s.httpSrv.Addr)
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	}
}
