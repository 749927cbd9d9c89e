package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

type chatRequest struct {
	Message        string `json:"message"`
	Mode           string `json:"mode"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type chatResponse struct {
	Response       string       `json:"response"`
	Mode           string       `json:"mode"`
	ProcessingTime float64      `json:"processing_time"`
	ConversationID string       `json:"conversation_id"`
	Metadata       chatMetadata `json:"metadata"`
}

type chatMetadata struct {
	Model         string   `json:"model"`
	ContextChunks int      `json:"context_chunks"`
	Sources       []string `json:"sources"`
}

type uploadResponse struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message"`
	Processed   int      `json:"processed"`
	Failed      int      `json:"failed"`
	TotalChunks int      `json:"total_chunks"`
	Errors      []string `json:"errors"`
}

type documentResponse struct {
	ID            string    `json:"id"`
	Filename      string    `json:"filename"`
	Kind          string    `json:"kind"`
	Status        string    `json:"status"`
	FailureReason string    `json:"failure_reason,omitempty"`
	ChunkCount    int       `json:"chunk_count"`
	IngestedAt    time.Time `json:"ingested_at"`
}

type searchResponse struct {
	Query   string         `json:"query"`
	Results []searchResult `json:"results"`
}

type searchResult struct {
	ChunkID  string  `json:"chunk_id"`
	Filename string  `json:"filename"`
	Content  string  `json:"content"`
	Score    float64 `json:"score"`
	Rank     int     `json:"rank"`
}

type statsResponse struct {
	DocumentCount int               `json:"document_count"`
	ChunkCount    int               `json:"chunk_count"`
	Statuses      map[string]string `json:"statuses"`
}

type healthResponse struct {
	Status             string   `json:"status"`
	LLMAvailable       bool     `json:"llm_available"`
	EmbeddingAvailable bool     `json:"embedding_available"`
	DocumentCount      int      `json:"document_count"`
	ChunkCount         int      `json:"chunk_count"`
	Models             []string `json:"models,omitempty"`
	Message            string   `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// modelLister is satisfied by LLM adapters that can enumerate the models
// available on the runtime.
type modelLister interface {
	Models(ctx context.Context) ([]string, error)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "docchat api",
		"health":  "/health",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := healthResponse{Message: "api is running"}

	if s.llm != nil && s.llm.Ping(ctx) == nil {
		resp.LLMAvailable = true
		if lister, ok := s.llm.(modelLister); ok {
			if models, err := lister.Models(ctx); err == nil {
				resp.Models = models
			}
		}
	}
	if s.embedder != nil && s.embedder.Ping(ctx) == nil {
		resp.EmbeddingAvailable = true
	}

	if stats, err := s.ingest.Stats(ctx); err == nil {
		resp.DocumentCount = stats.DocumentCount
		resp.ChunkCount = stats.ChunkCount
	}

	if resp.LLMAvailable && resp.EmbeddingAvailable {
		resp.Status = "healthy"
	} else {
		resp.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	mode, err := domain.ParseChatMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown chat mode: "+req.Mode)
		return
	}

	result, err := s.chat.Chat(r.Context(), domain.ChatRequest{
		Message:        req.Message,
		Mode:           mode,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sources := result.Metadata.Sources
	if sources == nil {
		sources = []string{}
	}
	writeJSON(w, http.StatusOK, chatResponse{
		Response:       result.Response,
		Mode:           result.Mode.String(),
		ProcessingTime: result.ProcessingTime.Seconds(),
		ConversationID: result.ConversationID,
		Metadata: chatMetadata{
			Model:         result.Metadata.Model,
			ContextChunks: result.Metadata.ContextChunks,
			Sources:       sources,
		},
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart upload: "+err.Error())
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no files provided")
		return
	}

	resp := uploadResponse{Errors: []string{}}
	for _, header := range files {
		filename := filepath.Base(header.Filename)

		f, err := header.Open()
		if err != nil {
			resp.Failed++
			resp.Errors = append(resp.Errors, filename+": "+err.Error())
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			resp.Failed++
			resp.Errors = append(resp.Errors, filename+": "+err.Error())
			continue
		}

		doc, err := s.ingest.Ingest(r.Context(), filename, data)
		if err != nil {
			logger.Warn("upload %s failed: %v", filename, err)
			resp.Failed++
			resp.Errors = append(resp.Errors, filename+": "+err.Error())
			continue
		}
		resp.Processed++
		resp.TotalChunks += doc.ChunkCount
	}

	resp.Success = resp.Processed > 0
	if resp.Success {
		resp.Message = "documents processed"
	} else {
		resp.Message = "no documents processed"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.ingest.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]documentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, documentResponse{
			ID:            doc.ID,
			Filename:      doc.Filename,
			Kind:          string(doc.Kind),
			Status:        string(doc.Status),
			FailureReason: doc.FailureReason,
			ChunkCount:    doc.ChunkCount,
			IngestedAt:    doc.IngestedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.ingest.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearDocuments(w http.ResponseWriter, r *http.Request) {
	if err := s.ingest.Clear(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "all documents cleared"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	topK := 0
	if raw := r.URL.Query().Get("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "k must be a positive integer")
			return
		}
		topK = n
	}

	results, err := s.search.Search(r.Context(), query, topK)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := searchResponse{Query: query, Results: []searchResult{}}
	for _, res := range results {
		resp.Results = append(resp.Results, searchResult{
			ChunkID:  res.ChunkID,
			Filename: res.Filename,
			Content:  res.Content,
			Score:    res.Score,
			Rank:     res.Rank,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.ingest.Stats(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	statuses := make(map[string]string, len(stats.Statuses))
	for id, status := range stats.Statuses {
		statuses[id] = string(status)
	}
	writeJSON(w, http.StatusOK, statsResponse{
		DocumentCount: stats.DocumentCount,
		ChunkCount:    stats.ChunkCount,
		Statuses:      statuses,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps domain sentinels onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnsupportedFileType):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, domain.ErrLLMUnavailable),
		errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrVectorIndexUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, domain.ErrGeneration):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
