package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs the ingestion pipeline: extract, chunk, embed,
// index, persist. Processing is all-or-nothing per document; a failure
// at any stage marks the document failed and leaves the index without
// any of its entries.
type IngestService struct {
	store      driven.DocumentStore
	extractors driven.ExtractorRegistry
	pipeline   driven.PostProcessorPipeline
	embedder   driven.EmbeddingService
	index      driven.VectorIndex
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	store driven.DocumentStore,
	extractors driven.ExtractorRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
) *IngestService {
	return &IngestService{
		store:      store,
		extractors: extractors,
		pipeline:   pipeline,
		embedder:   embedder,
		index:      index,
	}
}

// Ingest processes one uploaded file. On failure the returned document
// carries StatusFailed and the failure reason, alongside the error.
func (s *IngestService) Ingest(ctx context.Context, filename string, data []byte) (*domain.Document, error) {
	if filename == "" || len(data) == 0 {
		return nil, fmt.Errorf("empty filename or content: %w", domain.ErrInvalidInput)
	}

	kind, err := domain.FileKindFromName(filename)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.index == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	doc := &domain.Document{
		ID:         domain.DocumentID(filename, data),
		Filename:   filename,
		Kind:       kind,
		Status:     domain.StatusPending,
		IngestedAt: time.Now().UTC(),
	}

	logger.Section("Ingest")
	logger.Debug("Ingesting %s as %s (%d bytes, id %s)", filename, kind, len(data), doc.ID)

	// The ID is content-derived, so an identical re-upload maps to the
	// same record. A document that already processed cleanly is returned
	// as is; a duplicate drop-folder event must not downgrade it.
	if existing, err := s.store.GetDocument(ctx, doc.ID); err == nil && existing.Status == domain.StatusProcessed {
		logger.Debug("Document %s already processed, skipping", doc.ID)
		return existing, nil
	}

	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	// Stage 1: extract text.
	text, err := s.extractors.Extract(ctx, kind, data)
	if err != nil {
		return s.markFailed(ctx, doc, err)
	}
	if strings.TrimSpace(text) == "" {
		return s.markFailed(ctx, doc, fmt.Errorf("no extractable text: %w", domain.ErrExtraction))
	}
	doc.Content = text

	// Stage 2: chunk.
	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return s.markFailed(ctx, doc, err)
	}
	if len(chunks) == 0 {
		return s.markFailed(ctx, doc, fmt.Errorf("no chunks produced: %w", domain.ErrExtraction))
	}
	logger.Debug("Split into %d chunks", len(chunks))

	// Stage 3: embed all chunks as one batch.
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return s.markFailed(ctx, doc, err)
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	// Stage 4: index. A re-upload of identical content shares the
	// document ID, so drop any previous entries first.
	entries := make([]domain.IndexEntry, len(chunks))
	for i, c := range chunks {
		entries[i] = domain.IndexEntry{
			ChunkID:    c.ID,
			DocumentID: c.DocumentID,
			Filename:   doc.Filename,
			Content:    c.Content,
			Vector:     c.Embedding,
		}
	}
	if err := s.index.RemoveDocument(ctx, doc.ID); err != nil {
		return s.markFailed(ctx, doc, err)
	}
	if err := s.index.Add(ctx, entries); err != nil {
		return s.markFailed(ctx, doc, err)
	}

	// Stage 5: persist chunks and the processed document. If persistence
	// fails, take the entries back out so the index never serves chunks
	// the store does not have.
	doc.Status = domain.StatusProcessed
	doc.ChunkCount = len(chunks)
	if err := s.store.SaveChunks(ctx, chunks); err != nil {
		s.rollbackIndex(ctx, doc.ID)
		return s.markFailed(ctx, doc, err)
	}
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		s.rollbackIndex(ctx, doc.ID)
		return s.markFailed(ctx, doc, err)
	}

	if err := s.index.Save(); err != nil {
		logger.Warn("Failed to save index snapshot: %v", err)
	}

	logger.Debug("Processed %s: %d chunks indexed", filename, len(chunks))
	return doc, nil
}

// markFailed records the failure on the document. The original error is
// returned alongside the failed document.
func (s *IngestService) markFailed(ctx context.Context, doc *domain.Document, cause error) (*domain.Document, error) {
	doc.Status = domain.StatusFailed
	doc.FailureReason = cause.Error()
	doc.ChunkCount = 0
	doc.Content = ""

	if saveErr := s.store.SaveDocument(ctx, doc); saveErr != nil {
		logger.Warn("Failed to record ingestion failure for %s: %v", doc.ID, saveErr)
	}

	logger.Warn("Ingestion of %s failed: %v", doc.Filename, cause)
	return doc, cause
}

// rollbackIndex removes a document's entries after a late-stage failure.
func (s *IngestService) rollbackIndex(ctx context.Context, documentID string) {
	if err := s.index.RemoveDocument(ctx, documentID); err != nil {
		logger.Warn("Failed to roll back index entries for %s: %v", documentID, err)
	}
}

// Delete removes a document record and its index entries.
func (s *IngestService) Delete(ctx context.Context, documentID string) error {
	if err := s.store.DeleteDocument(ctx, documentID); err != nil {
		return err
	}
	if err := s.index.RemoveDocument(ctx, documentID); err != nil {
		return fmt.Errorf("remove index entries: %w", err)
	}
	if err := s.index.Save(); err != nil {
		logger.Warn("Failed to save index snapshot: %v", err)
	}
	return nil
}

// Clear removes every document and resets the vector index.
func (s *IngestService) Clear(ctx context.Context) error {
	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	for _, doc := range docs {
		if err := s.store.DeleteDocument(ctx, doc.ID); err != nil {
			return fmt.Errorf("delete document %s: %w", doc.ID, err)
		}
		if err := s.index.RemoveDocument(ctx, doc.ID); err != nil {
			return fmt.Errorf("remove index entries for %s: %w", doc.ID, err)
		}
	}

	if err := s.index.Save(); err != nil {
		logger.Warn("Failed to save index snapshot: %v", err)
	}

	logger.Debug("Cleared %d documents", len(docs))
	return nil
}

// List returns all document records.
func (s *IngestService) List(ctx context.Context) ([]domain.Document, error) {
	return s.store.ListDocuments(ctx)
}

// Stats reports collection counts and per-document status.
func (s *IngestService) Stats(ctx context.Context) (*domain.CorpusStats, error) {
	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	chunkCount, err := s.store.CountChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}

	statuses := make(map[string]domain.DocumentStatus, len(docs))
	for _, doc := range docs {
		statuses[doc.ID] = doc.Status
	}

	return &domain.CorpusStats{
		DocumentCount: len(docs),
		ChunkCount:    chunkCount,
		Statuses:      statuses,
	}, nil
}

// RebuildIndex repopulates the vector index from the document store.
// Called at startup when the index snapshot is missing or stale.
func (s *IngestService) RebuildIndex(ctx context.Context) error {
	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	rebuilt := 0
	for _, doc := range docs {
		if doc.Status != domain.StatusProcessed {
			continue
		}

		chunks, err := s.store.GetChunks(ctx, doc.ID)
		if err != nil {
			return fmt.Errorf("load chunks for %s: %w", doc.ID, err)
		}

		entries := make([]domain.IndexEntry, 0, len(chunks))
		for _, c := range chunks {
			if len(c.Embedding) == 0 {
				continue
			}
			entries = append(entries, domain.IndexEntry{
				ChunkID:    c.ID,
				DocumentID: c.DocumentID,
				Filename:   doc.Filename,
				Content:    c.Content,
				Vector:     c.Embedding,
			})
		}

		if err := s.index.RemoveDocument(ctx, doc.ID); err != nil {
			return fmt.Errorf("reset index entries for %s: %w", doc.ID, err)
		}
		if err := s.index.Add(ctx, entries); err != nil {
			return fmt.Errorf("index chunks for %s: %w", doc.ID, err)
		}
		rebuilt += len(entries)
	}

	logger.Info("Rebuilt vector index with %d entries from %d documents", rebuilt, len(docs))
	return nil
}
