package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService answers similarity queries directly against the vector
// index. Unlike chat, results are raw scored chunks with no generation
// step involved.
type SearchService struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	topK     int
}

// NewSearchService creates a new search service. A topK of zero or less
// falls back to DefaultTopK.
func NewSearchService(embedder driven.EmbeddingService, index driven.VectorIndex, topK int) *SearchService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &SearchService{
		embedder: embedder,
		index:    index,
		topK:     topK,
	}
}

// Search embeds the query and returns the best-matching chunks.
func (s *SearchService) Search(ctx context.Context, query string, topK int) ([]domain.RetrievalResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty query: %w", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.index == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	k := topK
	if k <= 0 {
		k = s.topK
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %v: %w", err, domain.ErrRetrieval)
	}

	results, err := s.index.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %v: %w", err, domain.ErrRetrieval)
	}

	logger.Debug("Search %q returned %d chunks", query, len(results))
	return results, nil
}
