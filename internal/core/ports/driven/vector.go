package driven

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// VectorIndex provides similarity search over chunk embeddings.
// Backed by a brute-force cosine scan; corpus sizes here do not warrant
// an approximate nearest-neighbour structure.
type VectorIndex interface {
	// Add appends entries as one atomic unit. It fails with
	// domain.ErrDimensionMismatch if any vector's length differs from the
	// index dimensionality, which is fixed by the first insertion.
	Add(ctx context.Context, entries []domain.IndexEntry) error

	// Search finds the k most similar entries to the query vector, ordered
	// by descending cosine similarity. Ties break by insertion order,
	// earliest first, so retrieval is deterministic. An empty index returns
	// an empty slice, never an error.
	Search(ctx context.Context, query []float32, k int) ([]domain.RetrievalResult, error)

	// RemoveDocument removes all entries belonging to the document.
	// Idempotent: removing an absent document is not an error.
	RemoveDocument(ctx context.Context, documentID string) error

	// Size returns the total number of entries.
	Size() int

	// Save persists the index so a reload yields identical search results.
	Save() error

	// Close releases resources, persisting first if needed.
	Close() error
}
