package driving

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// IngestService manages the document collection: ingestion, deletion and
// statistics.
type IngestService interface {
	// Ingest extracts, chunks, embeds and indexes one uploaded file.
	// Processing is all-or-nothing per document: on any stage failure the
	// returned document carries StatusFailed with a reason and the vector
	// index is left untouched. Independent documents may be ingested
	// concurrently.
	Ingest(ctx context.Context, filename string, data []byte) (*domain.Document, error)

	// Delete removes a document record and its index entries.
	Delete(ctx context.Context, documentID string) error

	// Clear removes every document and resets the vector index.
	Clear(ctx context.Context) error

	// List returns all document records.
	List(ctx context.Context) ([]domain.Document, error)

	// Stats reports collection counts and per-document status.
	Stats(ctx context.Context) (*domain.CorpusStats, error)
}
