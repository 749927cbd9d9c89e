package driven

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// Extractor converts raw uploaded bytes into plain text.
// Each extractor handles exactly one declared file kind; selection is by
// kind, never by content inspection.
type Extractor interface {
	// Kind returns the file kind this extractor handles.
	Kind() domain.FileKind

	// Extract returns the plain text content of the raw bytes. Malformed
	// or corrupt input fails with an error wrapping domain.ErrExtraction.
	Extract(ctx context.Context, data []byte) (string, error)
}

// ExtractorRegistry selects the extractor for a declared file kind.
type ExtractorRegistry interface {
	// Extract dispatches to the registered extractor for the kind.
	// Unregistered kinds fail with domain.ErrUnsupportedFileType.
	Extract(ctx context.Context, kind domain.FileKind, data []byte) (string, error)

	// Kinds returns the registered file kinds.
	Kinds() []domain.FileKind
}
