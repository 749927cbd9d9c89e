package extractors

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps file kinds to their extractors.
type Registry struct {
	extractors map[domain.FileKind]driven.Extractor
}

// NewRegistry creates a registry with the given extractors. A later
// extractor for the same kind replaces an earlier one.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{
		extractors: make(map[domain.FileKind]driven.Extractor, len(extractors)),
	}
	for _, e := range extractors {
		r.extractors[e.Kind()] = e
	}
	return r
}

// Register adds an extractor for its declared kind.
func (r *Registry) Register(e driven.Extractor) {
	r.extractors[e.Kind()] = e
}

// Extract dispatches to the extractor registered for the kind.
func (r *Registry) Extract(ctx context.Context, kind domain.FileKind, data []byte) (string, error) {
	e, ok := r.extractors[kind]
	if !ok {
		return "", fmt.Errorf("no extractor for %s: %w", kind, domain.ErrUnsupportedFileType)
	}
	return e.Extract(ctx, data)
}

// Kinds returns the registered file kinds in stable order.
func (r *Registry) Kinds() []domain.FileKind {
	kinds := make([]domain.FileKind, 0, len(r.extractors))
	for kind := range r.extractors {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
