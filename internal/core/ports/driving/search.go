package driving

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// SearchService finds chunks relevant to a free-text query without
// involving the LLM.
type SearchService interface {
	// Search embeds the query and returns at most topK scored chunks,
	// best first. A topK of zero or less uses the service default. An
	// empty corpus yields an empty result set, not an error.
	Search(ctx context.Context, query string, topK int) ([]domain.RetrievalResult, error)
}
