package mcp

import (
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat answers questions, optionally grounded in the collection.
	Chat driving.ChatService

	// Ingest manages the document collection. Optional; without it the
	// stats tool and document resources report nothing.
	Ingest driving.IngestService

	// Search finds chunks by similarity. Optional; without it the
	// search tool is not registered.
	Search driving.SearchService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	// Ingest is optional
	return nil
}
