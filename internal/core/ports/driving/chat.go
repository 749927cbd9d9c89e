package driving

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// ChatService answers user messages, either from general knowledge or
// grounded in the ingested document collection.
type ChatService interface {
	// Chat handles one message. In document mode it retrieves relevant
	// chunks and grounds the answer in them; in general mode retrieval is
	// skipped. Both the user turn and the assistant turn are appended to
	// the conversation identified by the request, which is created on
	// first use. Failures return structured errors from the domain
	// taxonomy; a failed request never appends an assistant turn.
	Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResult, error)

	// History returns the retained turns for a conversation, oldest first.
	// Unknown conversation IDs return an empty history, not an error.
	History(conversationID string) []domain.ConversationTurn
}
