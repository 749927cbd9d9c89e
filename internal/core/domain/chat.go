package domain

import "time"

// ChatMode selects how a chat request is answered.
type ChatMode string

// Available chat modes.
const (
	// ModeGeneral answers from the model's general knowledge.
	// Retrieval is skipped entirely.
	ModeGeneral ChatMode = "general"

	// ModeDocument grounds the answer in retrieved document chunks.
	ModeDocument ChatMode = "document"
)

// IsValid returns true if the chat mode is recognised.
func (m ChatMode) IsValid() bool {
	switch m {
	case ModeGeneral, ModeDocument:
		return true
	default:
		return false
	}
}

// RequiresRetrieval returns true if this mode needs the vector index.
func (m ChatMode) RequiresRetrieval() bool {
	return m == ModeDocument
}

// String returns the string representation.
func (m ChatMode) String() string {
	return string(m)
}

// ParseChatMode validates a mode string from an external caller.
// An empty string defaults to ModeGeneral.
func ParseChatMode(s string) (ChatMode, error) {
	if s == "" {
		return ModeGeneral, nil
	}
	m := ChatMode(s)
	if !m.IsValid() {
		return "", ErrInvalidInput
	}
	return m, nil
}

// TurnRole identifies the author of a conversation turn.
type TurnRole string

// Conversation turn roles.
const (
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
)

// ConversationTurn is one message in a conversation.
type ConversationTurn struct {
	// Role is who authored the turn.
	Role TurnRole

	// Content is the message text.
	Content string

	// Mode is the chat mode the turn was produced under.
	Mode ChatMode

	// At is when the turn was recorded.
	At time.Time
}

// Conversation is an ordered, append-only sequence of turns.
type Conversation struct {
	// ID is the conversation identifier.
	ID string

	// Turns are the retained turns, oldest first. The store bounds the
	// length by evicting the oldest turns.
	Turns []ConversationTurn
}

// ChatRequest is a single chat invocation.
type ChatRequest struct {
	// Message is the user's input text.
	Message string

	// Mode selects general or document-grounded answering.
	Mode ChatMode

	// ConversationID keys the conversation history. Empty means a new
	// conversation; unknown IDs implicitly create one.
	ConversationID string
}

// ChatResult is the structured outcome of a successful chat request.
type ChatResult struct {
	// Response is the generated assistant text.
	Response string

	// Mode is the mode the request was answered under.
	Mode ChatMode

	// ConversationID identifies the conversation the turns were appended to.
	ConversationID string

	// ProcessingTime is the total wall-clock time for the request.
	ProcessingTime time.Duration

	// Metadata carries per-request details: model name, retrieved chunk
	// count, cited source filenames.
	Metadata ChatMetadata
}

// ChatMetadata carries non-essential details about a chat result.
type ChatMetadata struct {
	// Model is the LLM model that produced the response.
	Model string

	// ContextChunks is the number of chunks included in the grounding
	// context. Zero in general mode.
	ContextChunks int

	// Sources are the distinct source filenames cited in the context.
	Sources []string
}
