package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure PromptBuilder can receive a prompt store.
var _ driven.PromptStoreAware = (*PromptBuilder)(nil)

// Fallback prompts used when no PromptStore is configured.
const (
	defaultGeneralPrompt = `You are a helpful assistant. Answer the user's question clearly and concisely from your general knowledge. If you are not sure about something, say so.`

	defaultDocumentPrompt = `You are a helpful assistant that answers questions using the provided document excerpts. Base your answer on the excerpts below. If the excerpts do not contain the answer, say that the documents do not cover it; do not invent information.

Document excerpts:
%s`

	defaultNoContextPrompt = `You are a helpful assistant. The user asked about their documents, but no relevant excerpts were found in the collection. Say that nothing relevant was found and suggest rephrasing the question or uploading more documents. Do not invent document content.`
)

// PromptBuilder renders the final prompt sent to the language model:
// a mode-dependent system instruction, the retained conversation turns,
// and the current user message.
type PromptBuilder struct {
	prompts driven.PromptStore
}

// NewPromptBuilder creates a prompt builder using embedded defaults.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the builder uses hardcoded default prompts.
func (b *PromptBuilder) SetPromptStore(store driven.PromptStore) {
	b.prompts = store
}

// Build renders the prompt for one chat request. In document mode the
// contextBlock carries the assembled excerpts; when it is empty the
// no-context instruction is used instead so the model never fabricates
// document content.
func (b *PromptBuilder) Build(mode domain.ChatMode, contextBlock string, history []domain.ConversationTurn, message string) string {
	var system string
	switch {
	case mode == domain.ModeDocument && contextBlock != "":
		system = fmt.Sprintf(b.loadPrompt(driven.PromptChatDocument, defaultDocumentPrompt), contextBlock)
	case mode == domain.ModeDocument:
		system = b.loadPrompt(driven.PromptChatNoContext, defaultNoContextPrompt)
	default:
		system = b.loadPrompt(driven.PromptChatGeneral, defaultGeneralPrompt)
	}

	var sb strings.Builder
	sb.WriteString(system)
	sb.WriteString("\n\n")

	for _, turn := range history {
		switch turn.Role {
		case domain.RoleUser:
			sb.WriteString("User: ")
		case domain.RoleAssistant:
			sb.WriteString("Assistant: ")
		}
		sb.WriteString(turn.Content)
		sb.WriteString("\n")
	}

	sb.WriteString("User: ")
	sb.WriteString(message)
	sb.WriteString("\nAssistant:")
	return sb.String()
}

// loadPrompt loads a prompt from the store, falling back to the default
// if unavailable.
func (b *PromptBuilder) loadPrompt(name, fallback string) string {
	if b.prompts == nil {
		return fallback
	}
	prompt, err := b.prompts.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}
