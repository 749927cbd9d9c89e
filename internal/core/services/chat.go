package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// DefaultTopK is the number of chunks retrieved per document-mode query.
const DefaultTopK = 5

// ChatConfig holds tuning knobs for the chat service.
type ChatConfig struct {
	// TopK is the number of chunks retrieved per query (default: 5).
	TopK int

	// MaxContextChars bounds the assembled context block (default: 4000).
	MaxContextChars int

	// MaxTokens bounds the generated answer length.
	MaxTokens int

	// Temperature controls generation randomness.
	Temperature float64

	// MaxTurns bounds retained turns per conversation (default: 20).
	MaxTurns int

	// MaxConversations bounds retained conversations (default: 128).
	MaxConversations int
}

// ChatService answers user messages, grounding document-mode answers in
// retrieved chunks. General mode never touches the index or the
// embedding service.
type ChatService struct {
	llm       driven.LLMService
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	assembler *ContextAssembler
	builder   *PromptBuilder
	log       *ConversationLog
	cfg       ChatConfig
}

// NewChatService creates a new chat service.
// The embedder and index are only required for document mode and may be
// nil when only general mode is used.
func NewChatService(
	llm driven.LLMService,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	cfg ChatConfig,
) *ChatService {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}

	return &ChatService{
		llm:       llm,
		embedder:  embedder,
		index:     index,
		assembler: NewContextAssembler(cfg.MaxContextChars),
		builder:   NewPromptBuilder(),
		log:       NewConversationLog(cfg.MaxTurns, cfg.MaxConversations),
		cfg:       cfg,
	}
}

// SetPromptStore sets the prompt store for customisable prompts.
func (s *ChatService) SetPromptStore(store driven.PromptStore) {
	s.builder.SetPromptStore(store)
}

// Chat handles one message. Both the user and assistant turns are
// appended only after generation succeeds, so a failed request leaves
// the conversation exactly as it was.
func (s *ChatService) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResult, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, fmt.Errorf("empty message: %w", domain.ErrInvalidInput)
	}

	mode := req.Mode
	if mode == "" {
		mode = domain.ModeGeneral
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("unknown chat mode %q: %w", req.Mode, domain.ErrInvalidInput)
	}

	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = s.log.NewID()
	}

	// Requests against the same conversation serialise here.
	conv := s.log.acquire(conversationID)
	conv.mu.Lock()
	defer conv.mu.Unlock()

	start := time.Now()
	logger.Section("Chat")
	logger.Debug("Mode %s, conversation %s", mode, conversationID)

	var (
		contextBlock string
		included     []domain.RetrievalResult
	)
	if mode.RequiresRetrieval() {
		var err error
		contextBlock, included, err = s.retrieve(ctx, message)
		if err != nil {
			return nil, err
		}
	}

	prompt := s.builder.Build(mode, contextBlock, conv.history(), message)

	response, err := s.llm.Complete(ctx, prompt, driven.CompleteOptions{
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, err
	}
	response = strings.TrimSpace(response)

	now := time.Now()
	conv.append(s.log.maxTurns,
		domain.ConversationTurn{Role: domain.RoleUser, Content: message, Mode: mode, At: now},
		domain.ConversationTurn{Role: domain.RoleAssistant, Content: response, Mode: mode, At: now},
	)

	elapsed := time.Since(start)
	logger.Debug("Answered in %s using %d context chunks", elapsed.Round(time.Millisecond), len(included))

	return &domain.ChatResult{
		Response:       response,
		Mode:           mode,
		ConversationID: conversationID,
		ProcessingTime: elapsed,
		Metadata: domain.ChatMetadata{
			Model:         s.llm.ModelName(),
			ContextChunks: len(included),
			Sources:       sourceFilenames(included),
		},
	}, nil
}

// retrieve embeds the message and searches the index. An empty index is
// not an error; the caller falls through to the no-context prompt.
func (s *ChatService) retrieve(ctx context.Context, message string) (string, []domain.RetrievalResult, error) {
	if s.embedder == nil {
		return "", nil, domain.ErrEmbeddingUnavailable
	}
	if s.index == nil {
		return "", nil, domain.ErrVectorIndexUnavailable
	}

	query, err := s.embedder.Embed(ctx, message)
	if err != nil {
		return "", nil, fmt.Errorf("embed query: %v: %w", err, domain.ErrRetrieval)
	}

	results, err := s.index.Search(ctx, query, s.cfg.TopK)
	if err != nil {
		return "", nil, fmt.Errorf("search index: %v: %w", err, domain.ErrRetrieval)
	}

	logger.Debug("Retrieved %d chunks", len(results))
	for _, r := range results {
		logger.Debug("  #%d %s (%s) score=%.4f", r.Rank, r.ChunkID, r.Filename, r.Score)
	}

	contextBlock, included := s.assembler.Assemble(results)
	return contextBlock, included, nil
}

// History returns the retained turns for a conversation, oldest first.
func (s *ChatService) History(conversationID string) []domain.ConversationTurn {
	return s.log.History(conversationID)
}

// sourceFilenames returns the distinct filenames in rank order.
func sourceFilenames(results []domain.RetrievalResult) []string {
	seen := make(map[string]bool, len(results))
	var sources []string
	for _, r := range results {
		if r.Filename == "" || seen[r.Filename] {
			continue
		}
		seen[r.Filename] = true
		sources = append(sources, r.Filename)
	}
	return sources
}
