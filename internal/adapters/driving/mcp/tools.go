package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// ChatInput is the input schema for the chat tool.
type ChatInput struct {
	Message        string `json:"message" jsonschema:"the question to ask"`
	Mode           string `json:"mode,omitempty" jsonschema:"general answers from model knowledge, document grounds the answer in the ingested collection (default general)"`
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"conversation to continue; omit to start a new one"`
}

// ChatOutput is the output schema for the chat tool.
type ChatOutput struct {
	Response       string   `json:"response"`
	Mode           string   `json:"mode"`
	ConversationID string   `json:"conversation_id"`
	ProcessingTime float64  `json:"processing_time"`
	Model          string   `json:"model,omitempty"`
	ContextChunks  int      `json:"context_chunks"`
	Sources        []string `json:"sources,omitempty"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the text to search for"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum number of chunks to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResult `json:"results"`
}

// SearchResult is one scored chunk in the search tool output.
type SearchResult struct {
	ChunkID  string  `json:"chunk_id"`
	Filename string  `json:"filename"`
	Content  string  `json:"content"`
	Score    float64 `json:"score"`
	Rank     int     `json:"rank"`
}

// StatsInput is the input schema for the stats tool.
type StatsInput struct{}

// StatsOutput is the output schema for the stats tool.
type StatsOutput struct {
	DocumentCount int `json:"document_count"`
	ChunkCount    int `json:"chunk_count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "chat",
		Description: "Ask a question, optionally grounded in the ingested document collection",
	}, s.handleChat)

	if s.ports.Search != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "search",
			Description: "Find document chunks by semantic similarity, without generating an answer",
		}, s.handleSearch)
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "stats",
		Description: "Report how many documents and chunks are in the collection",
	}, s.handleStats)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	results, err := s.ports.Search.Search(ctx, input.Query, input.TopK)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	out := SearchOutput{Results: make([]SearchResult, 0, len(results))}
	for _, r := range results {
		out.Results = append(out.Results, SearchResult{
			ChunkID:  r.ChunkID,
			Filename: r.Filename,
			Content:  r.Content,
			Score:    r.Score,
			Rank:     r.Rank,
		})
	}
	return nil, out, nil
}

// handleChat handles the chat tool invocation.
func (s *Server) handleChat(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChatInput,
) (*mcp.CallToolResult, ChatOutput, error) {
	mode, err := domain.ParseChatMode(input.Mode)
	if err != nil {
		return nil, ChatOutput{}, errors.New("unknown chat mode: " + input.Mode)
	}

	result, err := s.ports.Chat.Chat(ctx, domain.ChatRequest{
		Message:        input.Message,
		Mode:           mode,
		ConversationID: input.ConversationID,
	})
	if err != nil {
		return nil, ChatOutput{}, err
	}

	return nil, ChatOutput{
		Response:       result.Response,
		Mode:           result.Mode.String(),
		ConversationID: result.ConversationID,
		ProcessingTime: result.ProcessingTime.Seconds(),
		Model:          result.Metadata.Model,
		ContextChunks:  result.Metadata.ContextChunks,
		Sources:        result.Metadata.Sources,
	}, nil
}

// handleStats handles the stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	if s.ports.Ingest == nil {
		return nil, StatsOutput{}, nil
	}

	stats, err := s.ports.Ingest.Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}

	return nil, StatsOutput{
		DocumentCount: stats.DocumentCount,
		ChunkCount:    stats.ChunkCount,
	}, nil
}
