package mcp

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	result  *domain.ChatResult
	err     error
	lastReq domain.ChatRequest
}

func (m *mockChatService) Chat(_ context.Context, req domain.ChatRequest) (*domain.ChatResult, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockChatService) History(string) []domain.ConversationTurn {
	return nil
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	docs  []domain.Document
	stats *domain.CorpusStats
	err   error
}

func (m *mockIngestService) Ingest(_ context.Context, _ string, _ []byte) (*domain.Document, error) {
	return nil, m.err
}

func (m *mockIngestService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockIngestService) Clear(_ context.Context) error {
	return m.err
}

func (m *mockIngestService) List(_ context.Context) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockIngestService) Stats(_ context.Context) (*domain.CorpusStats, error) {
	return m.stats, m.err
}

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results   []domain.RetrievalResult
	err       error
	lastQuery string
	lastTopK  int
}

func (m *mockSearchService) Search(_ context.Context, query string, topK int) ([]domain.RetrievalResult, error) {
	m.lastQuery = query
	m.lastTopK = topK
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}
