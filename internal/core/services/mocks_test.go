package services

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// mockLLM implements driven.LLMService, recording prompts.
type mockLLM struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
}

var _ driven.LLMService = (*mockLLM)(nil)

func (m *mockLLM) Complete(_ context.Context, prompt string, _ driven.CompleteOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLM) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

func (m *mockLLM) ModelName() string             { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error  { return nil }
func (m *mockLLM) Close() error                  { return nil }

// mockEmbedder implements driven.EmbeddingService.
type mockEmbedder struct {
	mu     sync.Mutex
	vector []float32
	err    error
	calls  int
}

var _ driven.EmbeddingService = (*mockEmbedder)(nil)

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.vector, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		v, err := m.Embed(ctx, texts[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedder) embedCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockEmbedder) Dimensions() int              { return len(m.vector) }
func (m *mockEmbedder) ModelName() string            { return "mock-embedder" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockIndex implements driven.VectorIndex with canned search results.
type mockIndex struct {
	mu        sync.Mutex
	entries   []domain.IndexEntry
	results   []domain.RetrievalResult
	addErr    error
	searchErr error
	searches  int
}

var _ driven.VectorIndex = (*mockIndex)(nil)

func (m *mockIndex) Add(_ context.Context, entries []domain.IndexEntry) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.mu.Lock()
	m.entries = append(m.entries, entries...)
	m.mu.Unlock()
	return nil
}

func (m *mockIndex) Search(_ context.Context, _ []float32, k int) ([]domain.RetrievalResult, error) {
	m.mu.Lock()
	m.searches++
	m.mu.Unlock()
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.results) {
		k = len(m.results)
	}
	return m.results[:k], nil
}

func (m *mockIndex) RemoveDocument(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.DocumentID != documentID {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	return nil
}

func (m *mockIndex) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *mockIndex) searchCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searches
}

func (m *mockIndex) Save() error  { return nil }
func (m *mockIndex) Close() error { return nil }

// mockDocStore implements driven.DocumentStore in memory.
type mockDocStore struct {
	mu     sync.Mutex
	docs   map[string]domain.Document
	chunks map[string][]domain.Chunk

	saveDocErr    error
	saveChunksErr error
}

var _ driven.DocumentStore = (*mockDocStore)(nil)

func newMockDocStore() *mockDocStore {
	return &mockDocStore{
		docs:   make(map[string]domain.Document),
		chunks: make(map[string][]domain.Chunk),
	}
}

func (m *mockDocStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if m.saveDocErr != nil {
		return m.saveDocErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = *doc
	return nil
}

func (m *mockDocStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	if m.saveChunksErr != nil {
		return m.saveChunksErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range chunks {
		m.chunks[c.DocumentID] = append(m.chunks[c.DocumentID], c)
	}
	return nil
}

func (m *mockDocStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (m *mockDocStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	chunks := make([]domain.Chunk, len(m.chunks[documentID]))
	copy(chunks, m.chunks[documentID])
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Position < chunks[j].Position })
	return chunks, nil
}

func (m *mockDocStore) DeleteDocument(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.docs, id)
	delete(m.chunks, id)
	return nil
}

func (m *mockDocStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := make([]domain.Document, 0, len(m.docs))
	for _, doc := range m.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (m *mockDocStore) CountChunks(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, chunks := range m.chunks {
		total += len(chunks)
	}
	return total, nil
}

// mockRegistry implements driven.ExtractorRegistry returning fixed text.
type mockRegistry struct {
	text string
	err  error
}

var _ driven.ExtractorRegistry = (*mockRegistry)(nil)

func (m *mockRegistry) Extract(_ context.Context, _ domain.FileKind, _ []byte) (string, error) {
	return m.text, m.err
}

func (m *mockRegistry) Kinds() []domain.FileKind {
	return []domain.FileKind{domain.FileKindPlainText}
}

// mockPipeline implements driven.PostProcessorPipeline, splitting the
// document content on newlines.
type mockPipeline struct {
	err error
}

var _ driven.PostProcessorPipeline = (*mockPipeline)(nil)

func (m *mockPipeline) Process(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	var chunks []domain.Chunk
	for i, line := range splitLines(doc.Content) {
		chunks = append(chunks, domain.Chunk{
			ID:         doc.ID + "-" + string(rune('0'+i)),
			DocumentID: doc.ID,
			Content:    line,
			Position:   i,
		})
	}
	return chunks, nil
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
