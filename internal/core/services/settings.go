package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Configuration keys understood by the application.
const (
	KeyOllamaBaseURL  = "ollama.base_url"
	KeyLLMModel       = "llm.model"
	KeyEmbeddingModel = "embedding.model"
	KeyEmbeddingDims  = "embedding.dimensions"
	KeyChunkSize      = "chunker.chunk_size"
	KeyChunkOverlap   = "chunker.overlap"
	KeyTopK           = "chat.top_k"
	KeyMaxContext     = "chat.max_context_chars"
	KeyMaxTokens      = "chat.max_tokens"
	KeyTemperature    = "chat.temperature"
	KeyMaxTurns       = "chat.max_turns"
)

type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
)

// settingDef describes one known key: its type, display default and
// numeric bounds. Bounds apply when max > min.
type settingDef struct {
	key         string
	kind        settingKind
	description string
	defaultVal  string
	min, max    float64
}

var settingDefs = []settingDef{
	{KeyOllamaBaseURL, kindString, "Ollama API base URL", "http://localhost:11434", 0, 0},
	{KeyLLMModel, kindString, "model used for answer generation", "llama3.1:8b", 0, 0},
	{KeyEmbeddingModel, kindString, "model used for embeddings", "nomic-embed-text", 0, 0},
	{KeyEmbeddingDims, kindInt, "embedding vector size", "768", 1, 8192},
	{KeyChunkSize, kindInt, "characters per chunk", "1000", 1, 100000},
	{KeyChunkOverlap, kindInt, "overlapping characters between chunks", "200", 0, 100000},
	{KeyTopK, kindInt, "chunks retrieved per document-mode query", "5", 1, 100},
	{KeyMaxContext, kindInt, "maximum characters of assembled context", "4000", 1, 1000000},
	{KeyMaxTokens, kindInt, "maximum tokens generated per answer", "256", 1, 100000},
	{KeyTemperature, kindFloat, "generation temperature", "0.7", 0, 2},
	{KeyMaxTurns, kindInt, "turns retained per conversation", "20", 1, 1000},
}

// SettingsService reads and updates application configuration. Writes
// persist immediately but only take effect on the next start.
type SettingsService struct {
	store driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(store driven.ConfigStore) *SettingsService {
	return &SettingsService{store: store}
}

// List returns every known setting in declaration order.
func (s *SettingsService) List() []domain.Setting {
	out := make([]domain.Setting, 0, len(settingDefs))
	for _, def := range settingDefs {
		out = append(out, s.resolve(def))
	}
	return out
}

// Get returns one setting by key.
func (s *SettingsService) Get(key string) (*domain.Setting, error) {
	def, ok := lookupDef(key)
	if !ok {
		return nil, fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}
	setting := s.resolve(def)
	return &setting, nil
}

// Set parses, validates and persists a value for a known key.
func (s *SettingsService) Set(key, value string) error {
	def, ok := lookupDef(key)
	if !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}

	switch def.kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s expects an integer, got %q: %w", key, value, domain.ErrInvalidInput)
		}
		if err := checkBounds(def, float64(n)); err != nil {
			return err
		}
		return s.store.Set(def.key, n)

	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s expects a number, got %q: %w", key, value, domain.ErrInvalidInput)
		}
		if err := checkBounds(def, f); err != nil {
			return err
		}
		return s.store.Set(def.key, f)

	default:
		value = strings.TrimSpace(value)
		if value == "" {
			return fmt.Errorf("%s cannot be empty: %w", key, domain.ErrInvalidInput)
		}
		return s.store.Set(def.key, value)
	}
}

// resolve builds the display form of one setting.
func (s *SettingsService) resolve(def settingDef) domain.Setting {
	setting := domain.Setting{
		Key:         def.key,
		Description: def.description,
	}

	val, ok := s.store.Get(def.key)
	if !ok {
		setting.Value = def.defaultVal
		setting.IsDefault = true
		return setting
	}

	setting.Value = formatValue(val)
	return setting
}

func lookupDef(key string) (settingDef, bool) {
	for _, def := range settingDefs {
		if def.key == key {
			return def, true
		}
	}
	return settingDef{}, false
}

func checkBounds(def settingDef, v float64) error {
	if def.max <= def.min {
		return nil
	}
	if v < def.min || v > def.max {
		return fmt.Errorf("%s must be between %g and %g: %w",
			def.key, def.min, def.max, domain.ErrInvalidInput)
	}
	return nil
}

// formatValue renders a stored value for display. TOML numbers load as
// int64 or float64.
func formatValue(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
