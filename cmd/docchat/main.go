package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/config/file"
	ollamaembed "github.com/custodia-labs/docchat-cli/internal/adapters/driven/embedding/ollama"
	ollamallm "github.com/custodia-labs/docchat-cli/internal/adapters/driven/llm/ollama"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/docchat-cli/internal/core/services"
	"github.com/custodia-labs/docchat-cli/internal/extractors"
	"github.com/custodia-labs/docchat-cli/internal/extractors/docx"
	"github.com/custodia-labs/docchat-cli/internal/extractors/pdf"
	"github.com/custodia-labs/docchat-cli/internal/extractors/plaintext"
	"github.com/custodia-labs/docchat-cli/internal/logger"
	"github.com/custodia-labs/docchat-cli/internal/postprocessors"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional and only overrides what the environment lacks.
	_ = godotenv.Load()

	baseDir := os.Getenv("DOCCHAT_HOME")
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".docchat")
	}

	cfg, err := file.NewConfigStore(baseDir)
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	prompts, err := file.NewPromptStore(filepath.Join(baseDir, "prompts"))
	if err != nil {
		return fmt.Errorf("opening prompt store: %w", err)
	}

	dataDir := filepath.Join(baseDir, "data")
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening document store: %w", err)
	}
	defer store.Close()

	baseURL := cfg.GetString(services.KeyOllamaBaseURL)

	embedder := ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    baseURL,
		Model:      cfg.GetString(services.KeyEmbeddingModel),
		Dimensions: cfg.GetInt(services.KeyEmbeddingDims),
	})
	defer embedder.Close()

	llm := ollamallm.NewLLMService(ollamallm.Config{
		BaseURL: baseURL,
		Model:   cfg.GetString(services.KeyLLMModel),
	})
	defer llm.Close()

	index, err := memory.New(memory.Config{
		Path:       filepath.Join(dataDir, "vectors.idx"),
		Dimensions: embedder.Dimensions(),
	})
	if err != nil {
		return fmt.Errorf("opening vector index: %w", err)
	}
	defer index.Close()

	registry := extractors.NewRegistry(
		plaintext.New(),
		docx.New(),
		pdf.New(),
	)

	processors := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(processors)

	chunkCfg := map[string]any{}
	if v, ok := cfg.Get(services.KeyChunkSize); ok {
		chunkCfg["chunk_size"] = v
	}
	if v, ok := cfg.Get(services.KeyChunkOverlap); ok {
		chunkCfg["overlap"] = v
	}
	chunkProc, err := processors.Build("chunker", chunkCfg)
	if err != nil {
		return fmt.Errorf("building chunker: %w", err)
	}
	pipeline := postprocessors.NewPipeline(chunkProc)

	ingestService := services.NewIngestService(store, registry, pipeline, embedder, index)

	chatService := services.NewChatService(llm, embedder, index, services.ChatConfig{
		TopK:            cfg.GetInt(services.KeyTopK),
		MaxContextChars: cfg.GetInt(services.KeyMaxContext),
		MaxTokens:       cfg.GetInt(services.KeyMaxTokens),
		Temperature:     cfg.GetFloat(services.KeyTemperature),
		MaxTurns:        cfg.GetInt(services.KeyMaxTurns),
	})
	chatService.SetPromptStore(prompts)

	searchService := services.NewSearchService(embedder, index, cfg.GetInt(services.KeyTopK))
	settingsService := services.NewSettingsService(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing or stale snapshot is repaired from the document store,
	// which remains the source of truth for chunks and embeddings.
	if index.Size() == 0 {
		if stats, err := ingestService.Stats(ctx); err == nil && stats.ChunkCount > 0 {
			logger.Info("Rebuilding vector index from %d stored chunks", stats.ChunkCount)
			if err := ingestService.RebuildIndex(ctx); err != nil {
				return fmt.Errorf("rebuilding vector index: %w", err)
			}
		}
	}

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Chat:     chatService,
		Ingest:   ingestService,
		Search:   searchService,
		Settings: settingsService,
		LLM:      llm,
		Embedder: embedder,
	})

	return cli.Execute(ctx)
}
