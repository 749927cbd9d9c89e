// Package cli implements the docchat command line interface.
// Commands are thin: they parse flags, call the driving services and
// format output. Services are injected once from main via SetServices.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// version is set from main at startup.
var version = "dev"

// Injected services. Nil until SetServices is called; commands guard
// against partial wiring.
var (
	chatService      driving.ChatService
	ingestService    driving.IngestService
	searchService    driving.SearchService
	settingsService  driving.SettingsService
	llmService       driven.LLMService
	embeddingService driven.EmbeddingService
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your documents, fully offline",
	Long: `Docchat is an offline document chat assistant.

Ingest PDF, DOCX and plain text files, then ask questions answered by a
local language model, grounded in the most relevant document passages.
Everything runs on your machine; no data leaves it.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Services bundles everything the commands need.
type Services struct {
	Chat     driving.ChatService
	Ingest   driving.IngestService
	Search   driving.SearchService
	Settings driving.SettingsService
	LLM      driven.LLMService
	Embedder driven.EmbeddingService
}

// SetServices injects the wired services. Called once from main before
// Execute.
func SetServices(s Services) {
	chatService = s.Chat
	ingestService = s.Ingest
	searchService = s.Search
	settingsService = s.Settings
	llmService = s.LLM
	embeddingService = s.Embedder
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
