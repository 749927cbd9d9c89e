package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection and service status",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	stats, err := ingestService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	cmd.Println("Collection:")
	cmd.Printf("  Documents: %d\n", stats.DocumentCount)
	cmd.Printf("  Chunks:    %d\n", stats.ChunkCount)

	cmd.Println("\nServices:")
	cmd.Printf("  LLM:        %s\n", serviceStatus(cmd, llmPing))
	cmd.Printf("  Embeddings: %s\n", serviceStatus(cmd, embeddingPing))

	return nil
}

func llmPing(cmd *cobra.Command) error {
	if llmService == nil {
		return errors.New("not configured")
	}
	return llmService.Ping(cmd.Context())
}

func embeddingPing(cmd *cobra.Command) error {
	if embeddingService == nil {
		return errors.New("not configured")
	}
	return embeddingService.Ping(cmd.Context())
}

func serviceStatus(cmd *cobra.Command, ping func(*cobra.Command) error) string {
	if err := ping(cmd); err != nil {
		return fmt.Sprintf("unavailable (%v)", err)
	}
	return "available"
}
