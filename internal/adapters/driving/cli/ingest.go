package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Add documents to the collection",
	Long: `Extracts, chunks, embeds and indexes the given files.

Supported formats: PDF, DOCX and plain text (.txt, .md, .text).
Re-ingesting an unchanged file replaces its previous entry.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	var processed, failed int
	for _, path := range args {
		filename := filepath.Base(path)

		data, err := os.ReadFile(path)
		if err != nil {
			cmd.Printf("  %s: %v\n", filename, err)
			failed++
			continue
		}

		doc, err := ingestService.Ingest(cmd.Context(), filename, data)
		if err != nil {
			if errors.Is(err, domain.ErrUnsupportedFileType) {
				cmd.Printf("  %s: unsupported file type\n", filename)
			} else {
				cmd.Printf("  %s: %v\n", filename, err)
			}
			failed++
			continue
		}

		cmd.Printf("  %s: %d chunks (%s)\n", doc.Filename, doc.ChunkCount, doc.ID)
		processed++
	}

	cmd.Printf("\nIngested %d of %d files.\n", processed, processed+failed)
	if failed > 0 {
		return fmt.Errorf("%d files failed", failed)
	}
	return nil
}
