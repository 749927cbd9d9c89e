package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts a local JSON API for frontends.

Endpoints:
  POST   /chat            chat with the collection
  POST   /documents       upload documents (multipart, field "files")
  GET    /documents       list documents
  DELETE /documents/{id}  remove one document
  DELETE /documents       clear the collection
  GET    /search          similarity search (q, optional k)
  GET    /stats           collection statistics
  GET    /health          service availability`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", httpapi.DefaultAddr, "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if chatService == nil || ingestService == nil {
		return errors.New("services not configured")
	}

	server := httpapi.NewServer(chatService, ingestService, searchService, llmService, embeddingService, httpapi.Config{
		Addr: serveAddr,
	})

	cmd.Printf("Serving on http://%s (Ctrl+C to stop)\n", serveAddr)
	return server.ListenAndServe(cmd.Context())
}
