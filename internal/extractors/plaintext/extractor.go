// Package plaintext extracts text from plain text and markdown files.
package plaintext

import (
	"context"
	"strings"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text files. Bytes that are not valid UTF-8
// are dropped rather than failing the document.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Kind returns the file kind this extractor handles.
func (e *Extractor) Kind() domain.FileKind {
	return domain.FileKindPlainText
}

// Extract returns the file content as UTF-8 text with normalised line
// endings.
func (e *Extractor) Extract(_ context.Context, data []byte) (string, error) {
	content := strings.ToValidUTF8(string(data), "")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return content, nil
}
