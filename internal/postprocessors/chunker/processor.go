// Package chunker splits document content into overlapping chunks for
// embedding and retrieval.
package chunker

import (
	"context"
	"fmt"
	"unicode"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

const (
	// DefaultChunkSize is the target chunk length in characters.
	DefaultChunkSize = 1000

	// DefaultOverlap is the number of characters shared between
	// consecutive chunks.
	DefaultOverlap = 200
)

// Chunker splits document text into fixed-size overlapping chunks,
// preferring paragraph and sentence boundaries over hard cuts.
// It implements the PostProcessor interface and is expected to run
// first in the pipeline, creating the initial chunk set.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Ensure Chunker implements the PostProcessor interface.
var _ driven.PostProcessor = (*Chunker)(nil)

// Option configures a Chunker.
type Option func(*Chunker)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a Chunker with the given options.
// An overlap at or above the chunk size is clamped to half the chunk
// size so chunking always makes forward progress.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 2
	}
	return c
}

// Name returns the processor name.
func (c *Chunker) Name() string {
	return "chunker"
}

// Process splits the document content into chunks. Incoming chunks are
// ignored; the chunker creates the initial set. Whitespace-only
// documents produce no chunks. Offsets are recorded in characters
// (runes) relative to the document content.
func (c *Chunker) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runes := []rune(doc.Content)
	if isBlank(runes) {
		return nil, nil
	}

	var chunks []domain.Chunk
	start := 0
	for start < len(runes) {
		end := start + c.chunkSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = c.breakPoint(runes, start, end)
		}

		s, e := trimRange(runes, start, end)
		if s < e {
			pos := len(chunks)
			chunks = append(chunks, domain.Chunk{
				ID:          fmt.Sprintf("%s-%d", doc.ID, pos),
				DocumentID:  doc.ID,
				Content:     string(runes[s:e]),
				Position:    pos,
				StartOffset: s,
				EndOffset:   e,
			})
		}

		if end == len(runes) {
			break
		}
		next := end - c.overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks, nil
}

// breakPoint finds the best cut position at or before end, searching
// backwards no further than half a chunk. Paragraph breaks win over
// sentence ends, sentence ends over plain whitespace. Returns end
// unchanged when no boundary is found in the window.
func (c *Chunker) breakPoint(runes []rune, start, end int) int {
	limit := end - c.chunkSize/2
	if limit < start+1 {
		limit = start + 1
	}

	wordBreak := -1
	sentenceBreak := -1
	for i := end - 1; i >= limit; i-- {
		r := runes[i]
		if r == '\n' && i > 0 && runes[i-1] == '\n' {
			return i + 1
		}
		if sentenceBreak < 0 && isSentenceEnd(r) && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			sentenceBreak = i + 1
		}
		if wordBreak < 0 && unicode.IsSpace(r) {
			wordBreak = i + 1
		}
	}
	if sentenceBreak > 0 {
		return sentenceBreak
	}
	if wordBreak > 0 {
		return wordBreak
	}
	return end
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// trimRange shrinks [start,end) so it excludes leading and trailing
// whitespace.
func trimRange(runes []rune, start, end int) (int, int) {
	for start < end && unicode.IsSpace(runes[start]) {
		start++
	}
	for end > start && unicode.IsSpace(runes[end-1]) {
		end--
	}
	return start, end
}

func isBlank(runes []rune) bool {
	for _, r := range runes {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
