package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
	"time"
)

// DocumentStatus tracks a document through its ingestion lifecycle.
type DocumentStatus string

// Document lifecycle states.
const (
	// StatusPending indicates the document was received but not yet processed.
	StatusPending DocumentStatus = "pending"

	// StatusProcessed indicates extraction, chunking, embedding and indexing
	// all completed. A processed document is never mutated again.
	StatusProcessed DocumentStatus = "processed"

	// StatusFailed indicates a processing stage failed. FailureReason records why.
	StatusFailed DocumentStatus = "failed"
)

// IsValid returns true if the status is recognised.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessed, StatusFailed:
		return true
	default:
		return false
	}
}

// FileKind identifies the declared format of an uploaded file.
// Extraction is dispatched on the declared kind, never on content sniffing.
type FileKind string

// Supported file kinds.
const (
	FileKindPDF       FileKind = "pdf"
	FileKindDOCX      FileKind = "docx"
	FileKindPlainText FileKind = "text"
)

// FileKindFromName derives the file kind from a filename extension.
// Returns ErrUnsupportedFileType for anything outside the supported set.
func FileKindFromName(name string) (FileKind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FileKindPDF, nil
	case ".docx":
		return FileKindDOCX, nil
	case ".txt", ".md", ".text":
		return FileKindPlainText, nil
	default:
		return "", ErrUnsupportedFileType
	}
}

// Document represents an ingested document.
// It is created on upload, mutated only during processing, and never
// mutated after reaching StatusProcessed.
type Document struct {
	// ID is the stable identifier, derived from filename and content hash.
	ID string

	// Filename is the original upload filename.
	Filename string

	// Kind is the declared file format.
	Kind FileKind

	// Content is the extracted plain text. Empty until extraction succeeds.
	Content string

	// Status is the current lifecycle state.
	Status DocumentStatus

	// FailureReason records why processing failed. Empty unless StatusFailed.
	FailureReason string

	// ChunkCount is the number of chunks indexed for this document.
	ChunkCount int

	// IngestedAt is when the document was received.
	IngestedAt time.Time
}

// DocumentID derives a stable document identifier from the original
// filename and the raw content. The same file uploaded twice yields the
// same ID, so re-uploads replace rather than duplicate.
func DocumentID(filename string, content []byte) string {
	h := sha256.New()
	h.Write([]byte(filename))
	h.Write([]byte{0})
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Chunk represents a retrieval unit within a document.
// Chunks are created once during ingestion and never mutated.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text span of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// StartOffset and EndOffset are the character range [StartOffset, EndOffset)
	// of Content within the parent document's extracted text.
	StartOffset int
	EndOffset   int

	// Embedding is the vector representation. Nil until computed.
	Embedding []float32
}

// IndexEntry is what the vector index stores for one chunk: the vector
// plus denormalised metadata so results can be assembled without a join.
type IndexEntry struct {
	// ChunkID identifies the chunk this vector belongs to.
	ChunkID string

	// DocumentID and Filename are denormalised from the parent document.
	DocumentID string
	Filename   string

	// Content is the chunk text, carried for context assembly.
	Content string

	// Vector is the embedding. Its length must match the index dimensionality.
	Vector []float32
}

// RetrievalResult is a scored chunk returned by a similarity search.
// Results are ephemeral: constructed per query, never persisted.
type RetrievalResult struct {
	// ChunkID identifies the matched chunk.
	ChunkID string

	// DocumentID and Filename identify the source document.
	DocumentID string
	Filename   string

	// Content is the chunk text.
	Content string

	// Score is the cosine similarity in [-1, 1].
	Score float64

	// Rank is the 1-based position in the result list.
	Rank int
}

// CorpusStats summarises the ingested collection.
type CorpusStats struct {
	// DocumentCount is the number of document records, any status.
	DocumentCount int

	// ChunkCount is the number of indexed chunks.
	ChunkCount int

	// Statuses maps document ID to its lifecycle status.
	Statuses map[string]DocumentStatus
}
