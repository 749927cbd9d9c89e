package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFileType indicates a file kind outside the supported set.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrExtraction indicates text extraction failed on a corrupt or
	// malformed file. Ingestion is marked failed; the index is untouched.
	ErrExtraction = errors.New("extraction failed")

	// ErrEmbedding indicates the embedding service failed. During ingestion
	// the document is marked failed; at query time it surfaces as ErrRetrieval.
	ErrEmbedding = errors.New("embedding failed")

	// ErrDimensionMismatch indicates a vector's length differs from the
	// index dimensionality. This is a configuration error and is surfaced
	// immediately, never coerced.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrRetrieval indicates retrieval failed in document mode. The request
	// fails rather than falling back to ungrounded generation.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrGeneration indicates the language model call failed or timed out.
	ErrGeneration = errors.New("generation failed")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)

// GenerationError wraps ErrGeneration with the time spent before the
// language model call failed, so callers can report partial elapsed time.
type GenerationError struct {
	// Elapsed is the wall-clock time spent before the failure.
	Elapsed time.Duration

	// Cause is the underlying transport or timeout error.
	Cause error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed after %s: %v", e.Elapsed.Round(time.Millisecond), e.Cause)
}

// Unwrap reports ErrGeneration so errors.Is dispatch works.
func (e *GenerationError) Unwrap() error {
	return ErrGeneration
}
