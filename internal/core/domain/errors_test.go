package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedFileType", ErrUnsupportedFileType},
		{"ErrExtraction", ErrExtraction},
		{"ErrEmbedding", ErrEmbedding},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
		{"ErrRetrieval", ErrRetrieval},
		{"ErrGeneration", ErrGeneration},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrVectorIndexUnavailable", ErrVectorIndexUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestGenerationError tests the wrapped generation failure
func TestGenerationError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &GenerationError{Elapsed: 1500 * time.Millisecond, Cause: cause}

	assert.True(t, errors.Is(err, ErrGeneration))
	assert.False(t, errors.Is(err, ErrRetrieval))
	assert.Contains(t, err.Error(), "1.5s")
	assert.Contains(t, err.Error(), "connection refused")
}
