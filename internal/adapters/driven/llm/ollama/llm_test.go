package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

func TestLLMService_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.False(t, req.Stream)
		require.NotNil(t, req.Options)
		assert.Equal(t, 128, req.Options.NumPredict)

		json.NewEncoder(w).Encode(generateResponse{Response: "hello there", Done: true})
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL, Model: "test-model"})
	defer svc.Close()

	result, err := svc.Complete(context.Background(), "say hello", driven.CompleteOptions{MaxTokens: 128})
	require.NoError(t, err)
	assert.Equal(t, "hello there", result)
}

func TestLLMService_Complete_DefaultMaxTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, DefaultMaxTokens, req.Options.NumPredict)
		json.NewEncoder(w).Encode(generateResponse{Response: "ok"})
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL})
	_, err := svc.Complete(context.Background(), "p", driven.CompleteOptions{})
	require.NoError(t, err)
}

func TestLLMService_Complete_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(generateResponse{Response: "too late"})
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond})

	_, err := svc.Complete(context.Background(), "p", driven.CompleteOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrGeneration))

	var genErr *domain.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.GreaterOrEqual(t, genErr.Elapsed, 50*time.Millisecond)
}

func TestLLMService_Complete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL})

	_, err := svc.Complete(context.Background(), "p", driven.CompleteOptions{})
	assert.True(t, errors.Is(err, domain.ErrGeneration))
}

func TestLLMService_Models(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models":[{"name":"llama3.1:8b"},{"name":"nomic-embed-text"}]}`))
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL})

	models, err := svc.Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"llama3.1:8b", "nomic-embed-text"}, models)
}

func TestLLMService_Ping_Unreachable(t *testing.T) {
	svc := NewLLMService(Config{BaseURL: "http://127.0.0.1:1"})

	err := svc.Ping(context.Background())
	assert.True(t, errors.Is(err, domain.ErrLLMUnavailable))
}

func TestLLMService_Defaults(t *testing.T) {
	svc := NewLLMService(Config{})
	assert.Equal(t, DefaultModel, svc.ModelName())
}
