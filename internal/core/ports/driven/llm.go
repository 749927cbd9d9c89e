package driven

import "context"

// LLMService provides text completion through a local language model runtime.
//
// Implementations may include:
//   - Ollama (local models)
//   - LM Studio (local inference server)
//
// The service is treated as a black box: prompt in, generated text out.
type LLMService interface {
	// Complete produces a text completion for the prompt. The call is
	// bounded by the options' timeout; on timeout or connection failure it
	// returns an error wrapping domain.ErrGeneration. The call is never
	// retried automatically.
	Complete(ctx context.Context, prompt string, opts CompleteOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test
	// request. Used at startup and by health reporting.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompleteOptions configures a completion call.
type CompleteOptions struct {
	// MaxTokens bounds the generated length. Zero means the adapter default.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
