package driving

import (
	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// SettingsService reads and updates the persisted configuration.
// Changes take effect on the next start.
type SettingsService interface {
	// List returns every known setting with its effective value.
	List() []domain.Setting

	// Get returns one setting. Unknown keys return ErrInvalidInput.
	Get(key string) (*domain.Setting, error)

	// Set parses, validates and persists a value. Unknown keys and
	// malformed or out-of-range values return ErrInvalidInput.
	Set(key, value string) error
}
