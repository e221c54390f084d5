package driving

import "github.com/custodia-labs/failcast/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the current settings with defaults applied.
	Get() (domain.Settings, error)

	// Set validates and persists a single setting given as text.
	Set(key, value string) error
}
