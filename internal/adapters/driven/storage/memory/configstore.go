package memory

import (
	"sync"

	"github.com/spf13/cast"

	"github.com/custodia-labs/failcast/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is an in-memory implementation of driven.ConfigStore for tests
// and for runs started without a config directory.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewConfigStore creates a new in-memory config store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		values: make(map[string]any),
	}
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	return val, ok
}

// GetString retrieves a value as a string.
func (s *ConfigStore) GetString(key string) string {
	val, _ := s.Get(key)
	str, err := cast.ToStringE(val)
	if err != nil {
		return ""
	}
	return str
}

// GetInt retrieves a value as an int.
func (s *ConfigStore) GetInt(key string) int {
	val, _ := s.Get(key)
	n, err := cast.ToIntE(val)
	if err != nil {
		return 0
	}
	return n
}

// GetBool retrieves a value as a bool.
func (s *ConfigStore) GetBool(key string) bool {
	val, _ := s.Get(key)
	b, err := cast.ToBoolE(val)
	if err != nil {
		return false
	}
	return b
}

// GetStringSlice retrieves a value as a string slice.
func (s *ConfigStore) GetStringSlice(key string) []string {
	val, ok := s.Get(key)
	if !ok {
		return nil
	}
	out, err := cast.ToStringSliceE(val)
	if err != nil {
		return nil
	}
	return out
}

// Set stores a configuration value.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Save is a no-op.
func (s *ConfigStore) Save() error {
	return nil
}

// Load is a no-op.
func (s *ConfigStore) Load() error {
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return ":memory:"
}
