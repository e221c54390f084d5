package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cast"

	"github.com/custodia-labs/failcast/internal/core/domain"
	"github.com/custodia-labs/failcast/internal/core/ports/driven"
	"github.com/custodia-labs/failcast/internal/core/ports/driving"
	"github.com/custodia-labs/failcast/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService reads and writes application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	validate    *validator.Validate
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		validate:    validator.New(),
	}
}

// Get returns the stored settings layered over the defaults.
// Stored values of the wrong type are ignored.
func (s *SettingsService) Get() (domain.Settings, error) {
	settings := s.load()
	if err := s.check(settings); err != nil {
		return settings, err
	}
	return settings, nil
}

// Set parses value for key, validates the resulting settings and persists it.
func (s *SettingsService) Set(key, value string) error {
	typed, err := parseSetting(key, strings.TrimSpace(value))
	if err != nil {
		return err
	}

	settings := s.load()
	if err := applySetting(&settings, key, typed); err != nil {
		return err
	}
	if err := s.check(settings); err != nil {
		return err
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	logger.Debug("Setting %s = %v", key, typed)
	return nil
}

func (s *SettingsService) load() domain.Settings {
	settings := domain.DefaultSettings()
	for _, key := range domain.SettingKeys() {
		val, ok := s.configStore.Get(key)
		if !ok {
			continue
		}
		next := settings
		if err := applySetting(&next, key, val); err != nil {
			logger.Warn("Ignoring %s: %v", key, err)
			continue
		}
		settings = next
	}
	return settings
}

func (s *SettingsService) check(settings domain.Settings) error {
	err := s.validate.Struct(settings)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	var result *multierror.Error
	for _, fe := range verrs {
		result = multierror.Append(result, fmt.Errorf("%s fails %q", fieldKey(fe.Field()), fe.Tag()))
	}
	result.ErrorFormat = joinErrors
	return fmt.Errorf("%w: %w", domain.ErrInvalidInput, result)
}

// fieldKey maps a Settings field name back to its config key.
func fieldKey(field string) string {
	switch field {
	case "ModelPath":
		return domain.KeyModelPath
	case "ScalerPath":
		return domain.KeyScalerPath
	case "PositiveClassIndex":
		return domain.KeyPositiveClassIndex
	case "RemoteURL":
		return domain.KeyRemoteURL
	case "RemoteTokenURL":
		return domain.KeyRemoteTokenURL
	case "RemoteClientID":
		return domain.KeyRemoteClientID
	case "RemoteClientSecret":
		return domain.KeyRemoteClientSecret
	case "RemoteRPS":
		return domain.KeyRemoteRPS
	case "LabelColumn":
		return domain.KeyLabelColumn
	case "Threshold":
		return domain.KeyThreshold
	case "ServerAddr":
		return domain.KeyServerAddr
	case "ResultTTL":
		return domain.KeyResultTTLMinutes
	default:
		return field
	}
}

// parseSetting converts text into the type stored for key.
func parseSetting(key, value string) (any, error) {
	var (
		typed any
		err   error
	)
	switch key {
	case domain.KeyPositiveClassIndex, domain.KeyResultTTLMinutes:
		typed, err = cast.ToIntE(value)
	case domain.KeyRemoteRPS, domain.KeyThreshold:
		typed, err = cast.ToFloat64E(value)
	case domain.KeyStrictColumnOrder:
		typed, err = cast.ToBoolE(value)
	default:
		if !isSettingKey(key) {
			return nil, fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
		}
		typed = value
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}
	return typed, nil
}

// applySetting writes a stored value into settings.
func applySetting(s *domain.Settings, key string, val any) error {
	var err error
	switch key {
	case domain.KeyModelPath:
		s.ModelPath, err = cast.ToStringE(val)
	case domain.KeyScalerPath:
		s.ScalerPath, err = cast.ToStringE(val)
	case domain.KeyPositiveClassIndex:
		s.PositiveClassIndex, err = cast.ToIntE(val)
	case domain.KeyRemoteURL:
		s.RemoteURL, err = cast.ToStringE(val)
	case domain.KeyRemoteTokenURL:
		s.RemoteTokenURL, err = cast.ToStringE(val)
	case domain.KeyRemoteClientID:
		s.RemoteClientID, err = cast.ToStringE(val)
	case domain.KeyRemoteClientSecret:
		s.RemoteClientSecret, err = cast.ToStringE(val)
	case domain.KeyRemoteRPS:
		s.RemoteRPS, err = cast.ToFloat64E(val)
	case domain.KeyLabelColumn:
		s.LabelColumn, err = cast.ToStringE(val)
	case domain.KeyThreshold:
		s.Threshold, err = cast.ToFloat64E(val)
	case domain.KeyStrictColumnOrder:
		s.StrictColumnOrder, err = cast.ToBoolE(val)
	case domain.KeyServerAddr:
		s.ServerAddr, err = cast.ToStringE(val)
	case domain.KeyResultTTLMinutes:
		var minutes int
		minutes, err = cast.ToIntE(val)
		s.ResultTTL = time.Duration(minutes) * time.Minute
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	return err
}

func isSettingKey(key string) bool {
	for _, k := range domain.SettingKeys() {
		if k == key {
			return true
		}
	}
	return false
}
