package cli

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/failcast/internal/core/domain"
)

func settingLine(key, value string) string {
	return fmt.Sprintf("%-29s %s", key, value)
}

func TestConfigShowCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, settingLine("model.path", "model.json"))
	assert.Contains(t, out, settingLine("pipeline.threshold", "80"))
	assert.Contains(t, out, settingLine("server.result_ttl_minutes", "30"))
	assert.Contains(t, out, settingLine("model.remote_url", "(unset)"))
}

func TestConfigCmd_DefaultsToShow(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "config")

	require.NoError(t, err)
	assert.Contains(t, out, settingLine("pipeline.label_column", "fail"))
}

func TestConfigShowCmd_MasksSecret(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	testSettings.settings.RemoteClientSecret = "hunter2"

	out, err := execute(t, "", "config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, settingLine("model.remote_client_secret", "********"))
	assert.NotContains(t, out, "hunter2")
}

func TestConfigShowCmd_InvalidSettings(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	testSettings.getErr = domain.ErrInvalidInput

	out, err := execute(t, "", "config", "show")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorContains(t, err, "invalid settings")
	assert.Contains(t, out, "model.path")
}

func TestConfigSetCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "config", "set", "pipeline.threshold", "75")

	require.NoError(t, err)
	assert.Contains(t, out, "Set pipeline.threshold = 75")
	assert.Equal(t, map[string]string{"pipeline.threshold": "75"}, testSettings.set)
}

func TestConfigSetCmd_MasksSecret(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "config", "set", domain.KeyRemoteClientSecret, "hunter2")

	require.NoError(t, err)
	assert.NotContains(t, out, "hunter2")
	assert.Equal(t, []string{domain.KeyRemoteClientSecret}, testSettings.keys())
}

func TestConfigSetCmd_Error(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	testSettings.setErr = domain.ErrInvalidInput

	_, err := execute(t, "", "config", "set", "pipeline.threshold", "high")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfigSetCmd_RequiresTwoArgs(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "config", "set", "pipeline.threshold")

	assert.Error(t, err)
}

func TestConfigCmd_NoService(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	settingsService = nil

	_, err := execute(t, "", "config", "show")

	assert.ErrorContains(t, err, "settings service not configured")
}
