package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "failcast")

	_, err := NewConfigStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("model.path", "forest.json"))

	val, ok := store.Get("model.path")
	assert.True(t, ok)
	assert.Equal(t, "forest.json", val)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("server.addr", ":9000"))
	require.NoError(t, store.Set("model.positive_class_index", 1))
	require.NoError(t, store.Set("pipeline.strict_column_order", true))

	assert.Equal(t, ":9000", store.GetString("server.addr"))
	assert.Equal(t, 1, store.GetInt("model.positive_class_index"))
	assert.True(t, store.GetBool("pipeline.strict_column_order"))

	assert.Empty(t, store.GetString("nonexistent"))
	assert.Zero(t, store.GetInt("nonexistent"))
	assert.False(t, store.GetBool("nonexistent"))
	assert.Zero(t, store.GetInt("server.addr"))
}

func TestConfigStore_PersistsAsTables(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("model.path", "forest.json"))
	require.NoError(t, store.Set("pipeline.threshold", 75.5))
	require.NoError(t, store.Set("server.result_ttl_minutes", 10))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[model]")
	assert.Contains(t, string(raw), "[pipeline]")

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "forest.json", reloaded.GetString("model.path"))
	assert.Equal(t, 10, reloaded.GetInt("server.result_ttl_minutes"))

	val, ok := reloaded.Get("pipeline.threshold")
	require.True(t, ok)
	assert.InDelta(t, 75.5, val, 1e-9)
}

func TestConfigStore_LoadHandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[model]
scaler_path = "/srv/scaler.json"
positive_class_index = 0

[pipeline]
label_column = "broken"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "/srv/scaler.json", store.GetString("model.scaler_path"))
	assert.Equal(t, 0, store.GetInt("model.positive_class_index"))
	assert.Equal(t, "broken", store.GetString("pipeline.label_column"))
}

func TestConfigStore_LoadInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[model\npath ="), 0600))

	_, err := NewConfigStore(dir)

	assert.Error(t, err)
}

func TestConfigStore_SaveAndLoad(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("model.remote_url", "http://models:9000"))
	require.NoError(t, store.Save())
	require.NoError(t, store.Load())

	assert.Equal(t, "http://models:9000", store.GetString("model.remote_url"))
}

func TestFlattenMap(t *testing.T) {
	in := map[string]any{
		"model": map[string]any{"path": "m.json", "remote": map[string]any{"url": "x"}},
		"top":   1,
	}

	out := flattenMap(in, "")

	assert.Equal(t, map[string]any{"model.path": "m.json", "model.remote.url": "x", "top": 1}, out)
}

func TestNestMap(t *testing.T) {
	flat := map[string]any{"model.path": "m.json", "server.addr": ":1", "a": 1, "a.b": 2}

	out := nestMap(flat)

	assert.Equal(t, map[string]any{"path": "m.json"}, out["model"])
	assert.Equal(t, map[string]any{"addr": ":1"}, out["server"])
	assert.Equal(t, 1, out["a"])
}

func TestConfigStore_SaveIsAtomic(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("pipeline.threshold", 90.0))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "# failcast configuration"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "config.toml", entries[0].Name())
}
