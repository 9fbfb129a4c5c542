package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcasas/ragqa/rag"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "chromem", cfg.StoreType)
	assert.Equal(t, "knowledge_base", cfg.Collection)
	assert.Equal(t, 1536, cfg.Dimension)
	assert.Equal(t, 3, cfg.SearchTopK)
	assert.Equal(t, 2, cfg.AnswerTopK)
	assert.Equal(t, 0.80, cfg.MinScore)
	assert.Equal(t, 7860, cfg.Port)
	assert.Equal(t, float32(0.2), cfg.Temperature)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data := `{"StoreType": "memory", "Collection": "test_kb", "Port": 8080}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	t.Setenv("RAGQA_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.StoreType)
	assert.Equal(t, "test_kb", cfg.Collection)
	assert.Equal(t, 8080, cfg.Port)
	// Fields the file omits keep their defaults.
	assert.Equal(t, 1536, cfg.Dimension)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"StoreType": "milvus"}`), 0o644))
	t.Setenv("RAGQA_CONFIG", path)
	t.Setenv("RAGQA_STORE", "memory")
	t.Setenv("RAGQA_MIN_SCORE", "0.5")
	t.Setenv("RAGQA_TOP_K", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.StoreType)
	assert.Equal(t, 0.5, cfg.MinScore)
	assert.Equal(t, 5, cfg.SearchTopK)
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("RAGQA_CONFIG", "/no/such/config.json")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, rag.KindConfig, rag.KindOf(err))
}

func TestAPIKey(t *testing.T) {
	cfg := Default()
	cfg.APIKeyEnv = "RAGQA_TEST_KEY"

	t.Setenv("RAGQA_TEST_KEY", "")
	_, err := cfg.APIKey()
	require.Error(t, err)
	assert.Equal(t, rag.KindConfig, rag.KindOf(err))
	assert.Contains(t, err.Error(), "RAGQA_TEST_KEY")

	t.Setenv("RAGQA_TEST_KEY", "sk-test")
	key, err := cfg.APIKey()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", key)
}

func TestStoreConfig(t *testing.T) {
	cfg := Default()
	cfg.StoreType = "memory"
	cfg.Collection = "kb"
	cfg.Dimension = 8

	sc := cfg.StoreConfig()
	assert.Equal(t, "memory", sc.Type)
	assert.Equal(t, "kb", sc.Collection)
	assert.Equal(t, 8, sc.Dimension)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.json")

	cfg := Default()
	cfg.Collection = "saved_kb"
	require.NoError(t, cfg.Save(path))

	t.Setenv("RAGQA_CONFIG", path)
	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "saved_kb", loaded.Collection)
	assert.Equal(t, cfg.Port, loaded.Port)
}
