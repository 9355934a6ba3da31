package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.APIBase)
	assert.Equal(t, "dusk", cfg.Theme)
	assert.NotEmpty(t, cfg.DataDir)
	assert.NotEmpty(t, cfg.LogFile)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(
		"api_base: https://journal.example.com\ntheme: paper\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://journal.example.com", cfg.APIBase)
	assert.Equal(t, "paper", cfg.Theme)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("api_base: https://from-file\n"), 0o644))

	t.Setenv("JOURNAL_API_BASE", "https://from-env")
	t.Setenv("JOURNAL_THEME", "paper")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://from-env", cfg.APIBase)
	assert.Equal(t, "paper", cfg.Theme)
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("api_base: [unclosed"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	in := Config{APIBase: "http://x", DataDir: "/tmp/j", LogFile: "/tmp/j/log", Theme: "dusk"}
	require.NoError(t, SaveConfig(in, path))

	out, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestStateDir(t *testing.T) {
	cfg := Config{DataDir: "/data/journal"}
	assert.Equal(t, filepath.Join("/data/journal", "state"), cfg.StateDir())
}
