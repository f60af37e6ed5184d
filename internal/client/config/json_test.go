package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	full := writeTempJSON(t, dir, "full.json", map[string]any{
		"api_base_url":    "https://desk.example",
		"poll_interval":   "10s",
		"request_timeout": "3s",
		"data_file":       "/srv/desk.db",
		"log_level":       "debug",
	})
	partial := writeTempJSON(t, dir, "partial.json", map[string]any{
		"poll_interval": "1m",
	})

	t.Run("loads every field", func(t *testing.T) {
		os.Args = []string{"cli", "-config", full}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "https://desk.example", cfg.APIBaseURL)
		assert.Equal(t, 10*time.Second, cfg.PollInterval)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "/srv/desk.db", cfg.DataFile)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		os.Args = []string{"cli", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
		assert.Equal(t, time.Minute, cfg.PollInterval)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		os.Args = []string{"cli"}

		cfg := &Config{APIBaseURL: "http://defaults:1234", PollInterval: 42 * time.Second}
		parseJson(cfg)

		assert.Equal(t, "http://defaults:1234", cfg.APIBaseURL)
		assert.Equal(t, 42*time.Second, cfg.PollInterval)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"cli", "-config", bad}
		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"cli", "-config", filepath.Join(dir, "absent.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
