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
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
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
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"exchange_endpoint_url": "https://auth.example/v1/token",
		"records_endpoint_url":  "https://api.example",
		"upload_concurrency":    4,
		"s3_bucket":             "photos",
		"request_timeout":       "30s",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "https://auth.example/v1/token", cfg.ExchangeEndpointURL)
		assert.Equal(t, "https://api.example", cfg.RecordsEndpointURL)
		assert.Equal(t, 4, cfg.UploadConcurrency)
		assert.Equal(t, "photos", cfg.S3Bucket)
		assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	})

	t.Run("missing fields keep existing values", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "wayfarer.db", cfg.SessionDBPath)
		assert.Equal(t, int64(1<<20), cfg.MaxFileBytes)
	})

	t.Run("no config flag means no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{ExchangeEndpointURL: "defaults:1234"}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.ExchangeEndpointURL)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}

func Test_parseFlags_Overrides(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-a", "https://auth.example/token", "-k", "3"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "https://auth.example/token", cfg.ExchangeEndpointURL)
	assert.Equal(t, 3, cfg.UploadConcurrency)
	assert.Equal(t, "wayfarer.db", cfg.SessionDBPath, "untouched flags keep defaults")
}
