package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8801/v1/token", c.ExchangeEndpointURL)
	assert.Equal(t, "http://127.0.0.1:8802", c.RecordsEndpointURL)
	assert.Equal(t, "wayfarer.db", c.SessionDBPath)
	assert.Equal(t, 2, c.UploadConcurrency)
	assert.Equal(t, int64(1<<20), c.MaxFileBytes)
	assert.Equal(t, 1920, c.MaxImageDimension)
	assert.Equal(t, "wayfarer", c.S3Bucket)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "wayfarer.db", cfg.SessionDBPath)
	assert.Equal(t, 2, cfg.UploadConcurrency)
}
