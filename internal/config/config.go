// Package config loads runtime settings for the Wayfarer client.
// Values come from defaults, then an optional JSON file, then
// command-line flags; later sources take precedence.
package config

import "time"

// Config holds runtime settings for the Wayfarer client.
type Config struct {
	// ExchangeEndpointURL is the token exchange endpoint.
	ExchangeEndpointURL string
	// ExchangeAPIKey authenticates the client application (not the user)
	// to the exchange endpoint. Optional.
	ExchangeAPIKey string
	// RecordsEndpointURL is the base URL of the traveller record API.
	RecordsEndpointURL string
	// SessionDBPath is the local sqlite database holding the persisted
	// session record.
	SessionDBPath string

	// UploadConcurrency bounds how many files are compressed/uploaded at
	// once during registration.
	UploadConcurrency int
	// MaxFileBytes bounds the size of each compressed blob.
	MaxFileBytes int64
	// MaxImageDimension bounds the width/height of uploaded images.
	MaxImageDimension int

	// S3-compatible object storage settings (MinIO in development).
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string

	// RequestTimeout bounds each HTTP request to the exchange and
	// record endpoints.
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ExchangeEndpointURL = "http://127.0.0.1:8801/v1/token"
	c.RecordsEndpointURL = "http://127.0.0.1:8802"
	c.SessionDBPath = "wayfarer.db"
	c.UploadConcurrency = 2
	c.MaxFileBytes = 1 << 20
	c.MaxImageDimension = 1920
	c.S3Endpoint = "http://127.0.0.1:9000"
	c.S3Region = "us-east-1"
	c.S3Bucket = "wayfarer"
	c.RequestTimeout = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
