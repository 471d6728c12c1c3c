package config

import (
	"encoding/json"
	"os"

	"github.com/wayfarer-app/wayfarer/internal/flagx"
	"github.com/wayfarer-app/wayfarer/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. After
// parsing, non-zero values are copied into the runtime Config.
type JsonConfig struct {
	ExchangeEndpointURL string         `json:"exchange_endpoint_url"`
	ExchangeAPIKey      string         `json:"exchange_api_key"`
	RecordsEndpointURL  string         `json:"records_endpoint_url"`
	SessionDBPath       string         `json:"session_db_path"`
	UploadConcurrency   int            `json:"upload_concurrency"`
	MaxFileBytes        int64          `json:"max_file_bytes"`
	MaxImageDimension   int            `json:"max_image_dimension"`
	S3Endpoint          string         `json:"s3_endpoint"`
	S3Region            string         `json:"s3_region"`
	S3Bucket            string         `json:"s3_bucket"`
	S3AccessKey         string         `json:"s3_access_key"`
	S3SecretKey         string         `json:"s3_secret_key"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c/-config flags via
// flagx.JsonConfigFlags(); when absent, no JSON is loaded. Read or
// unmarshal errors panic (caller should recover if desired). Zero values
// in the file leave the existing Config values untouched.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ExchangeEndpointURL != "" {
		cfg.ExchangeEndpointURL = jc.ExchangeEndpointURL
	}
	if jc.ExchangeAPIKey != "" {
		cfg.ExchangeAPIKey = jc.ExchangeAPIKey
	}
	if jc.RecordsEndpointURL != "" {
		cfg.RecordsEndpointURL = jc.RecordsEndpointURL
	}
	if jc.SessionDBPath != "" {
		cfg.SessionDBPath = jc.SessionDBPath
	}
	if jc.UploadConcurrency > 0 {
		cfg.UploadConcurrency = jc.UploadConcurrency
	}
	if jc.MaxFileBytes > 0 {
		cfg.MaxFileBytes = jc.MaxFileBytes
	}
	if jc.MaxImageDimension > 0 {
		cfg.MaxImageDimension = jc.MaxImageDimension
	}
	if jc.S3Endpoint != "" {
		cfg.S3Endpoint = jc.S3Endpoint
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3AccessKey != "" {
		cfg.S3AccessKey = jc.S3AccessKey
	}
	if jc.S3SecretKey != "" {
		cfg.S3SecretKey = jc.S3SecretKey
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
