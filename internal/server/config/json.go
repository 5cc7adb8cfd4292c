package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/sbts/internal/flagx"
	"github.com/dmitrijs2005/sbts/internal/timex"
)

// JsonConfig mirrors Config for JSON decoding. Durations use timex.Duration
// so both "90s" and integer nanoseconds are accepted. Fields left out of the
// file keep their zero value and do not override Config.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	S3Driver                    string         `json:"s3_driver"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	S3ChunkSize                 int64          `json:"s3_chunk_size"`
	StaleUploadAge              timex.Duration `json:"stale_upload_age"`
	StaleScanInterval           timex.Duration `json:"stale_scan_interval"`
}

// parseJson reads the file named by -c / -config in args, if any, and copies
// the non-empty values onto config.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.S3Driver, c.S3Driver)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.S3ChunkSize != 0 {
		config.S3ChunkSize = c.S3ChunkSize
	}
	if c.StaleUploadAge.Duration != 0 {
		config.StaleUploadAge = c.StaleUploadAge.Duration
	}
	if c.StaleScanInterval.Duration != 0 {
		config.StaleScanInterval = c.StaleScanInterval.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
