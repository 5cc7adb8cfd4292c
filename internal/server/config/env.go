package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// envPrefix namespaces every environment variable read by parseEnv.
const envPrefix = "SBTS_"

// parseEnv overlays SBTS_* environment variables onto config. Files named in
// dotenv (".env" when none are given) are loaded first; they never override
// variables already present in the process environment.
func parseEnv(config *Config, dotenv ...string) error {
	if err := godotenv.Load(dotenv...); err != nil && !os.IsNotExist(err) {
		return err
	}

	strs := map[string]*string{
		"HTTP_ADDR":        &config.EndpointAddrHTTP,
		"GRPC_ADDR":        &config.EndpointAddrGRPC,
		"DATABASE_DSN":     &config.DatabaseDSN,
		"SECRET_KEY":       &config.SecretKey,
		"S3_DRIVER":        &config.S3Driver,
		"S3_ROOT_USER":     &config.S3RootUser,
		"S3_ROOT_PASSWORD": &config.S3RootPassword,
		"S3_BUCKET":        &config.S3Bucket,
		"S3_REGION":        &config.S3Region,
		"S3_BASE_ENDPOINT": &config.S3BaseEndpoint,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"ACCESS_TOKEN_VALIDITY": &config.AccessTokenValidityDuration,
		"STALE_UPLOAD_AGE":      &config.StaleUploadAge,
		"STALE_SCAN_INTERVAL":   &config.StaleScanInterval,
	}
	for name, dst := range durations {
		v, ok := os.LookupEnv(envPrefix + name)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = d
	}

	if v, ok := os.LookupEnv(envPrefix + "S3_CHUNK_SIZE"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sS3_CHUNK_SIZE: %w", envPrefix, err)
		}
		config.S3ChunkSize = n
	}

	return nil
}
