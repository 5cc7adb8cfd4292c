package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/sbts/internal/flagx"
)

var knownFlags = []string{
	"-a", "-grpc", "-d", "-s", "-t", "-u", "-p", "-b", "-g", "-e", "-k",
	"-driver", "-stale-age", "-stale-interval",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string               HTTP bind address (e.g., ":8080")
//	-grpc string            gRPC health bind address (e.g., ":50051")
//	-d string               PostgreSQL DSN
//	-s string               JWT HMAC secret key
//	-t int                  access token validity, minutes
//	-u string               S3 root user
//	-p string               S3 root password
//	-b string               S3 bucket name
//	-g string               S3 region
//	-e string               S3 base endpoint (e.g., "http://127.0.0.1:9000")
//	-k int                  multipart chunk size, bytes
//	-driver string          object store driver: s3 or minio
//	-stale-age duration     report UPLOADING rows older than this
//	-stale-interval duration  report period, 0 disables
//
// Only the flags above are taken from args (see flagx.FilterArgs), so flags
// meant for other components do not cause parse errors.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("sbts", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to serve HTTP on")
	fs.StringVar(&config.EndpointAddrGRPC, "grpc", config.EndpointAddrGRPC, "address and port to serve gRPC health on")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.Int64Var(&config.S3ChunkSize, "k", config.S3ChunkSize, "multipart chunk size (in bytes)")
	fs.StringVar(&config.S3Driver, "driver", config.S3Driver, "object store driver (s3|minio)")
	fs.DurationVar(&config.StaleUploadAge, "stale-age", config.StaleUploadAge, "age after which an UPLOADING row is stale")
	fs.DurationVar(&config.StaleScanInterval, "stale-interval", config.StaleScanInterval, "stale upload report interval (0 disables)")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
		}
	})
	return nil
}
