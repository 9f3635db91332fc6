package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/gmkitchen/internal/flagx"
)

var ownFlags = []string{"-a", "-m", "-d", "-s", "-t", "-r", "-n", "-u", "-p", "-b", "-g", "-e", "-l"}

// parseFlags applies command-line overrides. Flags owned by other parsers
// (such as -c) are filtered out first.
//
//	-a  gRPC bind address        -m  admin (metrics) bind address
//	-d  PostgreSQL DSN           -s  JWT secret
//	-t  access token TTL         -r  refresh token TTL
//	-n  notebook backend         -l  log level
//	-u  S3 access key            -p  S3 secret key
//	-b  S3 bucket                -g  S3 region
//	-e  S3 base endpoint
func parseFlags(c *Config, args []string) error {
	fs := flag.NewFlagSet("gmkitchen-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&c.EndpointAddrGRPC, "a", c.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&c.AdminAddr, "m", c.AdminAddr, "admin HTTP address and port")
	fs.StringVar(&c.DatabaseDSN, "d", c.DatabaseDSN, "database DSN")
	fs.StringVar(&c.SecretKey, "s", c.SecretKey, "JWT secret key")
	fs.DurationVar(&c.AccessTokenValidityDuration, "t", c.AccessTokenValidityDuration, "access token validity")
	fs.DurationVar(&c.RefreshTokenValidityDuration, "r", c.RefreshTokenValidityDuration, "refresh token validity")
	fs.StringVar(&c.NotebookBackend, "n", c.NotebookBackend, "notebook backend: postgres or s3")
	fs.StringVar(&c.S3AccessKey, "u", c.S3AccessKey, "S3 access key")
	fs.StringVar(&c.S3SecretKey, "p", c.S3SecretKey, "S3 secret key")
	fs.StringVar(&c.S3Bucket, "b", c.S3Bucket, "S3 bucket")
	fs.StringVar(&c.S3Region, "g", c.S3Region, "S3 region")
	fs.StringVar(&c.S3BaseEndpoint, "e", c.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&c.LogLevel, "l", c.LogLevel, "log level: debug, info, warn, error")

	return fs.Parse(flagx.FilterArgs(args, ownFlags))
}

