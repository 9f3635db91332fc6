package config

import (
	"errors"

	"github.com/dmitrijs2005/gmkitchen/internal/envx"
)

const envConfigPath = "GMK_SERVER_CONFIG"

func parseEnv(c *Config) error {
	if err := envx.LoadDotEnv(); err != nil {
		return err
	}

	envx.String(&c.EndpointAddrGRPC, "GMK_GRPC_ADDR")
	envx.String(&c.AdminAddr, "GMK_ADMIN_ADDR")
	envx.String(&c.DatabaseDSN, "DATABASE_DSN")
	envx.String(&c.SecretKey, "GMK_SECRET_KEY")
	envx.String(&c.NotebookBackend, "GMK_NOTEBOOK_BACKEND")
	envx.String(&c.S3AccessKey, "S3_ACCESS_KEY")
	envx.String(&c.S3SecretKey, "S3_SECRET_KEY")
	envx.String(&c.S3Bucket, "S3_BUCKET")
	envx.String(&c.S3Region, "S3_REGION")
	envx.String(&c.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envx.String(&c.LogLevel, "GMK_LOG_LEVEL")
	envx.String(&c.LogFormat, "GMK_LOG_FORMAT")

	return errors.Join(
		envx.Duration(&c.AccessTokenValidityDuration, "GMK_ACCESS_TOKEN_TTL"),
		envx.Duration(&c.RefreshTokenValidityDuration, "GMK_REFRESH_TOKEN_TTL"),
		envx.Duration(&c.TokenCleanupInterval, "GMK_TOKEN_CLEANUP_INTERVAL"),
	)
}
