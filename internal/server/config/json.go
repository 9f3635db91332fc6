package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gmkitchen/internal/flagx"
	"github.com/dmitrijs2005/gmkitchen/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// "15m" style strings or integer nanoseconds. Absent keys keep the value
// from earlier sources.
type JsonConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	AdminAddr                    string         `json:"admin_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	TokenCleanupInterval         timex.Duration `json:"token_cleanup_interval"`
	NotebookBackend              string         `json:"notebook_backend"`
	S3AccessKey                  string         `json:"s3_access_key"`
	S3SecretKey                  string         `json:"s3_secret_key"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	LogLevel                     string         `json:"log_level"`
	LogFormat                    string         `json:"log_format"`
}

func parseJson(c *Config, args []string) error {
	path := flagx.ConfigPath(args, envConfigPath)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	j := &JsonConfig{}
	if err := json.Unmarshal(data, j); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&c.EndpointAddrGRPC, j.EndpointAddrGRPC)
	setString(&c.AdminAddr, j.AdminAddr)
	setString(&c.DatabaseDSN, j.DatabaseDSN)
	setString(&c.SecretKey, j.SecretKey)
	setString(&c.NotebookBackend, j.NotebookBackend)
	setString(&c.S3AccessKey, j.S3AccessKey)
	setString(&c.S3SecretKey, j.S3SecretKey)
	setString(&c.S3Bucket, j.S3Bucket)
	setString(&c.S3Region, j.S3Region)
	setString(&c.S3BaseEndpoint, j.S3BaseEndpoint)
	setString(&c.LogLevel, j.LogLevel)
	setString(&c.LogFormat, j.LogFormat)

	if j.AccessTokenValidityDuration.Duration != 0 {
		c.AccessTokenValidityDuration = j.AccessTokenValidityDuration.Duration
	}
	if j.RefreshTokenValidityDuration.Duration != 0 {
		c.RefreshTokenValidityDuration = j.RefreshTokenValidityDuration.Duration
	}
	if j.TokenCleanupInterval.Duration != 0 {
		c.TokenCleanupInterval = j.TokenCleanupInterval.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
