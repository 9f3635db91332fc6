package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gmkitchen/internal/flagx"
	"github.com/dmitrijs2005/gmkitchen/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// keep the value from earlier sources.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	CallTimeout         timex.Duration `json:"call_timeout"`
	StoreKind           string         `json:"store_kind"`
	StorePath           string         `json:"store_path"`
	LogLevel            string         `json:"log_level"`
	LogFormat           string         `json:"log_format"`
	BreakerMaxFailures  int            `json:"breaker_max_failures"`
	BreakerResetTimeout timex.Duration `json:"breaker_reset_timeout"`
}

func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args, envConfigPath)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setString(&cfg.StoreKind, jc.StoreKind)
	setString(&cfg.StorePath, jc.StorePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)

	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.CallTimeout.Duration != 0 {
		cfg.CallTimeout = jc.CallTimeout.Duration
	}
	if jc.BreakerMaxFailures != 0 {
		cfg.BreakerMaxFailures = jc.BreakerMaxFailures
	}
	if jc.BreakerResetTimeout.Duration != 0 {
		cfg.BreakerResetTimeout = jc.BreakerResetTimeout.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
