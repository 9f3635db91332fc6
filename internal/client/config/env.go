package config

import (
	"errors"

	"github.com/dmitrijs2005/gmkitchen/internal/envx"
)

const envConfigPath = "GMK_CLIENT_CONFIG"

func parseEnv(c *Config) error {
	if err := envx.LoadDotEnv(); err != nil {
		return err
	}

	envx.String(&c.ServerEndpointAddr, "GMK_SERVER_ADDR")
	envx.String(&c.StoreKind, "GMK_STORE")
	envx.String(&c.StorePath, "GMK_STORE_PATH")
	envx.String(&c.LogLevel, "GMK_LOG_LEVEL")
	envx.String(&c.LogFormat, "GMK_LOG_FORMAT")

	return errors.Join(
		envx.Duration(&c.OnlineCheckInterval, "GMK_ONLINE_CHECK_INTERVAL"),
		envx.Duration(&c.CallTimeout, "GMK_CALL_TIMEOUT"),
		envx.Int(&c.BreakerMaxFailures, "GMK_BREAKER_FAILURES"),
		envx.Duration(&c.BreakerResetTimeout, "GMK_BREAKER_RESET"),
	)
}
