package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gmkitchen/internal/client/storage"
)

// Config holds runtime settings for the kitchen CLI.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	CallTimeout         time.Duration
	StoreKind           string
	StorePath           string
	LogLevel            string
	LogFormat           string
	BreakerMaxFailures  int
	BreakerResetTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.CallTimeout = 10 * time.Second
	c.StoreKind = string(storage.KindSQLite)
	c.StorePath = "gmkitchen.db"
	c.LogLevel = "warn"
	c.LogFormat = "text"
	c.BreakerMaxFailures = 3
	c.BreakerResetTimeout = 30 * time.Second
}

func (c *Config) Validate() error {
	switch storage.Kind(c.StoreKind) {
	case storage.KindSQLite, storage.KindBolt, storage.KindMemory:
	default:
		return fmt.Errorf("unknown store kind %q", c.StoreKind)
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive")
	}
	if c.BreakerMaxFailures < 1 {
		return fmt.Errorf("breaker max failures must be at least 1")
	}
	return nil
}

// LoadConfig constructs a Config from args (os.Args[1:] in production),
// applying defaults, environment, JSON and flags in that order.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
