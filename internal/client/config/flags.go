package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/gmkitchen/internal/flagx"
)

var ownFlags = []string{"-a", "-i", "-k", "-f", "-l", "-b", "-w", "-t"}

// parseFlags populates Config fields from command-line flags. Args are
// filtered with flagx.FilterArgs first so -c/-config never reach this set.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("gmkitchen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.StoreKind, "k", cfg.StoreKind, "local store: sqlite, bolt or memory")
	fs.StringVar(&cfg.StorePath, "f", cfg.StorePath, "local store file")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.IntVar(&cfg.BreakerMaxFailures, "b", cfg.BreakerMaxFailures, "outages before sync pauses")
	fs.DurationVar(&cfg.BreakerResetTimeout, "w", cfg.BreakerResetTimeout, "how long sync stays paused")
	fs.DurationVar(&cfg.CallTimeout, "t", cfg.CallTimeout, "per-call timeout")

	if err := fs.Parse(flagx.FilterArgs(args, ownFlags)); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
	return nil
}
