package config

import (
	"flag"
	"io"
	"time"

	"github.com/beefboard/boardclient/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   API base URL
//	-t int      request timeout in seconds
//	-d string   SQLite database path
//	-r string   Redis address (switches storage to redis)
//
// Only these flags are picked out of args (see flagx.FilterArgs) so other
// components can share the command line.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-d", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "SQLite database path")
	redisAddr := fs.String("r", "", "Redis address")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		case "r":
			cfg.RedisAddr = *redisAddr
			cfg.StorageBackend = StorageRedis
		}
	})
	return nil
}
