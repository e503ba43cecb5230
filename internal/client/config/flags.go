package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/campushire/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Only the flags it knows are taken from args, via flagx.FilterArgs, so
// other components may define their own.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-i", "-db", "-j", "-l"})

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "local database file")
	fs.IntVar(&cfg.JoinLimit, "j", cfg.JoinLimit, "concurrent lookups for saved jobs")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
	return nil
}
