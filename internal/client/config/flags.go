package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/UdayKhare09/Elrond/internal/flagx"
)

// ValueFlags lists the flags owned by this package that take a value. The
// CLI uses it to find its command among the remaining arguments.
var ValueFlags = []string{"-a", "-t", "-c", "-config", "--config"}

// parseFlags reads the flags this package owns out of args:
//
//	-a string   base url of the Elrond server
//	-t int      request timeout in seconds
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("elrond-cli", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base url of the server")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-a", "-t"})); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
