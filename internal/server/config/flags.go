package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/UdayKhare09/Elrond/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      session token validity, minutes
//	-m int      MFA challenge token validity, minutes
//	-v int      email verification link validity, minutes
//	-u string   public app URL used in verification links
//	-l string   log level
//
// Only these flags are taken from args (see flagx.FilterArgs), so the
// -c/-config flag handled by parseJson does not collide with them.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-m", "-v", "-u", "-l"})

	fs := flag.NewFlagSet("elrond", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "session token validity (in minutes)")
	mfaTokenValidity := fs.Int("m", int(config.MfaTokenValidityDuration.Minutes()), "mfa challenge token validity (in minutes)")
	verificationValidity := fs.Int("v", int(config.VerificationTokenValidityDuration.Minutes()), "verification link validity (in minutes)")

	fs.StringVar(&config.AppURL, "u", config.AppURL, "public app URL")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// durations only change when the flag was given, so sub-minute values
	// from the environment or the JSON file survive
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		case "m":
			config.MfaTokenValidityDuration = time.Duration(*mfaTokenValidity) * time.Minute
		case "v":
			config.VerificationTokenValidityDuration = time.Duration(*verificationValidity) * time.Minute
		}
	})
	return nil
}
