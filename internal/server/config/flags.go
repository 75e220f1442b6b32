package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/krishirakshak/krishirakshak/internal/flagx"
)

var knownFlags = []string{
	"-a", "-d", "-driver", "-s", "-issuer", "-t", "-i", "-env",
	"-b", "-g", "-e", "-u", "-p", "-l",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string       HTTP bind address (e.g. ":8000")
//	-d string       database DSN (SQLite path or PostgreSQL DSN)
//	-driver string  database driver: sqlite or pgx
//	-s string       JWT HMAC secret
//	-issuer string  token issuer
//	-t int          access token validity, minutes
//	-i int          PBKDF2 iterations
//	-env string     development or production
//	-b string       report archive bucket
//	-g string       S3 region
//	-e string       S3 base endpoint
//	-u string       S3 access key
//	-p string       S3 secret key
//	-l string       log level
//
// Only the flags listed above are considered; anything else in args is
// left for other parsers.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.DatabaseDriver, "driver", config.DatabaseDriver, "database driver (sqlite|pgx)")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "jwt secret key")
	fs.StringVar(&config.Issuer, "issuer", config.Issuer, "jwt issuer")
	ttl := fs.Int("t", int(config.AccessTokenValidityDuration/time.Minute), "access token validity (in minutes)")
	fs.IntVar(&config.PasswordIterations, "i", config.PasswordIterations, "PBKDF2 iterations for new credentials")
	fs.StringVar(&config.Environment, "env", config.Environment, "environment (development|production)")
	fs.StringVar(&config.ReportBucket, "b", config.ReportBucket, "report archive bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 access key")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 secret key")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.AccessTokenValidityDuration = time.Duration(*ttl) * time.Minute
		}
	})

	return nil
}
