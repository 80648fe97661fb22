package config

import (
	"flag"
	"io"

	"github.com/saitej-a/Innobyte-services/internal/flagx"
)

var configFlags = []string{
	"-c", "-config",
	"-driver", "-d", "-s", "-session-backend",
	"-log-level", "-log-backend", "-bcrypt-cost",
	"-s3-bucket", "-s3-region", "-s3-endpoint", "-s3-access-key", "-s3-secret-key",
}

// parseFlags applies configuration flags found anywhere in args and returns
// the remaining arguments in order. -c/-config are consumed here as well so
// they never reach the command dispatcher.
func parseFlags(cfg *Config, args []string) ([]string, error) {
	matched, rest := flagx.Partition(args, configFlags)

	fs := flag.NewFlagSet("fintrack", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var jsonPath string
	fs.StringVar(&jsonPath, "c", "", "path to JSON config")
	fs.StringVar(&jsonPath, "config", "", "path to JSON config")

	fs.StringVar(&cfg.Driver, "driver", cfg.Driver, "sql driver: sqlite or postgres")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SessionFile, "s", cfg.SessionFile, "session file")
	fs.StringVar(&cfg.SessionBackend, "session-backend", cfg.SessionBackend, "session backend: file or db")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogBackend, "log-backend", cfg.LogBackend, "log backend: slog or logrus")
	fs.IntVar(&cfg.BcryptCost, "bcrypt-cost", cfg.BcryptCost, "bcrypt cost")

	fs.StringVar(&cfg.S3.Bucket, "s3-bucket", cfg.S3.Bucket, "S3 bucket for backups")
	fs.StringVar(&cfg.S3.Region, "s3-region", cfg.S3.Region, "S3 region")
	fs.StringVar(&cfg.S3.Endpoint, "s3-endpoint", cfg.S3.Endpoint, "S3 base endpoint")
	fs.StringVar(&cfg.S3.AccessKey, "s3-access-key", cfg.S3.AccessKey, "S3 access key")
	fs.StringVar(&cfg.S3.SecretKey, "s3-secret-key", cfg.S3.SecretKey, "S3 secret key")

	if err := fs.Parse(matched); err != nil {
		return nil, err
	}
	return rest, nil
}
