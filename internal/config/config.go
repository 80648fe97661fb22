package config

import (
	"fmt"
	"strings"

	"github.com/saitej-a/Innobyte-services/internal/dbx"
)

// Config holds runtime settings for the fintrack CLI.
type Config struct {
	// Driver is the SQL dialect: "sqlite" (default) or "postgres".
	Driver string
	// DatabaseDSN is a file path for sqlite or a connection URL for postgres.
	DatabaseDSN string

	// SessionBackend selects where the active user id lives: "file" or "db".
	SessionBackend string
	// SessionFile is used when SessionBackend is "file".
	SessionFile string

	LogLevel   string
	LogBackend string

	// BcryptCost is the password hashing work factor.
	BcryptCost int

	S3 S3Config
}

// S3Config configures the optional remote copy of CSV backups.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Enabled reports whether enough settings exist to talk to a bucket.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Driver = string(dbx.DialectSQLite)
	c.DatabaseDSN = "financial_database.db"
	c.SessionBackend = "file"
	c.SessionFile = ".session"
	c.LogLevel = "warn"
	c.LogBackend = "slog"
	c.BcryptCost = 10
	c.S3 = S3Config{Region: "us-east-1"}
}

// Dialect returns the dbx dialect matching Driver.
func (c *Config) Dialect() dbx.Dialect {
	return dbx.Dialect(strings.ToLower(c.Driver))
}

// Validate rejects combinations the application cannot run with.
func (c *Config) Validate() error {
	var problems []string

	switch c.Dialect() {
	case dbx.DialectSQLite, dbx.DialectPostgres:
	default:
		problems = append(problems, fmt.Sprintf("unknown driver %q", c.Driver))
	}
	if c.DatabaseDSN == "" {
		problems = append(problems, "database DSN is empty")
	}
	switch c.SessionBackend {
	case "file":
		if c.SessionFile == "" {
			problems = append(problems, "session file is empty")
		}
	case "db":
	default:
		problems = append(problems, fmt.Sprintf("unknown session backend %q", c.SessionBackend))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		problems = append(problems, fmt.Sprintf("bcrypt cost %d out of range 4..31", c.BcryptCost))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// LoadConfig constructs a Config from defaults, the environment, an optional
// JSON file and flags found in args. It returns the arguments that were not
// consumed as configuration flags.
func LoadConfig(args []string) (*Config, []string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	if err := parseJson(cfg, args); err != nil {
		return nil, nil, err
	}

	rest, err := parseFlags(cfg, args)
	if err != nil {
		return nil, nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, rest, nil
}
