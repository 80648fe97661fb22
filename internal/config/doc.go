// Package config loads runtime configuration for the fintrack CLI.
//
// Sources & precedence (later wins)
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment, optionally seeded from a .env file (FINTRACK_* variables).
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags placed anywhere on the command line.
//
// Supported flags
//
//	-driver string            sqlite | postgres
//	-d string                 database DSN (file path for sqlite)
//	-s string                 session file path
//	-session-backend string   file | db
//	-log-level string         debug | info | warn | error
//	-log-backend string       slog | logrus
//	-bcrypt-cost int          bcrypt work factor
//	-s3-bucket, -s3-region, -s3-endpoint, -s3-access-key, -s3-secret-key
//
// # JSON schema
//
//	{
//	  "driver": "sqlite",
//	  "database_dsn": "financial_database.db",
//	  "session_file": ".session",
//	  "log_level": "info",
//	  "s3": {"bucket": "fintrack", "region": "us-east-1"}
//	}
//
// Arguments that are not configuration flags are returned untouched to the
// caller so the command dispatcher can interpret them.
package config
