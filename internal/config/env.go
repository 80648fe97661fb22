package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// parseEnv overlays values from FINTRACK_* environment variables. A .env
// file in the working directory, when present, seeds the environment first
// without overriding variables that are already set.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	cfg.Driver = getEnv("FINTRACK_DRIVER", cfg.Driver)
	cfg.DatabaseDSN = getEnv("FINTRACK_DATABASE_DSN", cfg.DatabaseDSN)
	cfg.SessionBackend = getEnv("FINTRACK_SESSION_BACKEND", cfg.SessionBackend)
	cfg.SessionFile = getEnv("FINTRACK_SESSION_FILE", cfg.SessionFile)
	cfg.LogLevel = getEnv("FINTRACK_LOG_LEVEL", cfg.LogLevel)
	cfg.LogBackend = getEnv("FINTRACK_LOG_BACKEND", cfg.LogBackend)
	cfg.BcryptCost = getEnvInt("FINTRACK_BCRYPT_COST", cfg.BcryptCost)

	cfg.S3.Bucket = getEnv("FINTRACK_S3_BUCKET", cfg.S3.Bucket)
	cfg.S3.Region = getEnv("FINTRACK_S3_REGION", cfg.S3.Region)
	cfg.S3.Endpoint = getEnv("FINTRACK_S3_ENDPOINT", cfg.S3.Endpoint)
	cfg.S3.AccessKey = getEnv("FINTRACK_S3_ACCESS_KEY", cfg.S3.AccessKey)
	cfg.S3.SecretKey = getEnv("FINTRACK_S3_SECRET_KEY", cfg.S3.SecretKey)
}

func getEnv(key, defaultVal string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultVal
}
