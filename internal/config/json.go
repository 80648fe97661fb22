package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/saitej-a/Innobyte-services/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Empty fields
// leave the current value alone.
type JsonConfig struct {
	Driver         string `json:"driver"`
	DatabaseDSN    string `json:"database_dsn"`
	SessionBackend string `json:"session_backend"`
	SessionFile    string `json:"session_file"`
	LogLevel       string `json:"log_level"`
	LogBackend     string `json:"log_backend"`
	BcryptCost     int    `json:"bcrypt_cost"`
	S3             struct {
		Bucket    string `json:"bucket"`
		Region    string `json:"region"`
		Endpoint  string `json:"endpoint"`
		AccessKey string `json:"access_key"`
		SecretKey string `json:"secret_key"`
	} `json:"s3"`
}

// parseJson overlays cfg with the JSON file named by -c / -config in args.
// No flag means nothing to do.
func parseJson(cfg *Config, args []string) error {
	path := flagx.JsonConfigFlags(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	set(&cfg.Driver, jc.Driver)
	set(&cfg.DatabaseDSN, jc.DatabaseDSN)
	set(&cfg.SessionBackend, jc.SessionBackend)
	set(&cfg.SessionFile, jc.SessionFile)
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.LogBackend, jc.LogBackend)
	if jc.BcryptCost != 0 {
		cfg.BcryptCost = jc.BcryptCost
	}
	set(&cfg.S3.Bucket, jc.S3.Bucket)
	set(&cfg.S3.Region, jc.S3.Region)
	set(&cfg.S3.Endpoint, jc.S3.Endpoint)
	set(&cfg.S3.AccessKey, jc.S3.AccessKey)
	set(&cfg.S3.SecretKey, jc.S3.SecretKey)
	return nil
}

func set(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
