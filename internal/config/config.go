// Package config loads portal settings from PORTAL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvStorageDriver   = "PORTAL_STORAGE_DRIVER"
	EnvSQLitePath      = "PORTAL_SQLITE_PATH"
	EnvPostgresDSN     = "PORTAL_POSTGRES_DSN"
	EnvBlobDriver      = "PORTAL_BLOB_DRIVER"
	EnvBlobFSRoot      = "PORTAL_BLOB_FS_ROOT"
	EnvBlobS3Bucket    = "PORTAL_BLOB_S3_BUCKET"
	EnvBlobS3Region    = "PORTAL_BLOB_S3_REGION"
	EnvBlobS3Endpoint  = "PORTAL_BLOB_S3_ENDPOINT"
	EnvBlobS3PathStyle = "PORTAL_BLOB_S3_PATH_STYLE"
	EnvLogLevel        = "PORTAL_LOG_LEVEL"
	EnvLogFormat       = "PORTAL_LOG_FORMAT"
	EnvFlowFile        = "PORTAL_FLOW_FILE"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Storage selects the claim store backend.
type Storage struct {
	Driver      string
	SQLitePath  string
	PostgresDSN string
}

// Blob selects the document blob backend.
type Blob struct {
	Driver      string
	FSRoot      string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
}

// Log configures the process logger.
type Log struct {
	Level  string
	Format string
}

// Config is the full portal configuration.
type Config struct {
	Storage  Storage
	Blob     Blob
	Log      Log
	FlowFile string
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		Storage: Storage{Driver: "sqlite"},
		Blob:    Blob{Driver: "fs"},
		Log:     Log{Level: "info", Format: "text"},
	}
}

// Load reads the process environment.
func Load() (Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom reads configuration through lookup, which has the signature of
// os.LookupEnv.
func LoadFrom(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	get := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	get(EnvStorageDriver, &cfg.Storage.Driver)
	get(EnvSQLitePath, &cfg.Storage.SQLitePath)
	get(EnvPostgresDSN, &cfg.Storage.PostgresDSN)
	get(EnvBlobDriver, &cfg.Blob.Driver)
	get(EnvBlobFSRoot, &cfg.Blob.FSRoot)
	get(EnvBlobS3Bucket, &cfg.Blob.S3Bucket)
	get(EnvBlobS3Region, &cfg.Blob.S3Region)
	get(EnvBlobS3Endpoint, &cfg.Blob.S3Endpoint)
	get(EnvLogLevel, &cfg.Log.Level)
	get(EnvLogFormat, &cfg.Log.Format)
	get(EnvFlowFile, &cfg.FlowFile)

	var pathStyle string
	get(EnvBlobS3PathStyle, &pathStyle)
	if pathStyle != "" {
		v, err := strconv.ParseBool(pathStyle)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalid, EnvBlobS3PathStyle, pathStyle)
		}
		cfg.Blob.S3PathStyle = v
	}

	cfg.Storage.Driver = strings.ToLower(cfg.Storage.Driver)
	cfg.Blob.Driver = strings.ToLower(cfg.Blob.Driver)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated values and driver-specific requirements.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalid, c.Storage.Driver)
	}
	switch c.Blob.Driver {
	case "memory", "fs":
	case "s3":
		if c.Blob.S3Bucket == "" {
			return fmt.Errorf("%w: %s required for s3 blob driver", ErrInvalid, EnvBlobS3Bucket)
		}
	default:
		return fmt.Errorf("%w: unknown blob driver %q", ErrInvalid, c.Blob.Driver)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}
