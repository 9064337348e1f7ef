// Package config loads the desktop server configuration from YAML with
// WARBURTONS_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"warburtonsos/internal/blob"
	"warburtonsos/internal/kv"
	"warburtonsos/internal/session"
)

// Config is the full server configuration.
type Config struct {
	Storage     kv.Config           `yaml:"storage"`
	Archive     blob.Config         `yaml:"archive"`
	Credentials session.Credentials `yaml:"credentials"`
	HTTP        HTTPConfig          `yaml:"http"`
	Logging     LoggingConfig       `yaml:"logging"`
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	// TraceLimit bounds the spans kept for the activity endpoint.
	TraceLimit int `yaml:"trace_limit"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Storage:     kv.DefaultConfig(),
		Archive:     blob.DefaultConfig(),
		Credentials: session.DefaultCredentials(),
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: "10s",
			TraceLimit:      200,
		},
		Logging: LoggingConfig{Level: "info", Encoding: "json"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// Environment overrides are applied last in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	set := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	var storageDriver, blobDriver, pathStyle string
	set("WARBURTONS_STORAGE_DRIVER", &storageDriver)
	if storageDriver != "" {
		c.Storage.Driver = kv.Driver(storageDriver)
	}
	set("WARBURTONS_SQLITE_PATH", &c.Storage.SQLitePath)
	set("WARBURTONS_POSTGRES_DSN", &c.Storage.PostgresDSN)

	set("WARBURTONS_BLOB_DRIVER", &blobDriver)
	if blobDriver != "" {
		c.Archive.Driver = blob.Driver(blobDriver)
	}
	set("WARBURTONS_BLOB_FS_ROOT", &c.Archive.FSRoot)
	set("WARBURTONS_BLOB_S3_BUCKET", &c.Archive.S3.Bucket)
	set("WARBURTONS_BLOB_S3_REGION", &c.Archive.S3.Region)
	set("WARBURTONS_BLOB_S3_ENDPOINT", &c.Archive.S3.Endpoint)
	set("WARBURTONS_BLOB_S3_PATH_STYLE", &pathStyle)
	if pathStyle != "" {
		c.Archive.S3.PathStyle = strings.EqualFold(pathStyle, "true")
	}

	set("WARBURTONS_ADMIN_USERNAME", &c.Credentials.Username)
	set("WARBURTONS_ADMIN_PASSWORD", &c.Credentials.Password)
	set("WARBURTONS_HTTP_ADDR", &c.HTTP.Addr)
	set("WARBURTONS_LOG_LEVEL", &c.Logging.Level)
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch kv.Driver(strings.ToLower(string(c.Storage.Driver))) {
	case "", kv.DriverMemory, kv.DriverSQLite, kv.DriverPostgres, kv.DriverGorm:
	default:
		return fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver)
	}
	switch blob.Driver(strings.ToLower(string(c.Archive.Driver))) {
	case "", blob.DriverFilesystem, blob.DriverMemory:
	case blob.DriverS3:
		if c.Archive.S3.Bucket == "" {
			return fmt.Errorf("archive.s3.bucket required for s3 driver")
		}
	default:
		return fmt.Errorf("archive.driver: unknown driver %q", c.Archive.Driver)
	}
	if c.Credentials.Username == "" || c.Credentials.Password == "" {
		return fmt.Errorf("credentials: username and password required")
	}
	if _, err := time.ParseDuration(c.HTTP.ShutdownTimeout); c.HTTP.ShutdownTimeout != "" && err != nil {
		return fmt.Errorf("http.shutdown_timeout: %w", err)
	}
	return nil
}

// GetShutdownTimeout returns the graceful shutdown window.
func (c *Config) GetShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.HTTP.ShutdownTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}
