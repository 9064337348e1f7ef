package kv

import (
	"context"
	"fmt"
	"strings"
)

// Config selects and parameterises a backend.
type Config struct {
	Driver      Driver `yaml:"driver"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// DefaultConfig returns the sqlite configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{Driver: DriverSQLite, SQLitePath: "warburtons.db"}
}

// Open constructs the Store named by cfg.Driver (sqlite when empty).
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver := Driver(strings.ToLower(strings.TrimSpace(string(cfg.Driver))))
	if driver == "" {
		driver = DriverSQLite
	}
	switch driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		return NewSQLite(cfg.SQLitePath)
	case DriverPostgres:
		return NewPostgres(ctx, cfg.PostgresDSN)
	case DriverGorm:
		return NewGorm(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown kv driver %s", cfg.Driver)
	}
}
