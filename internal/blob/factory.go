package blob

import (
	"context"
	"fmt"
	"strings"
)

// Config selects the archive backend.
type Config struct {
	Driver Driver   `yaml:"driver"`
	FSRoot string   `yaml:"fs_root"`
	S3     S3Config `yaml:"s3"`
}

// DefaultConfig archives reports under ./reports on the local disk.
func DefaultConfig() Config {
	return Config{Driver: DriverFilesystem, FSRoot: "./reports"}
}

// Open constructs the Store named by cfg.Driver (fs when empty).
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver := Driver(strings.ToLower(strings.TrimSpace(string(cfg.Driver))))
	if driver == "" {
		driver = DriverFilesystem
	}
	switch driver {
	case DriverFilesystem:
		return NewFilesystem(cfg.FSRoot)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", cfg.Driver)
	}
}
