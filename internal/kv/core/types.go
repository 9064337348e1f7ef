// Package core defines the key-value abstraction backing the record stores.
package core

import (
	"context"
	"errors"
)

// Driver identifies a concrete key-value backend implementation.
type Driver string

const (
	// DriverMemory keeps values in process memory (tests / ephemeral).
	DriverMemory Driver = "memory"
	// DriverSQLite stores values in an embedded sqlite file.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres stores values in a PostgreSQL table.
	DriverPostgres Driver = "postgres"
	// DriverGorm stores values through gorm on PostgreSQL.
	DriverGorm Driver = "gorm"
)

// Store is a flat string-keyed store of opaque payloads. Each mini-app keeps
// its whole record list under a single key.
type Store interface {
	// Get returns the payload stored at key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (payload []byte, ok bool, err error)
	// Put replaces the payload stored at key.
	Put(ctx context.Context, key string, payload []byte) error
	// Delete removes key. Removing an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists stored keys in ascending order.
	Keys(ctx context.Context) ([]string, error)
	Close() error
	Driver() Driver
}

// ErrEmptyKey is returned when a blank key is used.
var ErrEmptyKey = errors.New("kv: empty key")
