// Package kv re-exports the key-value abstraction and wires the concrete
// backends used by the record stores.
package kv

import (
	"warburtonsos/internal/kv/core"
)

type (
	// Driver identifies a key-value backend.
	Driver = core.Driver
	// Store is the interface implemented by every key-value backend.
	Store = core.Store
)

const (
	// DriverMemory keeps payloads in process memory.
	DriverMemory = core.DriverMemory
	// DriverSQLite stores payloads in an embedded sqlite file.
	DriverSQLite = core.DriverSQLite
	// DriverPostgres stores payloads in a Postgres JSONB table.
	DriverPostgres = core.DriverPostgres
	// DriverGorm stores payloads through the gorm model table.
	DriverGorm = core.DriverGorm
)

// ErrEmptyKey indicates a blank key was used.
var ErrEmptyKey = core.ErrEmptyKey
