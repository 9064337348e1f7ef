package kv

import (
	sqlitestore "warburtonsos/internal/infra/kv/sqlite"
)

// NewSQLite opens a sqlite-backed Store at path.
func NewSQLite(path string) (Store, error) { return sqlitestore.New(path) }
