package kv

import (
	memorystore "warburtonsos/internal/infra/kv/memory"
)

// NewMemory returns an in-memory Store suitable for tests.
func NewMemory() Store { return memorystore.New() }
