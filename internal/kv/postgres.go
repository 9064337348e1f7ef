package kv

import (
	"context"

	"warburtonsos/internal/infra/kv/gormkv"
	pgstore "warburtonsos/internal/infra/kv/postgres"
)

// NewPostgres opens a Postgres-backed Store using dsn.
func NewPostgres(ctx context.Context, dsn string) (Store, error) {
	return pgstore.New(ctx, dsn)
}

// NewGorm opens the gorm-backed Store on Postgres using dsn.
func NewGorm(ctx context.Context, dsn string) (Store, error) {
	return gormkv.New(ctx, dsn)
}
