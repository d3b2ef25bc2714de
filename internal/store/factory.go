package store

import (
	"context"
	"fmt"

	mydb "github.com/focusflow/focusflow/internal/db"
)

// NewStore creates a new store based on the given store type.
// Supported types: "memory", "postgres"
//
// The postgres variant applies the schema on creation, so a fresh database
// is usable without a separate migration step.
func NewStore(ctx context.Context, storeType, dbDSN string) (Store, error) {
	switch storeType {
	case "memory":
		return NewMemoryStore(), nil
	case "postgres":
		pool, err := mydb.NewPool(ctx, dbDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres pool: %w", err)
		}
		pg := NewPostgresStore(pool)
		if err := pg.Migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeType)
	}
}
