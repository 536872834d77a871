package store

import (
	"context"
	"time"
)

// Open picks the cache implementation: Postgres when dsn is set, an
// in-memory cache when memoryEntries > 0, otherwise Nop.
func Open(ctx context.Context, dsn string, memoryEntries int, maxAge time.Duration) (Cache, error) {
	switch {
	case dsn != "":
		return OpenPostgres(ctx, dsn, maxAge)
	case memoryEntries > 0:
		return NewMemory(memoryEntries, maxAge), nil
	default:
		return Nop{}, nil
	}
}
