package store

import (
	"context"
	"fmt"
	"strings"
)

// Open picks a backend from the address: postgres:// and postgresql://
// use pgx, sqlite:// and file: use SQLite.
func Open(ctx context.Context, addr string) (*Store, error) {
	switch {
	case strings.HasPrefix(addr, "postgres://"), strings.HasPrefix(addr, "postgresql://"):
		return OpenPostgres(ctx, addr)
	case strings.HasPrefix(addr, "sqlite://"):
		return OpenSQLite(ctx, strings.TrimPrefix(addr, "sqlite://"))
	case strings.HasPrefix(addr, "file:"):
		return OpenSQLite(ctx, addr)
	default:
		return nil, fmt.Errorf("unsupported storage address %q: want postgres://, sqlite:// or file:", RedactDSN(addr))
	}
}
