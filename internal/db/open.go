package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/soaringjerry/Persona/internal/store"
)

// Supported storage drivers.
const (
	DriverBolt     = "bolt"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Options selects and configures a result backend.
type Options struct {
	Driver        string
	Path          string
	DSN           string
	MigrationsDir string
}

// Open returns the backend named by opts.Driver. An empty driver means bolt.
func Open(ctx context.Context, opts Options) (store.Backend, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverBolt:
		return NewBoltStore(opts.Path)
	case DriverSQLite, "sqlite3":
		return OpenSQLite(ctx, opts.Path, opts.MigrationsDir)
	case DriverPostgres, "postgresql", "pg":
		if opts.DSN == "" {
			return nil, fmt.Errorf("postgres driver requires a dsn")
		}
		return OpenPostgres(ctx, opts.DSN, opts.MigrationsDir)
	case DriverMemory:
		return store.NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
