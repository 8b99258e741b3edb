package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// ExecFunc runs one migration script. Both SQL backends provide one.
type ExecFunc func(ctx context.Context, script string) error

type migration struct {
	name   string
	script string
}

// RunMigrations applies every *.sql script in name order. Scripts come from
// migrationsDir when it exists and from the embedded copy otherwise. They are
// written to be idempotent and run on every open.
func RunMigrations(ctx context.Context, exec ExecFunc, migrationsDir string) error {
	ms, err := loadMigrations(migrationsDir)
	if err != nil {
		return err
	}
	for _, m := range ms {
		if strings.TrimSpace(m.script) == "" {
			continue
		}
		if err := exec(ctx, m.script); err != nil {
			return fmt.Errorf("exec migration %s: %w", m.name, err)
		}
	}
	return nil
}

// MigrationNames lists the scripts RunMigrations would apply, in order.
func MigrationNames(migrationsDir string) ([]string, error) {
	ms, err := loadMigrations(migrationsDir)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.name
	}
	return names, nil
}

func loadMigrations(dir string) ([]migration, error) {
	if dir != "" {
		if _, err := os.Stat(dir); err == nil {
			return readMigrations(os.DirFS(dir), ".")
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read migrations: %w", err)
		}
	}
	return readMigrations(embeddedMigrations, "migrations")
}

func readMigrations(fsys fs.FS, dir string) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	var ms []migration
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".sql" {
			continue
		}
		b, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", e.Name(), err)
		}
		ms = append(ms, migration{name: e.Name(), script: string(b)})
	}
	sort.Slice(ms, func(i, j int) bool { return ms[i].name < ms[j].name })
	return ms, nil
}
