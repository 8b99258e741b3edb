package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/soaringjerry/Persona/internal/models"
)

type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens the file at path, applies pragmas and runs migrations.
func OpenSQLite(ctx context.Context, path, migrationsDir string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create dir: %w", err)
		}
	}
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	// one writer; WAL lets readers proceed
	conn.SetMaxOpenConns(1)
	s, err := NewSQLiteStore(conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := RunMigrations(ctx, s.exec, migrationsDir); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) exec(ctx context.Context, script string) error {
	_, err := s.db.ExecContext(ctx, script)
	return err
}

const sqliteUpsert = `INSERT INTO test_results (ts, schema_version, answers, trait_letters)
VALUES (?, ?, ?, ?)
ON CONFLICT(ts) DO UPDATE SET
    schema_version = excluded.schema_version,
    answers = excluded.answers,
    trait_letters = excluded.trait_letters`

func (s *SQLiteStore) Put(ctx context.Context, r models.TestResult) error {
	rw, err := toRow(r)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, sqliteUpsert, rw.ts, rw.schemaVersion, rw.answers, rw.traitLetters); err != nil {
		return fmt.Errorf("sqlite: upsert %d: %w", r.Timestamp, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key int64) (models.TestResult, bool, error) {
	var rw row
	err := s.db.QueryRowContext(ctx,
		`SELECT ts, schema_version, answers, trait_letters FROM test_results WHERE ts = ?`, key).
		Scan(&rw.ts, &rw.schemaVersion, &rw.answers, &rw.traitLetters)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TestResult{}, false, nil
	}
	if err != nil {
		return models.TestResult{}, false, fmt.Errorf("sqlite: get %d: %w", key, err)
	}
	r, err := rw.result()
	if err != nil {
		return models.TestResult{}, false, err
	}
	return r, true, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]models.TestResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ts, schema_version, answers, trait_letters FROM test_results ORDER BY ts`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list: %w", err)
	}
	defer rows.Close()

	var out []models.TestResult
	for rows.Next() {
		var rw row
		if err := rows.Scan(&rw.ts, &rw.schemaVersion, &rw.answers, &rw.traitLetters); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		r, err := rw.result()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM test_results`)
	if err != nil {
		return 0, fmt.Errorf("sqlite: clear: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: clear: %w", err)
	}
	return int(n), nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
