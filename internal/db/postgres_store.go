package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soaringjerry/Persona/internal/models"
)

// PostgresStore keeps test results in a shared Postgres table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn, pings, and runs migrations.
func OpenPostgres(ctx context.Context, dsn, migrationsDir string) (*PostgresStore, error) {
	const op = "db.OpenPostgres"

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: parse config: %w", op, err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: create pool: %w", op, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}
	s := &PostgresStore{pool: pool}
	if err := RunMigrations(ctx, s.exec, migrationsDir); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func (s *PostgresStore) exec(ctx context.Context, script string) error {
	_, err := s.pool.Exec(ctx, script)
	return err
}

func (s *PostgresStore) Put(ctx context.Context, r models.TestResult) error {
	rw, err := toRow(r)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO test_results (ts, schema_version, answers, trait_letters)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ts) DO UPDATE SET
			schema_version = EXCLUDED.schema_version,
			answers = EXCLUDED.answers,
			trait_letters = EXCLUDED.trait_letters
	`, rw.ts, rw.schemaVersion, rw.answers, rw.traitLetters)
	if err != nil {
		return fmt.Errorf("postgres: upsert %d: %w", r.Timestamp, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key int64) (models.TestResult, bool, error) {
	var rw row
	err := s.pool.QueryRow(ctx,
		"SELECT ts, schema_version, answers, trait_letters FROM test_results WHERE ts = $1", key).
		Scan(&rw.ts, &rw.schemaVersion, &rw.answers, &rw.traitLetters)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.TestResult{}, false, nil
	}
	if err != nil {
		return models.TestResult{}, false, fmt.Errorf("postgres: get %d: %w", key, err)
	}
	r, err := rw.result()
	if err != nil {
		return models.TestResult{}, false, err
	}
	return r, true, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.TestResult, error) {
	rows, err := s.pool.Query(ctx, "SELECT ts, schema_version, answers, trait_letters FROM test_results ORDER BY ts")
	if err != nil {
		return nil, fmt.Errorf("postgres: list: %w", err)
	}
	defer rows.Close()

	var out []models.TestResult
	for rows.Next() {
		var rw row
		if err := rows.Scan(&rw.ts, &rw.schemaVersion, &rw.answers, &rw.traitLetters); err != nil {
			return nil, fmt.Errorf("postgres: scan: %w", err)
		}
		r, err := rw.result()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Clear(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, "DELETE FROM test_results")
	if err != nil {
		return 0, fmt.Errorf("postgres: clear: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
