package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pesio-ai/be-contracts/internal/database"
)

var _ Store = (*PostgresStore)(nil)

// PostgresStore keeps values as jsonb rows in kv_store.
type PostgresStore struct {
	db     *database.DB
	ownsDB bool
}

// NewPostgresStore ensures the schema exists.
func NewPostgresStore(ctx context.Context, db *database.DB) (*PostgresStore, error) {
	s := &PostgresStore{db: db}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	return s.db.InTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			CREATE TABLE IF NOT EXISTS kv_store (
				key        TEXT PRIMARY KEY,
				payload    JSONB NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)
		`); err != nil {
			return fmt.Errorf("failed to create kv_store table: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`CREATE INDEX IF NOT EXISTS idx_kv_store_updated_at ON kv_store (updated_at)`,
		); err != nil {
			return fmt.Errorf("failed to create kv_store index: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var payload string
	err := s.db.QueryRow(ctx, `SELECT payload::text FROM kv_store WHERE key = $1`, key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return []byte(payload), nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_store (key, payload, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE
		SET payload = EXCLUDED.payload,
		    updated_at = NOW()
	`
	if _, err := s.db.Exec(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close releases the pool only when the store opened it itself.
func (s *PostgresStore) Close() error {
	if s.ownsDB {
		s.db.Close()
	}
	return nil
}
