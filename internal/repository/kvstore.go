package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/alerting"
)

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv_store (
	store_key  TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// KVStore persists dashboard state documents in a SQL table. The same
// statements run on PostgreSQL and SQLite.
type KVStore struct {
	db *sqlx.DB
}

// NewKVStore creates the backing table if needed.
func NewKVStore(ctx context.Context, db *sqlx.DB) (*KVStore, error) {
	if _, err := db.ExecContext(ctx, kvSchema); err != nil {
		return nil, fmt.Errorf("create kv_store: %w", err)
	}
	return &KVStore{db: db}, nil
}

func (s *KVStore) Load(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.GetContext(ctx, &value, s.db.Rebind(`SELECT value FROM kv_store WHERE store_key = ?`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, alerting.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *KVStore) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO kv_store (store_key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (store_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`),
		key, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
