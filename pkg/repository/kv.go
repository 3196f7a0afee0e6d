package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type KVPostgres struct {
	db *sqlx.DB
}

func NewKVPostgres(db *sqlx.DB) *KVPostgres {
	return &KVPostgres{db: db}
}

func (r *KVPostgres) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	query := `SELECT value FROM kv_store WHERE key = $1`
	err := r.db.GetContext(ctx, &value, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "get %s", key)
	}
	return value, true, nil
}

func (r *KVPostgres) Set(ctx context.Context, key, value string) error {
	query := `
        INSERT INTO kv_store (key, value, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
    `
	_, err := r.db.ExecContext(ctx, query, key, value)
	return errors.Wrapf(err, "set %s", key)
}

func (r *KVPostgres) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_store WHERE key = $1`
	_, err := r.db.ExecContext(ctx, query, key)
	return errors.Wrapf(err, "delete %s", key)
}
