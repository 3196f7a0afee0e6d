package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Storage is a string key-value scope. Writes are last-writer-wins.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type Repository struct {
	Durable Storage
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Durable: NewKVPostgres(db),
	}
}

func NewMemoryRepository() *Repository {
	return &Repository{
		Durable: NewKVMemory(),
	}
}
