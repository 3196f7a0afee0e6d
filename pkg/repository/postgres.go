package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	DBName   string
	SSLMode  string
}

const schema = `
CREATE TABLE IF NOT EXISTS kv_store (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func NewPostgresDB(cfg Config) (*sqlx.DB, error) {
	logrus.WithFields(logrus.Fields{
		"host":   cfg.Host,
		"port":   cfg.Port,
		"dbname": cfg.DBName,
	}).Info("connecting to postgres")
	db, err := sqlx.Open("postgres",
		fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.Username, cfg.DBName, cfg.Password, cfg.SSLMode))
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the durable key-value table if it is missing.
func EnsureSchema(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	return err
}
