package database

import (
	"context"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/navidad-games/impostor/internal/logging"
)

type Config struct {
	FilePath string `envconfig:"IMPOSTOR_DB_PATH" default:"impostor.db"`
}

type DB struct {
	DB *bolt.DB
}

func New(ctx context.Context, config *Config) (*DB, error) {
	logger := logging.FromContext(ctx)
	logger.Infof("opening stats db %s", config.FilePath)

	db, err := bolt.Open(config.FilePath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	return &DB{DB: db}, nil
}

func (db *DB) Close(ctx context.Context) error {
	logging.FromContext(ctx).Infof("closing stats db")

	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}

	return nil
}
