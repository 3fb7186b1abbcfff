package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ivanoskov/finance_chat_bot/internal/logger"
	"github.com/ivanoskov/finance_chat_bot/internal/model"
	"github.com/ivanoskov/finance_chat_bot/migrations"
)

// SQLiteRepository stores credentials in a local sqlite file. Used by the
// long-polling entry point, where the process owns its working directory.
type SQLiteRepository struct {
	db  *sql.DB
	log *logger.Logger
}

func NewSQLiteRepository(ctx context.Context, path string, log *logger.Logger) (*SQLiteRepository, error) {
	if err := createDBFileIfNotExists(path); err != nil {
		return nil, fmt.Errorf("creating database file: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := migrations.Migrate(db); err != nil {
		return nil, err
	}
	log.Debug().Str("path", path).Msg("credential database ready")

	return &SQLiteRepository{db: db, log: log}, nil
}

func createDBFileIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		return f.Close()
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, username string) (model.UserCredential, error) {
	var cred model.UserCredential
	row := r.db.QueryRowContext(ctx, getCredential, username)

	if err := row.Scan(&cred.Username, &cred.APIKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.UserCredential{}, ErrNoCredential
		}
		r.log.Err(err).Str("username", username).Msg("reading credential")
		return model.UserCredential{}, fmt.Errorf("reading credential: %w", err)
	}

	return cred, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, username, apiKey string) error {
	if _, err := r.db.ExecContext(ctx, saveCredential, username, apiKey); err != nil {
		r.log.Err(err).Str("username", username).Msg("saving credential")
		return fmt.Errorf("saving credential: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
