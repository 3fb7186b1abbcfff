package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanoskov/finance_chat_bot/internal/logger"
)

func newTestRepo(t *testing.T) (*SQLiteRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	repo := &SQLiteRepository{db: db, log: logger.Nop()}
	return repo, mock, db
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newTestRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"username", "api_key"}).
		AddRow("@alice", "key-1")

	mock.ExpectQuery("SELECT username, api_key").
		WithArgs("@alice").
		WillReturnRows(rows)

	cred, err := repo.Get(context.Background(), "@alice")
	require.NoError(t, err)
	assert.Equal(t, "@alice", cred.Username)
	assert.Equal(t, "key-1", cred.APIKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_Missing(t *testing.T) {
	repo, mock, db := newTestRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT username, api_key").
		WithArgs("@stranger").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "@stranger")
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestGet_DriverError(t *testing.T) {
	repo, mock, db := newTestRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT username, api_key").
		WithArgs("@alice").
		WillReturnError(errors.New("disk I/O error"))

	_, err := repo.Get(context.Background(), "@alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoCredential)
}

func TestSave_SingleUpsertStatement(t *testing.T) {
	repo, mock, db := newTestRepo(t)
	defer db.Close()

	// the upsert is one statement, never a read followed by a write
	mock.ExpectExec("INSERT INTO users").
		WithArgs("@alice", "key-1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Save(context.Background(), "@alice", "key-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_ReplacesExistingKey(t *testing.T) {
	repo, mock, db := newTestRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WithArgs("@alice", "key-1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO users").
		WithArgs("@alice", "key-2").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT username, api_key").
		WithArgs("@alice").
		WillReturnRows(sqlmock.NewRows([]string{"username", "api_key"}).
			AddRow("@alice", "key-2"))

	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, "@alice", "key-1"))
	require.NoError(t, repo.Save(ctx, "@alice", "key-2"))

	cred, err := repo.Get(ctx, "@alice")
	require.NoError(t, err)
	assert.Equal(t, "key-2", cred.APIKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_DriverError(t *testing.T) {
	repo, mock, db := newTestRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WithArgs("@alice", "key-1").
		WillReturnError(errors.New("database is locked"))

	err := repo.Save(context.Background(), "@alice", "key-1")
	assert.Error(t, err)
}
