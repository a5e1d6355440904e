package kv

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/zkpauth/internal/common"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresWithMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresStore(db), mock
}

const (
	pgGet    = `(?s)^SELECT\s+value\s+FROM\s+kv\s+WHERE\s+key\s*=\s*\$1$`
	pgSet    = `(?s)^INSERT\s+INTO\s+kv\s*\(key,\s*value,\s*updated_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*now\(\)\)\s*ON\s+CONFLICT\s*\(key\)\s*DO\s+UPDATE`
	pgExists = `(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+kv\s+WHERE\s+key\s*=\s*\$1\)$`
)

func TestPostgresStore_Get(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	mock.ExpectQuery(pgGet).WithArgs("user:alice").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte{1, 2}))

	v, err := s.Get(context.Background(), "user:alice")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, v)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get_NotFound(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	mock.ExpectQuery(pgGet).WithArgs("user:bob").WillReturnError(sql.ErrNoRows)

	_, err := s.Get(context.Background(), "user:bob")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPostgresStore_Get_DBError(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	mock.ExpectQuery(pgGet).WithArgs("k").WillReturnError(errors.New("db down"))

	_, err := s.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
	assert.Contains(t, err.Error(), "db error: db down")
}

func TestPostgresStore_Set(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	mock.ExpectExec(pgSet).WithArgs("k", []byte{7}).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Set(context.Background(), "k", []byte{7}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Set_DBError(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	mock.ExpectExec(pgSet).WithArgs("k", []byte{7}).WillReturnError(errors.New("disk full"))

	err := s.Set(context.Background(), "k", []byte{7})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestPostgresStore_Exists(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	mock.ExpectQuery(pgExists).WithArgs("username:alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(pgExists).WithArgs("username:bob").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := s.Exists(context.Background(), "username:alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(context.Background(), "username:bob")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostgresStore_SetBatch_Commits(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(pgSet).WithArgs("user:alice", []byte{1}).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(pgSet).WithArgs("username:alice", []byte("user:alice")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.SetBatch(context.Background(), []Entry{
		{Key: "user:alice", Value: []byte{1}},
		{Key: "username:alice", Value: []byte("user:alice")},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SetBatch_RollsBack(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(pgSet).WithArgs("a", []byte{1}).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(pgSet).WithArgs("b", []byte{2}).WillReturnError(errors.New("conflict"))
	mock.ExpectRollback()

	err := s.SetBatch(context.Background(), []Entry{{Key: "a", Value: []byte{1}}, {Key: "b", Value: []byte{2}}})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate_UsesSeam(t *testing.T) {
	s, _ := newPostgresWithMock(t)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	require.NoError(t, s.Migrate(context.Background()))
	assert.Equal(t, "postgres", gotDir)

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	err := s.Migrate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestOpenPostgres_BadDSN(t *testing.T) {
	_, err := OpenPostgres(context.Background(), "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1")
	require.Error(t, err)
}
