package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/zkpauth/internal/common"
	"github.com/dmitrijs2005/zkpauth/internal/dbx"
	"github.com/dmitrijs2005/zkpauth/internal/server/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

type queries struct {
	get    string
	set    string
	exists string
}

var postgresQueries = queries{
	get: `SELECT value FROM kv WHERE key = $1`,
	set: `INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
	exists: `SELECT EXISTS (SELECT 1 FROM kv WHERE key = $1)`,
}

var sqliteQueries = queries{
	get: `SELECT value FROM kv WHERE key = ?`,
	set: `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
	exists: `SELECT EXISTS (SELECT 1 FROM kv WHERE key = ?)`,
}

// sqlStore is the database/sql implementation shared by the SQL backends.
type sqlStore struct {
	db *sql.DB
	q  queries

	dialect string
	dir     string
}

func get(ctx context.Context, db dbx.DBTX, q queries, key string) ([]byte, error) {
	var value []byte
	err := db.QueryRowContext(ctx, q.get, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return value, nil
}

func set(ctx context.Context, db dbx.DBTX, q queries, key string, value []byte) error {
	if _, err := db.ExecContext(ctx, q.set, key, value); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *sqlStore) Get(ctx context.Context, key string) ([]byte, error) {
	return get(ctx, s.db, s.q, key)
}

func (s *sqlStore) Set(ctx context.Context, key string, value []byte) error {
	return set(ctx, s.db, s.q, key, value)
}

func (s *sqlStore) Exists(ctx context.Context, key string) (bool, error) {
	var ok bool
	if err := s.db.QueryRowContext(ctx, s.q.exists, key).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (s *sqlStore) SetBatch(ctx context.Context, entries []Entry) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, e := range entries {
			if err := set(ctx, tx, s.q, e.Key, e.Value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Migrate applies the embedded schema migrations for the store's dialect.
func (s *sqlStore) Migrate(ctx context.Context) error {
	return runMigrations(ctx, s.db, s.dialect, s.dir)
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

// PostgresStore keeps entries in the kv table of a PostgreSQL database.
type PostgresStore struct {
	sqlStore
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{sqlStore{db: db, q: postgresQueries, dialect: "postgres", dir: migrations.PostgresDir}}
}

// OpenPostgres connects through the pgx database/sql driver and checks the
// connection.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := openDB(ctx, "pgx", dsn)
	if err != nil {
		return nil, err
	}
	return NewPostgresStore(db), nil
}

// SQLiteStore keeps entries in the kv table of a SQLite database file.
type SQLiteStore struct {
	sqlStore
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{sqlStore{db: db, q: sqliteQueries, dialect: "sqlite3", dir: migrations.SQLiteDir}}
}

// OpenSQLite opens path with the pure-Go modernc driver. SQLite serializes
// writers, so the pool is limited to one connection.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := openDB(ctx, "sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return NewSQLiteStore(db), nil
}

func openDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

func runMigrations(ctx context.Context, db *sql.DB, dialect, dir string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}
	return nil
}
