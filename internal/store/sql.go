package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// SQLBackend keeps the object as a row of the blob_store table, the version
// is an integer bumped on every write.
type SQLBackend struct {
	db  *sql.DB
	key string
}

func wrapOpenDB(err error) error {
	return fmt.Errorf("open db: %w", err)
}

// OpenSQLite opens (creating if needed) a local sqlite database, path may be ":memory:".
func OpenSQLite(path, key string) (*SQLBackend, error) {
	if path != ":memory:" {
		err := os.MkdirAll(filepath.Dir(path), 0777)
		if err != nil {
			return nil, wrapOpenDB(err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapOpenDB(err)
	}

	// sqlite only supports a single writer, this also keeps an in-memory
	// database alive for as long as the pool is open
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		db.Close()
		return nil, wrapOpenDB(err)
	}

	return newOwnedBackend(db, key)
}

// OpenLibSQL connects to a remote libsql database, the token is sent as the
// authToken parameter.
func OpenLibSQL(dbUrl, token, key string) (*SQLBackend, error) {
	if dbUrl == "" || token == "" {
		return nil, ErrUnavailable
	}

	parsed, err := url.Parse(dbUrl)
	if err != nil {
		return nil, wrapOpenDB(err)
	}
	query := parsed.Query()
	query.Set("authToken", token)
	parsed.RawQuery = query.Encode()

	db, err := sql.Open("libsql", parsed.String())
	if err != nil {
		return nil, wrapOpenDB(err)
	}
	return newOwnedBackend(db, key)
}

// newOwnedBackend closes db when the backend cannot be built on it.
func newOwnedBackend(db *sql.DB, key string) (*SQLBackend, error) {
	backend, err := NewSQLBackend(db, key)
	if err != nil {
		db.Close()
		return nil, err
	}
	return backend, nil
}

// NewSQLBackend applies the schema to db and stores the object under key.
func NewSQLBackend(db *sql.DB, key string) (*SQLBackend, error) {
	if key == "" {
		return nil, ErrUnavailable
	}
	_, err := db.Exec(schema)
	if err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLBackend{db: db, key: key}, nil
}

func (b *SQLBackend) Close() error {
	return b.db.Close()
}

func (b *SQLBackend) Get(ctx context.Context) ([]byte, Version, error) {
	var content []byte
	var version int64
	err := b.db.QueryRowContext(
		ctx,
		"select content, version from blob_store where key = ?",
		b.key,
	).Scan(&content, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", errNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("get %s: %w", b.key, err)
	}
	return content, Version(strconv.FormatInt(version, 10)), nil
}

func (b *SQLBackend) Put(ctx context.Context, blob []byte, expected Version) (Version, error) {
	var (
		res  sql.Result
		next int64 = 1
		err  error
	)
	if expected == "" {
		res, err = b.db.ExecContext(
			ctx,
			"insert into blob_store (key, content, version) values (?, ?, 1) on conflict (key) do nothing",
			b.key, blob,
		)
	} else {
		current, parseErr := strconv.ParseInt(string(expected), 10, 64)
		if parseErr != nil {
			return "", &ConflictError{Expected: expected, Current: b.current(ctx)}
		}
		next = current + 1
		res, err = b.db.ExecContext(
			ctx,
			"update blob_store set content = ?, version = ? where key = ? and version = ?",
			blob, next, b.key, current,
		)
	}
	if err != nil {
		return "", fmt.Errorf("put %s: %w", b.key, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("put %s: %w", b.key, err)
	}
	if affected == 0 {
		return "", &ConflictError{Expected: expected, Current: b.current(ctx)}
	}
	return Version(strconv.FormatInt(next, 10)), nil
}

func (b *SQLBackend) current(ctx context.Context) Version {
	var version int64
	err := b.db.QueryRowContext(ctx, "select version from blob_store where key = ?", b.key).Scan(&version)
	if err != nil {
		return ""
	}
	return Version(strconv.FormatInt(version, 10))
}
