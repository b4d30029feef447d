package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"plumberf/internal/app/repository"
)

// Dialect is the sqlite flavour of the repository SQL.
var Dialect = repository.Dialect{
	Name:              "sqlite3",
	IsUniqueViolation: IsUniqueViolation,
}

// Open opens the database file at path, or an in-memory database for ":memory:".
// Foreign keys are enforced and the pool holds a single connection, so every
// statement of a transaction must go through that transaction.
func Open(path string) (*sql.DB, error) {
	path = strings.TrimPrefix(path, "sqlite://")
	path = strings.TrimPrefix(path, "sqlite3://")
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	if path == ":memory:" {
		dsn = "file::memory:?_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// NewStore opens path and wraps it in a repository store.
func NewStore(path string) (*repository.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return repository.NewStore(db, Dialect), nil
}

// IsUniqueViolation reports whether err is a sqlite unique or primary key violation.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
