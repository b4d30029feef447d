package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"

	"plumberf/internal/app/repository"
)

// uniqueViolation is the SQLSTATE postgres reports for duplicate keys.
const uniqueViolation = "23505"

// Dialect is the postgres flavour of the repository SQL.
var Dialect = repository.Dialect{
	Name:              "postgres",
	Placeholder:       func(n int) string { return "$" + strconv.Itoa(n) },
	IsUniqueViolation: IsUniqueViolation,
}

// Open connects to postgres using a lib/pq connection string or URL and verifies the connection.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NewStore opens dsn and wraps it in a repository store.
func NewStore(dsn string) (*repository.Store, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	return repository.NewStore(db, Dialect), nil
}

// IsUniqueViolation reports whether err is a postgres duplicate key error.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
