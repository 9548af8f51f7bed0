// Package store persists monuments, licenses and pictures. Inserts are
// idempotent: a natural-key collision is reported as AlreadyExists instead
// of an error, so the whole pipeline can be re-run safely.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Outcome is the result of an idempotent insert.
type Outcome int

const (
	Inserted Outcome = iota
	AlreadyExists
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case AlreadyExists:
		return "already_exists"
	default:
		return "unknown"
	}
}

var (
	// ErrFatal wraps every storage failure that is not a uniqueness
	// conflict. The pipeline stops on it.
	ErrFatal = errors.New("storage error")

	ErrNotFound = errors.New("record not found")
)

type row interface {
	Scan(dest ...any) error
}

type rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// conn is what a backend provides. SQL is written with ? placeholders and
// rewritten by the backend when it needs another style.
type conn interface {
	exec(ctx context.Context, query string, args ...any) (int64, error)
	queryRow(ctx context.Context, query string, args ...any) row
	query(ctx context.Context, query string, args ...any) (rows, error)
	isUniqueViolation(err error) bool
	sqlDB() (*sql.DB, string, error)
	close()
}

// Store is the single shared storage handle. It is not meant for
// concurrent writers.
type Store struct {
	c conn
}

func (s *Store) Close() {
	s.c.close()
}

// SQL exposes a database/sql handle and its goose dialect name.
func (s *Store) SQL() (*sql.DB, string, error) {
	return s.c.sqlDB()
}

// insert runs an INSERT and folds a uniqueness violation into AlreadyExists.
func (s *Store) insert(ctx context.Context, what, query string, args ...any) (Outcome, error) {
	if _, err := s.c.exec(ctx, query, args...); err != nil {
		if s.c.isUniqueViolation(err) {
			return AlreadyExists, nil
		}
		return Inserted, fmt.Errorf("%w: insert %s: %w", ErrFatal, what, err)
	}
	return Inserted, nil
}

func fatal(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrFatal, op, err)
}

// rebindDollar rewrites ? placeholders as $1, $2, ...
func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
