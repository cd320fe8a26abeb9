// file: repository/repository.go

package repository

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrTokenNotFound       = errors.New("refresh token not found")
	ErrDuplicateToken      = errors.New("refresh token already exists")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so a query can run inside
// or outside a caller-owned transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// HashRefreshToken returns the value stored in place of an opaque refresh token.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
