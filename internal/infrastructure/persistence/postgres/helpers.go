// Package postgres - shared helpers for the PostgreSQL adapters.
package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier abstracts over *pgxpool.Pool and pgx.Tx so repositories can run
// the same query through either a pooled connection or an active
// transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txKey is the context key the active transaction is stored under.
type txKey struct{}

// injectTx stores tx in ctx so repositories resolve the transaction a
// UnitOfWork started instead of acquiring their own connection.
func injectTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// extractTx returns the transaction stored in ctx, or nil if none.
func extractTx(ctx context.Context) pgx.Tx {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	if !ok {
		return nil
	}
	return tx
}

// hasTx reports whether ctx carries an active transaction.
func hasTx(ctx context.Context) bool {
	return extractTx(ctx) != nil
}

// PostgreSQL error codes the ledger engine classifies against (§6).
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"

	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

func isPgError(err error, code string) bool {
	if err == nil {
		return false
	}

	pgErr, ok := err.(*pgconn.PgError)
	if !ok {
		return false
	}

	return pgErr.Code == code
}

// isUniqueViolation reports a UNIQUE constraint violation. When
// constraintName is non-empty it must appear in the reported constraint
// name (e.g. "transactions_idempotency_key_key").
func isUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}

	pgErr, ok := err.(*pgconn.PgError)
	if !ok {
		return false
	}

	if pgErr.Code != pgUniqueViolation {
		return false
	}

	if constraintName != "" {
		return strings.Contains(pgErr.ConstraintName, constraintName)
	}

	return true
}

func isForeignKeyViolation(err error) bool {
	return isPgError(err, pgForeignKeyViolation)
}

// isSerializationFailure reports a serialization failure or deadlock, both
// retryable under the Lock Coordinator's deterministic ordering (§4.1, §6).
func isSerializationFailure(err error) bool {
	return isPgError(err, pgSerializationFailure) || isPgError(err, pgDeadlockDetected)
}

func isNotNullViolation(err error) bool {
	return isPgError(err, pgNotNullViolation)
}

func isCheckViolation(err error) bool {
	return isPgError(err, pgCheckViolation)
}

// isRetryableError classifies an error as transient (§6 Transient):
// serialization failures, deadlocks, and connection-class (08xxx) errors.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if isSerializationFailure(err) {
		return true
	}

	pgErr, ok := err.(*pgconn.PgError)
	if ok {
		return strings.HasPrefix(pgErr.Code, "08")
	}

	return false
}
