package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether the provided error references a unique
// violation. When constraintName is provided, the helper only matches that
// constraint (Postgres) or that table.column pair (SQLite).
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) && pgxErr.Code == pgUniqueViolation {
		return constraintName == "" || pgxErr.ConstraintName == constraintName
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return constraintName == "" || pqErr.Constraint == constraintName
	}

	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") && !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	if constraintName != "" {
		return strings.Contains(msg, constraintName) || strings.Contains(msg, sqliteColumn(constraintName))
	}
	return true
}

// sqliteColumn turns a Postgres "<table>_<column>_key" constraint into the
// "<table>.<column>" form SQLite reports.
func sqliteColumn(constraintName string) string {
	trimmed, ok := strings.CutSuffix(constraintName, "_key")
	if !ok {
		return constraintName
	}
	table, column, ok := strings.Cut(trimmed, "_")
	if !ok {
		return constraintName
	}
	return table + "." + column
}
