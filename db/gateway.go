package db

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/nextapp/nextappd/errors"
)

// Gateway is a thin façade over *sql.DB: parameterized execute, typed row
// access, and error-to-domain mapping. It is the only component that touches
// the SQL driver directly; every other package goes through it.
type Gateway struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

// NewGateway wraps an already-opened, already-migrated *sql.DB.
func NewGateway(conn *sql.DB, log *zap.SugaredLogger) *Gateway {
	return &Gateway{db: conn, log: log}
}

// DB returns the underlying connection pool, for components that need
// transactional control the gateway's single-statement surface doesn't cover.
func (g *Gateway) DB() *sql.DB {
	return g.db
}

// RowSet is the gateway's result shape: has_value (any rows returned or any
// command ran), rows (the underlying iterator), affected_rows (for DML).
type RowSet struct {
	rows     *sql.Rows
	affected int64
	hasValue bool
}

// HasValue reports whether the statement produced rows or otherwise ran.
func (r *RowSet) HasValue() bool {
	return r.hasValue
}

// Rows returns the underlying row iterator for a query. Nil for pure DML.
func (r *RowSet) Rows() *sql.Rows {
	return r.rows
}

// AffectedRows returns the number of rows affected by a DML statement.
func (r *RowSet) AffectedRows() int64 {
	return r.affected
}

// Close releases the underlying rows, if any. Safe to call on a DML RowSet.
func (r *RowSet) Close() error {
	if r.rows != nil {
		return r.rows.Close()
	}
	return nil
}

// Query executes a SELECT and returns its RowSet. All values are bound as
// parameters; callers must never interpolate user data into query.
func (g *Gateway) Query(ctx context.Context, query string, args ...interface{}) (*RowSet, error) {
	rows, err := g.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, g.wrapDatabaseError(err, query)
	}
	return &RowSet{rows: rows, hasValue: true}, nil
}

// QueryRow executes a SELECT expected to return at most one row.
func (g *Gateway) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return g.db.QueryRowContext(ctx, query, args...)
}

// Exec executes an INSERT/UPDATE/DELETE and returns its RowSet with
// AffectedRows populated.
func (g *Gateway) Exec(ctx context.Context, query string, args ...interface{}) (*RowSet, error) {
	result, err := g.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, g.wrapDatabaseError(err, query)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, g.wrapDatabaseError(err, query)
	}
	return &RowSet{affected: affected, hasValue: affected > 0}, nil
}

// wrapDatabaseError maps a driver error into a domain code, carrying the
// underlying message. A closed connection pool (the shape a query takes
// when it races the graceful-shutdown drain in server.Server.Stop) gets its
// own DATABASE_CLOSED code so callers can distinguish "try again later"
// from an ordinary statement failure.
func (g *Gateway) wrapDatabaseError(err error, query string) error {
	if g.log != nil {
		g.log.Debugw("database statement failed", "error", err, "query", query)
	}
	code := errors.CodeDatabaseError
	if IsDatabaseClosed(err) {
		code = errors.CodeDatabaseClosed
	}
	return errors.WithCode(
		errors.Wrap(err, "database statement failed"),
		code,
		err.Error(),
	)
}

// NullString converts an empty string into a SQL NULL, matching the "empty
// string becomes null" rule used by SetDay/SetColorOnDay.
func NullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// StringOrEmpty converts a possibly-NULL column back to a plain string,
// the "absent optional" coming out as "".
func StringOrEmpty(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}
