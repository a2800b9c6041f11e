// Copyright 2021 FerretDB Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package simplesql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/FerretDB/simplesql/provider"
)

// Sentinel errors wrapped by UsageError.
var (
	// ErrHandlerRequired is returned when a row handler is nil.
	ErrHandlerRequired = errors.New("row handler is required")

	// ErrInvalidShape is returned for an unknown result shape.
	ErrInvalidShape = errors.New("invalid result shape")

	// ErrUnsupported is returned when the dialect or driver lacks a capability.
	// It is the same value as provider.ErrUnsupported.
	ErrUnsupported = provider.ErrUnsupported

	// ErrInvalidArgument is returned for invalid arguments such as empty column sets.
	ErrInvalidArgument = errors.New("invalid argument")
)

// UsageError indicates that the caller used the API incorrectly.
//
// It is returned before any database interaction.
type UsageError struct {
	Op  string
	Err error
}

// newUsageError returns a new UsageError for the given operation.
func newUsageError(op string, sentinel error, format string, args ...any) *UsageError {
	err := sentinel
	if format != "" {
		err = fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)
	}

	return &UsageError{Op: op, Err: err}
}

// Error implements error interface.
func (e *UsageError) Error() string {
	return "simplesql: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *UsageError) Unwrap() error {
	return e.Err
}

// QueryError wraps a driver error together with the statement that caused it.
//
// The driver error is kept unchanged, so errors.As to *pgconn.PgError or *mysql.MySQLError works.
type QueryError struct {
	SQL string
	Err error
}

// newQueryError wraps driver error err, if needed.
func newQueryError(sql string, err error) error {
	if err == nil {
		return nil
	}

	var qe *QueryError
	if errors.As(err, &qe) {
		return err
	}

	return &QueryError{SQL: sql, Err: err}
}

// Error implements error interface.
func (e *QueryError) Error() string {
	const maxLen = 100

	sql := strings.Join(strings.Fields(e.SQL), " ")
	if len(sql) > maxLen {
		sql = sql[:maxLen] + "..."
	}

	return fmt.Sprintf("simplesql: query failed: %s [%s]", e.Err, sql)
}

// Unwrap returns the driver error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// IsUniqueViolation reports whether err is (or wraps) a unique or primary key constraint violation
// reported by any supported driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		// ER_DUP_ENTRY
		return myErr.Number == 1062
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			// extended result codes are disabled
			return strings.Contains(liteErr.Error(), "UNIQUE constraint failed")
		}
	}

	return false
}

// check interfaces
var (
	_ error = (*UsageError)(nil)
	_ error = (*QueryError)(nil)
)
