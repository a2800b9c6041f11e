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
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/FerretDB/simplesql/dialect"
	"github.com/FerretDB/simplesql/internal/util/lazyerrors"
)

// scopeAlias is the alias of the base query in built statements.
const scopeAlias = "_scope"

// Scope is an immutable query builder around a base SELECT statement.
//
// The base statement, conditions, and their arguments use "?" placeholders;
// they are rewritten to the dialect's placeholders by Build.
// Every method returns a new Scope.
type Scope struct {
	base     string
	baseArgs []any
	conds    []scopeCond
	order    string
	page     int
	perPage  int
	err      error
}

// scopeCond is a single WHERE condition with its arguments.
type scopeCond struct {
	sql  string
	args []any
}

// NewScope returns a new Scope for the given base statement.
func NewScope(query string, args ...any) *Scope {
	return &Scope{
		base:     query,
		baseArgs: args,
	}
}

// clone returns a shallow copy with independent condition list.
func (s *Scope) clone() *Scope {
	res := *s
	res.conds = slices.Clone(s.conds)

	return &res
}

// Where returns a new Scope with an additional condition.
// Conditions are combined with AND.
func (s *Scope) Where(cond string, args ...any) *Scope {
	res := s.clone()
	res.conds = append(res.conds, scopeCond{sql: cond, args: args})

	return res
}

// OrderBy returns a new Scope with the given ORDER BY expression, replacing the previous one.
func (s *Scope) OrderBy(expr string) *Scope {
	res := s.clone()
	res.order = expr

	return res
}

// Paginate returns a new Scope that selects the given page (starting from 1) of perPage rows.
func (s *Scope) Paginate(page, perPage int) *Scope {
	res := s.clone()

	if page < 1 || perPage < 1 {
		res.err = newUsageError("Paginate", ErrInvalidArgument, "page %d, per page %d", page, perPage)
		return res
	}

	res.page, res.perPage = page, perPage

	return res
}

// Build returns the statement and its arguments for the given dialect.
func (s *Scope) Build(d dialect.Dialect) (string, []any, error) {
	if s.err != nil {
		return "", nil, s.err
	}

	q, args := s.build(d, false)

	return q, args, nil
}

// build renders the statement; count replaces the selected columns with COUNT(*)
// and omits ordering and pagination.
func (s *Scope) build(d dialect.Dialect, count bool) (string, []any) {
	var q strings.Builder

	if count {
		q.WriteString("SELECT COUNT(*) FROM (")
	} else {
		q.WriteString("SELECT * FROM (")
	}

	q.WriteString(s.base)
	q.WriteString(") AS " + d.QuoteIdent(scopeAlias))

	args := slices.Clone(s.baseArgs)

	for i, c := range s.conds {
		if i == 0 {
			q.WriteString(" WHERE ")
		} else {
			q.WriteString(" AND ")
		}

		q.WriteString("(" + c.sql + ")")
		args = append(args, c.args...)
	}

	if !count {
		if s.order != "" {
			q.WriteString(" ORDER BY " + s.order)
		}

		if s.perPage > 0 {
			q.WriteString(" LIMIT " + strconv.Itoa(s.perPage))
			q.WriteString(" OFFSET " + strconv.Itoa((s.page-1)*s.perPage))
		}
	}

	return rewritePlaceholders(d, q.String()), args
}

// rewritePlaceholders replaces "?" outside of quoted strings and identifiers
// with the dialect's numbered placeholders.
func rewritePlaceholders(d dialect.Dialect, query string) string {
	if d.Placeholder(1) == "?" {
		return query
	}

	var b strings.Builder
	b.Grow(len(query))

	var quote byte
	n := 0

	for i := 0; i < len(query); i++ {
		ch := query[i]

		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
		case ch == '?':
			n++
			b.WriteString(d.Placeholder(n))

			continue
		}

		b.WriteByte(ch)
	}

	return b.String()
}

// AllScope returns all rows selected by the scope.
func (c *Conn) AllScope(ctx context.Context, shape Shape, s *Scope) ([]any, error) {
	q, args, err := s.Build(c.d)
	if err != nil {
		return nil, err
	}

	return c.All(ctx, shape, q, args...)
}

// EachScope calls fn for every row selected by the scope.
func (c *Conn) EachScope(ctx context.Context, shape Shape, s *Scope, fn func(row any) error) error {
	if fn == nil {
		return newUsageError("EachScope", ErrHandlerRequired, "")
	}

	q, args, err := s.Build(c.d)
	if err != nil {
		return err
	}

	return c.Each(ctx, shape, fn, q, args...)
}

// Count returns the number of rows selected by the scope, ignoring ordering and pagination.
func (c *Conn) Count(ctx context.Context, s *Scope) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}

	q, args := s.build(c.d, true)

	v, found, err := c.Ask(ctx, q, args...)
	if err != nil {
		return 0, err
	}

	if !found {
		return 0, lazyerrors.New("no rows for COUNT(*)")
	}

	return toInt64(v)
}

// toInt64 converts an integer database value into int64.
func toInt64(v any) (int64, error) {
	switch v := v.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case []byte:
		return toInt64(string(v))
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, lazyerrors.Error(err)
		}

		return n, nil
	default:
		return 0, lazyerrors.Errorf("unexpected integer value %v (%T)", v, v)
	}
}
