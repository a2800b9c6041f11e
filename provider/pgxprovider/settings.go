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

package pgxprovider

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/FerretDB/simplesql/internal/util/lazyerrors"
)

// The only supported encoding in canonical form.
const encoding = "UTF8"

// simplify returns a canonical form of encoding names.
func simplify(v string) string {
	return strings.ToLower(strings.ReplaceAll(v, "-", ""))
}

// checkConnection checks PostgreSQL settings that affect query results.
func checkConnection(ctx context.Context, conn *pgx.Conn, l *zap.Logger) error {
	rows, err := conn.Query(ctx, "SHOW ALL")
	if err != nil {
		return lazyerrors.Error(err)
	}
	defer rows.Close()

	for rows.Next() {
		// handle variable number of columns as a workaround for https://github.com/cockroachdb/cockroach/issues/101715
		values, err := rows.Values()
		if err != nil {
			return lazyerrors.Error(err)
		}

		if len(values) < 2 {
			return lazyerrors.Errorf("invalid row: %#v", values)
		}

		n, _ := values[0].(string)
		v, _ := values[1].(string)

		if err = checkSetting(n, v); err != nil {
			return err
		}

		switch n {
		case "server_version", "server_encoding", "client_encoding", "standard_conforming_strings":
			l.Debug("PostgreSQL setting", zap.String("name", n), zap.String("value", v))
		}
	}

	if err = rows.Err(); err != nil {
		return lazyerrors.Error(err)
	}

	return nil
}

// checkSetting checks a single setting value.
func checkSetting(name, value string) error {
	switch name {
	case "server_encoding", "client_encoding":
		if simplify(value) != simplify(encoding) {
			return lazyerrors.Errorf("%q is %q; supported value is %q", name, value, encoding)
		}

	case "standard_conforming_strings":
		// identifier quoting and string literals built by this package depend on it
		if value != "on" {
			return lazyerrors.Errorf("%q is %q, want %q", name, value, "on")
		}
	}

	return nil
}
