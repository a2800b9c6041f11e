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
	"github.com/FerretDB/simplesql/internal/util/iterator"
	"github.com/FerretDB/simplesql/provider"
)

// rowIterator streams shaped rows from a cursor.
//
// Keys are zero-based row numbers.
type rowIterator struct {
	cur    provider.Cursor
	m      *materializer
	query  string
	n      int
	closed bool
}

// newRowIterator returns a new iterator over the given cursor.
func newRowIterator(cur provider.Cursor, shape Shape, query string) *rowIterator {
	return &rowIterator{
		cur:   cur,
		m:     &materializer{shape: shape},
		query: query,
	}
}

// Next implements iterator.Interface.
func (iter *rowIterator) Next() (int, any, error) {
	if iter.closed {
		return 0, nil, iterator.ErrIteratorDone
	}

	if !iter.cur.Next() {
		err := iter.cur.Err()
		iter.Close()

		if err != nil {
			return 0, nil, newQueryError(iter.query, err)
		}

		return 0, nil, iterator.ErrIteratorDone
	}

	values, err := iter.cur.Values()
	if err != nil {
		iter.Close()
		return 0, nil, newQueryError(iter.query, err)
	}

	n := iter.n
	iter.n++

	return n, iter.m.row(iter.cur.Columns(), values), nil
}

// Close implements iterator.Interface.
func (iter *rowIterator) Close() {
	if iter.closed {
		return
	}

	iter.closed = true
	_ = iter.cur.Close()
}

// check interfaces
var (
	_ iterator.Interface[int, any] = (*rowIterator)(nil)
)
