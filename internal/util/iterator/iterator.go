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

// Package iterator describes a generic Iterator interface and related utilities.
package iterator

import (
	"errors"

	"github.com/FerretDB/simplesql/internal/util/lazyerrors"
)

// ErrIteratorDone is returned when the iterator is read to the end or closed.
var ErrIteratorDone = errors.New("iterator is read to the end or closed")

// Interface is an iterator interface.
type Interface[K, V any] interface {
	// Next returns the next key/value pair, where the key is a slice index, row number, etc,
	// and the value is the slice value, the next row, etc.
	//
	// Returned error could be (possibly wrapped) ErrIteratorDone or some fatal error.
	Next() (K, V, error)

	// Close indicates that the iterator will no longer be used.
	// After Close is called, Next must return only ErrIteratorDone.
	//
	// Close may be called multiple times.
	Close()
}

// ConsumeValues consumes all values from iterator until it is done.
// ErrIteratorDone error is returned as nil; any other error is returned as-is.
//
// The returned slice is never nil, even if there are no values.
// Iterator is always closed at the end.
func ConsumeValues[K, V any](iter Interface[K, V]) ([]V, error) {
	defer iter.Close()

	res := []V{}

	for {
		_, v, err := iter.Next()
		if err != nil {
			if errors.Is(err, ErrIteratorDone) {
				return res, nil
			}

			return nil, err
		}

		res = append(res, v)
	}
}

// ForEach calls f for each value of the iterator until it is done or f returns an error.
// ErrIteratorDone error is returned as nil; any other error, including the one returned by f,
// is returned as-is.
//
// Iterator is always closed at the end.
func ForEach[K, V any](iter Interface[K, V], f func(V) error) error {
	defer iter.Close()

	if f == nil {
		return lazyerrors.New("f is nil")
	}

	for {
		_, v, err := iter.Next()
		if err != nil {
			if errors.Is(err, ErrIteratorDone) {
				return nil
			}

			return err
		}

		if err = f(v); err != nil {
			return err
		}
	}
}
