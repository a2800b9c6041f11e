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

package lazyerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unwrap(err error, n int) error {
	for i := 0; i < n; i++ {
		err = errors.Unwrap(err)
	}

	return err
}

func TestErrors(t *testing.T) {
	t.Parallel()

	err := New("err")
	err1 := Errorf("err1: %w", err)
	err2 := Error(err1)

	assert.Regexp(t, `^\[lazyerrors_test\.go:\d+ lazyerrors\.TestErrors\] err$`, err.Error())
	assert.Regexp(t, `^\[lazyerrors_test\.go:\d+ lazyerrors\.TestErrors\] err1: \[lazyerrors_test\.go:\d+ lazyerrors\.TestErrors\] err$`, err1.Error())

	assert.NotEqual(t, err, unwrap(err1, 1))
	assert.Equal(t, err, unwrap(err1, 2))
	assert.Equal(t, err1, unwrap(err2, 1))

	assert.True(t, errors.Is(err2, err1))
	assert.True(t, errors.Is(err2, err))
}

func TestWrapSentinel(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	err := Errorf("table %q: %w", "users", sentinel)

	require.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), `table "users": sentinel`)
	assert.Equal(t, sentinel, UnwrapAll(err))
}

func TestUnwrapAll(t *testing.T) {
	t.Parallel()

	assert.Nil(t, UnwrapAll(nil))

	base := errors.New("base")
	assert.Equal(t, base, UnwrapAll(base))
	assert.Equal(t, base, UnwrapAll(fmt.Errorf("a: %w", fmt.Errorf("b: %w", base))))
}

func TestErrorNil(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { _ = Error(nil) })
}

var drain any

func BenchmarkNew(b *testing.B) {
	for i := 0; i < b.N; i++ {
		drain = New("err")
	}

	b.StopTimer()

	assert.NotNil(b, drain)
}
