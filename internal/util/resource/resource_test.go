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


package resource

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tracked struct {
	token *Token
}

type abandoned struct {
	token *Token
}

func TestTrack(t *testing.T) {
	t.Parallel()

	obj := &tracked{}
	obj.token = NewToken(func(string) {})

	before := Count(obj)

	Track(obj, obj.token)
	assert.Equal(t, before+1, Count(obj))

	Untrack(obj, obj.token)
	assert.Equal(t, before, Count(obj))

	// second call is a no-op
	Untrack(obj, obj.token)
	assert.Equal(t, before, Count(obj))
}

func TestLeaked(t *testing.T) {
	t.Parallel()

	var msg atomic.Pointer[string]

	func() {
		obj := &abandoned{}
		obj.token = NewToken(func(m string) { msg.Store(&m) })
		Track(obj, obj.token)
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		return msg.Load() != nil
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, "*resource.abandoned has not been closed", *msg.Load())
	assert.Zero(t, Count(&abandoned{}))
}

func TestCheckArgs(t *testing.T) {
	t.Parallel()

	token := NewToken(nil)

	assert.Panics(t, func() { Track[tracked](nil, token) })
	assert.Panics(t, func() { Track(&tracked{}, nil) })
	assert.Panics(t, func() { Track(&tracked{}, token) })
}
