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
	"fmt"
	"slices"
)

// Shape selects how each result row is represented.
//
// Shape is chosen per call, never per connection.
type Shape int

const (
	// ShapePositional represents a single-column row as a bare value,
	// and a multi-column row as []any in column order.
	ShapePositional Shape = iota

	// ShapeMapping represents a row as *Map keyed by column names (including aliases).
	ShapeMapping

	// ShapeRecord represents a row as read-only *Record.
	// All records produced by a single call share the same *RecordType.
	ShapeRecord
)

// String implements fmt.Stringer.
func (s Shape) String() string {
	switch s {
	case ShapePositional:
		return "positional"
	case ShapeMapping:
		return "mapping"
	case ShapeRecord:
		return "record"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// validate returns UsageError for unknown shapes.
func (s Shape) validate(op string) error {
	switch s {
	case ShapePositional, ShapeMapping, ShapeRecord:
		return nil
	default:
		return newUsageError(op, ErrInvalidShape, "%s", s)
	}
}

// RecordType describes the fields of records produced by a single call.
//
// Duplicate column names are collapsed into a single field at the position of the first one.
type RecordType struct {
	fields []string
	index  map[string]int
	slots  []int // column position -> field position
}

// newRecordType creates a new RecordType from result column names.
func newRecordType(columns []string) *RecordType {
	t := &RecordType{
		fields: make([]string, 0, len(columns)),
		index:  make(map[string]int, len(columns)),
		slots:  make([]int, len(columns)),
	}

	for i, c := range columns {
		f, ok := t.index[c]
		if !ok {
			f = len(t.fields)
			t.index[c] = f
			t.fields = append(t.fields, c)
		}

		t.slots[i] = f
	}

	return t
}

// Fields returns field names in order.
func (t *RecordType) Fields() []string {
	return slices.Clone(t.fields)
}

// Len returns the number of fields.
func (t *RecordType) Len() int {
	return len(t.fields)
}

// Index returns the position of the given field.
func (t *RecordType) Index(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// pack converts row values in column order into field order.
// For duplicate column names, the last value wins.
func (t *RecordType) pack(values []any) []any {
	res := make([]any, len(t.fields))
	for i, v := range values {
		res[t.slots[i]] = v
	}

	return res
}

// Record is a read-only row with named fields.
type Record struct {
	t      *RecordType
	values []any
}

// Type returns the record type shared by all records of the same call.
func (r *Record) Type() *RecordType {
	return r.t
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.values)
}

// Fields returns field names in order.
func (r *Record) Fields() []string {
	return r.t.Fields()
}

// Get returns the value of the given field.
func (r *Record) Get(name string) (any, bool) {
	i, ok := r.t.index[name]
	if !ok {
		return nil, false
	}

	return r.values[i], true
}

// Value returns the value of the given field, or nil if there is no such field.
func (r *Record) Value(name string) any {
	v, _ := r.Get(name)
	return v
}

// Values returns a copy of field values in order.
func (r *Record) Values() []any {
	return slices.Clone(r.values)
}

// Map is an ordered key-value association of a row.
//
// Keys are unique; their order is the order of the first appearance in the result.
// Unlike Record, Map can be modified.
type Map struct {
	keys   []string
	index  map[string]int
	values []any
	shared bool // keys and index are shared with RecordType
}

// newMap returns a new Map sharing keys with the given RecordType.
func newMap(t *RecordType, values []any) *Map {
	return &Map{
		keys:   t.fields,
		index:  t.index,
		values: values,
		shared: true,
	}
}

// Len returns the number of keys.
func (m *Map) Len() int {
	return len(m.keys)
}

// Keys returns keys in order.
func (m *Map) Keys() []string {
	return slices.Clone(m.keys)
}

// Get returns the value of the given key.
func (m *Map) Get(key string) (any, bool) {
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}

	return m.values[i], true
}

// Value returns the value of the given key, or nil if there is no such key.
func (m *Map) Value(key string) any {
	v, _ := m.Get(key)
	return v
}

// Set sets the value of the given key.
// New keys are appended to the end.
func (m *Map) Set(key string, value any) {
	if i, ok := m.index[key]; ok {
		m.values[i] = value
		return
	}

	if m.shared {
		m.keys = slices.Clone(m.keys)

		index := make(map[string]int, len(m.index)+1)
		for k, i := range m.index {
			index[k] = i
		}

		m.index = index
		m.shared = false
	}

	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
}

// Map returns a copy as unordered Go map.
func (m *Map) Map() map[string]any {
	res := make(map[string]any, len(m.keys))
	for i, k := range m.keys {
		res[k] = m.values[i]
	}

	return res
}

// materializer converts raw rows into the requested shape.
//
// Record type is built lazily from the first row's columns and reused for the rest.
type materializer struct {
	shape Shape
	t     *RecordType
}

// row returns a single row in the materializer's shape.
func (m *materializer) row(columns []string, values []any) any {
	if m.shape == ShapePositional {
		if len(values) == 1 {
			return values[0]
		}

		return values
	}

	if m.t == nil {
		m.t = newRecordType(columns)
	}

	packed := m.t.pack(values)

	if m.shape == ShapeMapping {
		return newMap(m.t, packed)
	}

	return &Record{t: m.t, values: packed}
}
