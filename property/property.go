/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package property provides the resolved custom property table.
package property

import (
	"iter"
	"strings"
)

// Sigil is the prefix every custom property name starts with.
const Sigil = "--"

// IsCustomPropertyName reports whether name carries the custom property sigil.
func IsCustomPropertyName(name string) bool {
	return strings.HasPrefix(name, Sigil)
}

// Record is one resolved custom property.
type Record struct {
	// Value is the raw, unparsed value text as declared.
	Value string `json:"value"`

	// Deprecated is true when the declaration was marked deprecated.
	Deprecated bool `json:"deprecated,omitempty"`

	// DeprecationComment is the free text of the deprecation marker comment.
	// Empty means absent.
	DeprecationComment string `json:"deprecationComment,omitempty"`
}

// Map is an insertion-ordered mapping from custom property name to Record.
//
// Setting a name that is already present replaces its record but keeps the
// name at its original position. A Map is not safe for concurrent mutation;
// discovery builds one map per goroutine and merges after joining.
type Map struct {
	names   []string
	records map[string]Record
}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{records: make(map[string]Record)}
}

// Set stores rec under name. Later writes win.
func (m *Map) Set(name string, rec Record) {
	if _, ok := m.records[name]; !ok {
		m.names = append(m.names, name)
	}
	m.records[name] = rec
}

// Get returns the record for name.
func (m *Map) Get(name string) (Record, bool) {
	if m == nil {
		return Record{}, false
	}
	rec, ok := m.records[name]
	return rec, ok
}

// Has reports whether name is present.
func (m *Map) Has(name string) bool {
	_, ok := m.Get(name)
	return ok
}

// Len returns the number of properties.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// Names returns the property names in insertion order.
func (m *Map) Names() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.names...)
}

// All iterates over the properties in insertion order.
func (m *Map) All() iter.Seq2[string, Record] {
	return func(yield func(string, Record) bool) {
		if m == nil {
			return
		}
		for _, name := range m.names {
			if !yield(name, m.records[name]) {
				return
			}
		}
	}
}

// Merge overlays every entry of other onto m, in other's order.
// Entries of other win on name collision.
func (m *Map) Merge(other *Map) {
	for name, rec := range other.All() {
		m.Set(name, rec)
	}
}

// Clone returns an independent copy of m.
func (m *Map) Clone() *Map {
	c := NewMap()
	c.Merge(m)
	return c
}

// Equal reports whether both maps hold the same records in the same order.
func (m *Map) Equal(other *Map) bool {
	if m.Len() != other.Len() {
		return false
	}
	for i, name := range m.Names() {
		if other.names[i] != name || other.records[name] != m.records[name] {
			return false
		}
	}
	return true
}

// Deprecated returns the names of deprecated properties in insertion order.
func (m *Map) Deprecated() []string {
	var names []string
	for name, rec := range m.All() {
		if rec.Deprecated {
			names = append(names, name)
		}
	}
	return names
}
