package value

import (
	"fmt"

	"github.com/arloliu/hessian/errs"
)

// Entry is a single key/value pair of a Map.
type Entry struct {
	Key   Value
	Value Value
}

// Map is a mapping from Value to Value, optionally carrying a type name.
//
// Entries keep insertion order; lookup goes through a hash index keyed by
// Value.Hash with collision buckets resolved by Equal. A Map cannot be used
// as a key (Set rejects it): maps hash by identity, so equal-by-contents
// maps would land in different buckets.
type Map struct {
	typ     string
	typed   bool
	entries []Entry
	index   map[uint64][]int
}

// Type returns the type name of a typed map. The second result reports
// whether the map is typed at all.
func (m *Map) Type() (string, bool) {
	return m.typ, m.typed
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.entries)
}

// Entries returns the backing entry slice in insertion order. The slice is
// shared with the map; do not grow it, but Take on values is fine.
func (m *Map) Entries() []Entry {
	return m.entries
}

// Set inserts or replaces the entry for key.
//
// Returns errs.ErrUnsupportedMapKey if key is itself a Map.
func (m *Map) Set(key, val Value) error {
	if key.Kind() == KindMap {
		return fmt.Errorf("%w: %s", errs.ErrUnsupportedMapKey, key.Kind())
	}

	h := key.Hash()
	if m.index == nil {
		m.index = make(map[uint64][]int)
	}

	for _, i := range m.index[h] {
		if Equal(m.entries[i].Key, key) {
			m.entries[i].Value = val
			return nil
		}
	}

	m.index[h] = append(m.index[h], len(m.entries))
	m.entries = append(m.entries, Entry{Key: key, Value: val})

	return nil
}

// Get returns the value stored under key, if any.
func (m *Map) Get(key Value) (Value, bool) {
	if len(m.entries) == 0 || key.Kind() == KindMap {
		return Value{}, false
	}

	for _, i := range m.index[key.Hash()] {
		if Equal(m.entries[i].Key, key) {
			return m.entries[i].Value, true
		}
	}

	return Value{}, false
}
