package gnuplot

import (
	"strings"

	"github.com/xiaq/persistent/hash"
	"github.com/xiaq/persistent/hashmap"
	"github.com/xiaq/persistent/vector"
)

var emptyEntries = hashmap.New(
	func(a, b any) bool { return a.(string) == b.(string) },
	func(k any) uint32 { return hash.String(k.(string)) },
)

// Store is an immutable option mapping. Updates return a new Store that
// shares structure with the old one. Keys iterate in first-insertion order;
// overriding a key keeps its position. The zero Store is empty and ready to
// use.
type Store struct {
	entries hashmap.Map
	order   vector.Vector
}

// NewStore builds a store from ordered pairs. Later pairs override earlier
// ones.
func NewStore(pairs ...Pair) Store {
	return Store{}.Merge(pairs...)
}

// Len is the number of keys.
func (s Store) Len() int {
	if s.entries == nil {
		return 0
	}
	return s.entries.Len()
}

// IsEmpty reports whether the store holds no keys.
func (s Store) IsEmpty() bool { return s.Len() == 0 }

// Get returns the value stored under key.
func (s Store) Get(key string) (Value, bool) {
	if s.entries == nil {
		return Value{}, false
	}
	v, ok := s.entries.Index(key)
	if !ok {
		return Value{}, false
	}
	return v.(Value), true
}

// Has reports whether key is present.
func (s Store) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Merge returns a store with pairs assigned on top of s. With no pairs it
// returns s itself.
func (s Store) Merge(pairs ...Pair) Store {
	if len(pairs) == 0 {
		return s
	}
	entries, order := s.entries, s.order
	if entries == nil {
		entries, order = emptyEntries, vector.Empty
	}
	for _, pair := range pairs {
		if _, exists := entries.Index(pair.Key); !exists {
			order = order.Cons(pair.Key)
		}
		entries = entries.Assoc(pair.Key, pair.Value)
	}
	return Store{entries: entries, order: order}
}

// MergeStore assigns every entry of other on top of s, in other's order.
func (s Store) MergeStore(other Store) Store {
	if other.IsEmpty() {
		return s
	}
	if s.IsEmpty() {
		return other
	}
	return s.Merge(other.Pairs()...)
}

// Delete returns a store without key.
func (s Store) Delete(key string) Store {
	if !s.Has(key) {
		return s
	}
	order := vector.Empty
	for it := s.order.Iterator(); it.HasElem(); it.Next() {
		if k := it.Elem().(string); k != key {
			order = order.Cons(k)
		}
	}
	return Store{entries: s.entries.Dissoc(key), order: order}
}

// Each visits entries in insertion order.
func (s Store) Each(fn func(key string, value Value)) {
	if s.order == nil {
		return
	}
	for it := s.order.Iterator(); it.HasElem(); it.Next() {
		key := it.Elem().(string)
		value, _ := s.Get(key)
		fn(key, value)
	}
}

// Keys returns keys in insertion order.
func (s Store) Keys() []string {
	keys := make([]string, 0, s.Len())
	s.Each(func(key string, _ Value) {
		keys = append(keys, key)
	})
	return keys
}

// Pairs returns the entries in insertion order.
func (s Store) Pairs() []Pair {
	pairs := make([]Pair, 0, s.Len())
	s.Each(func(key string, value Value) {
		pairs = append(pairs, Pair{Key: key, Value: value})
	})
	return pairs
}

// Equal compares contents; insertion order is ignored.
func (s Store) Equal(o Store) bool {
	if s.Len() != o.Len() {
		return false
	}
	equal := true
	s.Each(func(key string, value Value) {
		if !equal {
			return
		}
		other, ok := o.Get(key)
		equal = ok && value.Equal(other)
	})
	return equal
}

// Snapshot converts the store into plain Go values, the shape rule
// evaluators see.
func (s Store) Snapshot() map[string]any {
	out := make(map[string]any, s.Len())
	s.Each(func(key string, value Value) {
		out[key] = value.Native()
	})
	return out
}

// String serializes every entry and joins them with a space, the same form
// a nested mapping takes.
func (s Store) String() string {
	parts := make([]string, 0, s.Len())
	s.Each(func(key string, value Value) {
		parts = append(parts, Serialize(key, value))
	})
	return strings.Join(parts, " ")
}
