package state

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps preset snapshots in process memory. Saves stamp
// UpdatedAt and give snapshots without an ID a fresh one.
type MemoryStore[T any] struct {
	// Now stamps UpdatedAt; time.Now when nil.
	Now func() time.Time

	mu      sync.RWMutex
	records map[Ref]memoryRecord[T]
}

type memoryRecord[T any] struct {
	snapshot T
	meta     Meta
}

func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{records: map[Ref]memoryRecord[T]{}}
}

func (s *MemoryStore[T]) Load(_ context.Context, ref Ref) (T, Meta, bool, error) {
	var zero T
	if _, err := ref.Identifier(); err != nil {
		return zero, Meta{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[ref]
	if !ok {
		return zero, Meta{}, false, nil
	}
	return record.snapshot, record.meta.clone(), true, nil
}

func (s *MemoryStore[T]) Save(_ context.Context, ref Ref, snapshot T, meta Meta) (Meta, error) {
	if _, err := ref.Identifier(); err != nil {
		return Meta{}, err
	}
	meta = meta.clone()
	if meta.SnapshotID == "" {
		meta.SnapshotID = uuid.NewString()
	}
	meta.UpdatedAt = s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records == nil {
		s.records = map[Ref]memoryRecord[T]{}
	}
	s.records[ref] = memoryRecord[T]{snapshot: snapshot, meta: meta}
	return meta.clone(), nil
}

// Delete drops the snapshot for ref and reports whether one existed.
func (s *MemoryStore[T]) Delete(_ context.Context, ref Ref) (bool, error) {
	if _, err := ref.Identifier(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[ref]
	delete(s.records, ref)
	return ok, nil
}

// Scopes lists the scopes holding a snapshot for domain, ordered by
// identifier.
func (s *MemoryStore[T]) Scopes(domain string) []Scope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var scopes []Scope
	for ref := range s.records {
		if ref.Domain == domain {
			scopes = append(scopes, ref.Scope)
		}
	}
	sort.Slice(scopes, func(i, j int) bool {
		return scopes[i].String() < scopes[j].String()
	})
	return scopes
}

func (s *MemoryStore[T]) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (m Meta) clone() Meta {
	if m.Extra == nil {
		return m
	}
	extra := make(map[string]string, len(m.Extra))
	for k, v := range m.Extra {
		extra[k] = v
	}
	m.Extra = extra
	return m
}
