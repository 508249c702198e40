package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-gnuplot/layering"
)

var ErrNotFound = errors.New("state: no presets found")

var ErrETagMismatch = errors.New("state: etag mismatch")

// Scope names.
const (
	ScopeSystem  = "system"
	ScopeProject = "project"
	ScopeUser    = "user"
)

// Scope selects whose presets are read. ID is empty for the system scope.
type Scope struct {
	Name string
	ID   string
}

// System is the scope shared by everyone.
func System() Scope { return Scope{Name: ScopeSystem} }

// Project is the scope of one project.
func Project(id string) Scope { return Scope{Name: ScopeProject, ID: id} }

// User is the scope of one user.
func User(id string) Scope { return Scope{Name: ScopeUser, ID: id} }

func (s Scope) String() string {
	if s.ID == "" {
		return s.Name
	}
	return s.Name + "/" + s.ID
}

// Ref identifies one persisted snapshot for one preset domain.
type Ref struct {
	Domain string
	Scope  Scope
}

// Meta is storage-owned metadata used for audit and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads and saves one snapshot for a single reference.
type Store[T any] interface {
	Load(ctx context.Context, ref Ref) (snapshot T, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, snapshot T, meta Meta) (Meta, error)
}

// Resolver merges the presets of several scopes. Validate, when set, checks
// every merged result and every snapshot saved through Mutate.
type Resolver[T layering.Merger[T]] struct {
	Store    Store[T]
	Validate func(T) error
}

// Mutator derives a new snapshot from the current one.
type Mutator[T any] func(current T) (T, error)

func (r Ref) Identifier() (string, error) {
	if r.Domain == "" {
		return "", fmt.Errorf("state: domain is required")
	}
	switch r.Scope.Name {
	case ScopeSystem:
		return fmt.Sprintf("system/%s", r.Domain), nil
	case ScopeProject, ScopeUser:
		if r.Scope.ID == "" {
			return "", fmt.Errorf("state: scope %q requires an id", r.Scope.Name)
		}
		return fmt.Sprintf("%s/%s/%s", r.Scope.Name, r.Scope.ID, r.Domain), nil
	default:
		return "", fmt.Errorf("state: unsupported scope name %q", r.Scope.Name)
	}
}

// Resolve loads domain for each scope, strongest first, and merges what it
// finds. Missing scopes are skipped; ErrNotFound is returned when none exist.
func (r Resolver[T]) Resolve(ctx context.Context, domain string, scopes ...Scope) (T, error) {
	var zero T
	if r.Store == nil {
		return zero, fmt.Errorf("state: store is required")
	}
	if len(scopes) == 0 {
		return zero, fmt.Errorf("state: at least one scope is required")
	}

	layers := make([]T, 0, len(scopes))
	for _, scope := range scopes {
		snapshot, _, ok, err := r.Store.Load(ctx, Ref{Domain: domain, Scope: scope})
		if err != nil {
			return zero, fmt.Errorf("state: load %q for scope %q: %w", domain, scope, err)
		}
		if ok {
			layers = append(layers, snapshot)
		}
	}
	if len(layers) == 0 {
		return zero, fmt.Errorf("%w for domain %q", ErrNotFound, domain)
	}
	merged := layering.MergeLayers(layers...)
	if r.Validate != nil {
		if err := r.Validate(merged); err != nil {
			return zero, fmt.Errorf("state: resolve %q: %w", domain, err)
		}
	}
	return merged, nil
}

// Mutate loads one snapshot, applies fn, validates and saves the result. A
// non-empty meta.ETag must match the stored one.
func (r Resolver[T]) Mutate(ctx context.Context, ref Ref, meta Meta, fn Mutator[T]) (T, Meta, error) {
	var zero T
	if r.Store == nil {
		return zero, Meta{}, fmt.Errorf("state: store is required")
	}
	if fn == nil {
		return zero, Meta{}, fmt.Errorf("state: mutator is required")
	}
	if _, err := ref.Identifier(); err != nil {
		return zero, Meta{}, err
	}

	snapshot, loadedMeta, ok, err := r.Store.Load(ctx, ref)
	if err != nil {
		return zero, Meta{}, fmt.Errorf("state: load %q for scope %q: %w", ref.Domain, ref.Scope, err)
	}
	if !ok {
		snapshot = zero
		loadedMeta = Meta{}
	}

	if meta.ETag != "" && loadedMeta.ETag != "" && meta.ETag != loadedMeta.ETag {
		return zero, loadedMeta, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, loadedMeta.ETag)
	}

	next, err := fn(snapshot)
	if err != nil {
		return zero, loadedMeta, err
	}
	if r.Validate != nil {
		if err := r.Validate(next); err != nil {
			return zero, loadedMeta, err
		}
	}

	savedMeta, err := r.Store.Save(ctx, ref, next, mergeMeta(loadedMeta, meta))
	if err != nil {
		return zero, loadedMeta, fmt.Errorf("state: save %q for scope %q: %w", ref.Domain, ref.Scope, err)
	}
	return next, savedMeta, nil
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.SnapshotID != "" {
		out.SnapshotID = override.SnapshotID
	}
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}
