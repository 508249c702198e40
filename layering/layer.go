package layering

import (
	"slices"
	"strings"
)

// Level identifies the precedence of a layer. Higher levels override lower
// levels when layering.
type Level int

const (
	// LevelUnknown guards against misconfiguration; such layers are dropped.
	LevelUnknown Level = iota
	// LevelDefaults holds options configured for every render.
	LevelDefaults
	// LevelEntity holds the options stored on the entity itself.
	LevelEntity
	// LevelCall holds options passed for one render only.
	LevelCall
)

func (l Level) String() string {
	switch l {
	case LevelDefaults:
		return "defaults"
	case LevelEntity:
		return "entity"
	case LevelCall:
		return "call"
	default:
		return "unknown"
	}
}

// ParseLevel converts a name into its Level, LevelUnknown when unrecognised.
func ParseLevel(value string) Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "defaults":
		return LevelDefaults
	case "entity":
		return LevelEntity
	case "call":
		return LevelCall
	default:
		return LevelUnknown
	}
}

// Layer is one named option set within a chain.
type Layer[T any] struct {
	Level Level
	Name  string
	Value T
}

// Chain is an ordered layering sequence from strongest to weakest.
type Chain[T Merger[T]] struct {
	ordered []Layer[T]
}

// NewChain drops unknown layers and orders the rest from strongest to
// weakest, keeping the given order among peers.
func NewChain[T Merger[T]](layers ...Layer[T]) Chain[T] {
	filtered := make([]Layer[T], 0, len(layers))
	for _, layer := range layers {
		if layer.Level == LevelUnknown {
			continue
		}
		filtered = append(filtered, layer)
	}
	slices.SortStableFunc(filtered, func(a, b Layer[T]) int {
		return int(b.Level) - int(a.Level)
	})
	return Chain[T]{ordered: filtered}
}

// Ordered returns the layers from strongest (index 0) to weakest.
func (c Chain[T]) Ordered() []Layer[T] {
	out := make([]Layer[T], len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Strongest returns the first layer in the chain (zero layer if empty).
func (c Chain[T]) Strongest() Layer[T] {
	if len(c.ordered) == 0 {
		return Layer[T]{}
	}
	return c.ordered[0]
}

// Weakest returns the final layer in the chain (zero layer if empty).
func (c Chain[T]) Weakest() Layer[T] {
	if len(c.ordered) == 0 {
		return Layer[T]{}
	}
	return c.ordered[len(c.ordered)-1]
}

// Merge composes every layer of the chain.
func (c Chain[T]) Merge() T {
	values := make([]T, len(c.ordered))
	for i, layer := range c.ordered {
		values[i] = layer.Value
	}
	return MergeLayers(values...)
}
