package layering

// Merger is implemented by immutable option sets that can take a stronger
// set on top of themselves.
type Merger[T any] interface {
	MergeStore(stronger T) T
}

// MergeLayers composes option sets ordered from strongest to weakest,
// returning a value that keeps explicit settings from stronger layers while
// filling any missing keys from weaker ones. Inputs are never modified.
func MergeLayers[T Merger[T]](layers ...T) T {
	var zero T
	if len(layers) == 0 {
		return zero
	}
	merged := layers[len(layers)-1]
	for i := len(layers) - 2; i >= 0; i-- {
		merged = merged.MergeStore(layers[i])
	}
	return merged
}
