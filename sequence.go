package gnuplot

// Last addresses the end of a sequence: insertion after the last element, or
// the last element itself for remove, replace and update. Other negative
// positions count from the end the same way.
const Last = -1

func elementIndex(pos, n int) (int, bool) {
	if pos < 0 {
		pos += n
	}
	return pos, pos >= 0 && pos < n
}

func insertionIndex(pos, n int) (int, bool) {
	if pos < 0 {
		pos += n + 1
	}
	return pos, pos >= 0 && pos <= n
}

// insertAt returns a new slice with values inserted before pos.
func insertAt[T any](items []T, pos int, values ...T) ([]T, bool) {
	i, ok := insertionIndex(pos, len(items))
	if !ok {
		return items, false
	}
	out := make([]T, 0, len(items)+len(values))
	out = append(out, items[:i]...)
	out = append(out, values...)
	out = append(out, items[i:]...)
	return out, true
}

// removeAt returns a new slice without the element at pos.
func removeAt[T any](items []T, pos int) ([]T, bool) {
	i, ok := elementIndex(pos, len(items))
	if !ok {
		return items, false
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	out = append(out, items[i+1:]...)
	return out, true
}

// replaceAt returns a new slice with the element at pos swapped for value.
func replaceAt[T any](items []T, pos int, value T) ([]T, bool) {
	i, ok := elementIndex(pos, len(items))
	if !ok {
		return items, false
	}
	out := make([]T, len(items))
	copy(out, items)
	out[i] = value
	return out, true
}

// elementAt returns the element at pos, or the zero value.
func elementAt[T any](items []T, pos int) (T, bool) {
	i, ok := elementIndex(pos, len(items))
	if !ok {
		var zero T
		return zero, false
	}
	return items[i], true
}

// sliceRange copies the half-open range [from, to). Negative bounds count
// from the end; bounds are clamped to the slice.
func sliceRange[T any](items []T, from, to int) []T {
	n := len(items)
	if from < 0 {
		from += n
	}
	if to < 0 {
		to += n
	}
	from = max(0, min(from, n))
	to = max(0, min(to, n))
	if from >= to {
		return []T{}
	}
	out := make([]T, to-from)
	copy(out, items[from:to])
	return out
}
