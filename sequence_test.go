package gnuplot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertAt(t *testing.T) {
	items := []string{"a", "b"}

	got, ok := insertAt(items, Last, "c")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, got)

	got, ok = insertAt(items, 0, "x", "y")
	assert.True(t, ok)
	assert.Equal(t, []string{"x", "y", "a", "b"}, got)

	got, ok = insertAt(items, -2, "m")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "m", "b"}, got)

	_, ok = insertAt(items, 5, "z")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b"}, items, "input must not change")
}

func TestRemoveAndReplaceAt(t *testing.T) {
	items := []int{1, 2, 3}

	got, ok := removeAt(items, Last)
	assert.True(t, ok)
	assert.Equal(t, []int{1, 2}, got)

	got, ok = removeAt(items, 0)
	assert.True(t, ok)
	assert.Equal(t, []int{2, 3}, got)

	_, ok = removeAt(items, 3)
	assert.False(t, ok)

	got, ok = replaceAt(items, -3, 9)
	assert.True(t, ok)
	assert.Equal(t, []int{9, 2, 3}, got)
	assert.Equal(t, []int{1, 2, 3}, items)

	_, ok = replaceAt([]int{}, Last, 1)
	assert.False(t, ok)
}

func TestSliceRange(t *testing.T) {
	items := []int{1, 2, 3, 4}
	assert.Equal(t, []int{2, 3}, sliceRange(items, 1, 3))
	assert.Equal(t, []int{1, 2, 3}, sliceRange(items, 0, -1))
	assert.Equal(t, []int{3, 4}, sliceRange(items, -2, 10))
	assert.Equal(t, []int{}, sliceRange(items, 3, 1))

	v, ok := elementAt(items, -1)
	assert.True(t, ok)
	assert.Equal(t, 4, v)
	_, ok = elementAt(items, 4)
	assert.False(t, ok)
}
