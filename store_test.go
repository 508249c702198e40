package gnuplot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroStoreIsEmpty(t *testing.T) {
	var s Store
	assert.True(t, s.IsEmpty())
	_, ok := s.Get("title")
	assert.False(t, ok)
	assert.Empty(t, s.Keys())
	assert.Equal(t, "", s.String())
}

func TestStoreMergeIsPersistent(t *testing.T) {
	base := NewStore(KV("title", "A"), KV("grid", true))
	next := base.Merge(KV("title", "B"), KV("xrange", RangeOf(0, 1)))

	title, _ := base.Get("title")
	assert.Equal(t, "A", title.String())
	assert.Equal(t, 2, base.Len())

	title, _ = next.Get("title")
	assert.Equal(t, "B", title.String())
	assert.Equal(t, []string{"title", "grid", "xrange"}, next.Keys())
}

func TestStoreMergeWithoutPairsReturnsSameStore(t *testing.T) {
	base := NewStore(KV("title", "A"))
	same := base.Merge()
	assert.Equal(t, base.entries, same.entries)
	assert.Equal(t, base.order, same.order)
}

func TestStoreEqualityIgnoresOrder(t *testing.T) {
	a := NewStore(KV("a", 1), KV("b", 2))
	b := NewStore(KV("b", 2), KV("a", 1))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(b.Merge(KV("a", 3))))
	assert.False(t, a.Equal(b.Merge(KV("c", 3))))
}

func TestStoreDelete(t *testing.T) {
	s := NewStore(KV("a", 1), KV("b", 2), KV("c", 3))
	out := s.Delete("b")
	assert.Equal(t, []string{"a", "c"}, out.Keys())
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 2, out.Delete("missing").Len())
}

func TestStoreMergeStore(t *testing.T) {
	weak := NewStore(KV("a", 1), KV("b", 1))
	strong := NewStore(KV("b", 2), KV("c", 2))
	merged := weak.MergeStore(strong)
	assert.Equal(t, []string{"a", "b", "c"}, merged.Keys())
	b, _ := merged.Get("b")
	n, _ := b.Int()
	assert.Equal(t, int64(2), n)
	assert.True(t, Store{}.MergeStore(strong).Equal(strong))
}

func TestStoreSnapshotAndString(t *testing.T) {
	s := NewStore(KV("title", "Sales"), KV("xrange", RangeOf(0, 10)), KV("grid", true))
	snap := s.Snapshot()
	require.Equal(t, "Sales", snap["title"])
	require.Equal(t, true, snap["grid"])
	assert.Equal(t, `title "Sales" xrange [0:10] grid `, s.String())
}

func TestStoreDeleteThenMergeAppends(t *testing.T) {
	base := NewStore(KV("a", 1), KV("b", 2), KV("c", 3))
	out := base.Delete("a").Merge(KV("a", 4), KV("d", 5))
	assert.Equal(t, []string{"b", "c", "a", "d"}, out.Keys())
	assert.Equal(t, []string{"a", "b", "c"}, base.Keys())
	a, _ := out.Get("a")
	n, _ := a.Int()
	assert.Equal(t, int64(4), n)
}
