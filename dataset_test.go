package gnuplot

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryBlock is an in-memory BlockHandle.
type memoryBlock struct {
	id       string
	data     Columns
	rewrites int
	err      error
}

func (b *memoryBlock) ID() string    { return b.id }
func (b *memoryBlock) Ref() string   { return "'" + b.id + ".dat'" }
func (b *memoryBlock) Data() Columns { return b.data.clone() }
func (b *memoryBlock) Rewrite(data Columns) error {
	if b.err != nil {
		return b.err
	}
	b.rewrites++
	b.data = data.clone()
	return nil
}

type memoryBlocks struct {
	created []*memoryBlock
}

func (m *memoryBlocks) Materialize(data Columns) (BlockHandle, error) {
	block := &memoryBlock{id: "block" + string(rune('0'+len(m.created))), data: data.clone()}
	m.created = append(m.created, block)
	return block, nil
}

func TestDatasetString(t *testing.T) {
	ds := NewFormula("sin(x)", KV("with", "lines"), KV("title", "Sin"), KV("using", "1:2"))
	assert.Equal(t, `sin(x) using 1:2 title "Sin" with lines`, ds.String())

	file := NewFileDataset("data.csv", KV("file", true), KV("notitle", true))
	assert.Equal(t, "'data.csv' notitle", file.String())
}

func TestPointsDeclaration(t *testing.T) {
	ds := NewPointsDataset(ColumnsOf([]int{1, 2}, []float64{1, 4}))
	points := ds.Source().(*Points)
	assert.True(t, strings.HasPrefix(points.Reference(), "$DATA_"))
	assert.Len(t, points.Reference(), len("$DATA_")+16)
	assert.Equal(t, points.Reference()+" << EOD\n1 1.0\n2 4.0\nEOD\n", points.Declaration())
	assert.Equal(t, points.Reference(), ds.String())
}

func TestColumnsFormatQuotesText(t *testing.T) {
	cols := ColumnsOf([]string{"a b", "c"}, []int{1, 2})
	assert.Equal(t, "\"a b\" 1\nc 2\n", cols.Format())
	ragged := Columns{{Int(1), Int(2)}, {Int(3)}}
	assert.Equal(t, "1 3\n2\n", ragged.Format())
}

func TestColumnsFormatKeepsColumnPositions(t *testing.T) {
	cols := Columns{{Int(1), Int(2)}, {Int(3)}, {Int(5), Int(6)}}
	assert.Equal(t, "1 3 5\n2 NaN 6\n", cols.Format())

	short := Columns{{Int(1)}, {Int(3), Int(4)}}
	assert.Equal(t, "1 3\nNaN 4\n", short.Format())
}

func TestFileReferenceEscapesQuotes(t *testing.T) {
	assert.Equal(t, "'sales.csv'", File("sales.csv").Reference())
	assert.Equal(t, "'it''s.dat'", File("it's.dat").Reference())
	assert.Equal(t, "'it''s.dat' title \"It\"", NewFileDataset("it's.dat", KV("title", "It")).String())
}

func TestColumnsOfNested(t *testing.T) {
	cols := ColumnsOf([][]int{{1, 2}, {3, 4}})
	require.Len(t, cols, 2)
	assert.Equal(t, 2, cols.Rows())
}

func TestDatasetUpdateWithoutChangesReturnsReceiver(t *testing.T) {
	ds := NewPointsDataset(ColumnsOf([]int{1}))
	got, err := ds.Update(nil)
	require.NoError(t, err)
	assert.Same(t, ds, got)
}

func TestDatasetUpdateIgnoresDataForFormulaAndFile(t *testing.T) {
	for _, ds := range []*Dataset{NewFormula("x"), NewFileDataset("a.dat")} {
		got, err := ds.Update(ColumnsOf([]int{1}))
		require.NoError(t, err)
		assert.Same(t, ds, got)
		assert.False(t, ds.Updatable())

		withTitle, err := ds.Update(ColumnsOf([]int{1}), KV("title", "t"))
		require.NoError(t, err)
		assert.NotSame(t, ds, withTitle)
		assert.Equal(t, ds.Source(), withTitle.Source())
	}
}

func TestDatasetUpdatePointsBuildsNewDataset(t *testing.T) {
	ds := NewPointsDataset(ColumnsOf([]int{1, 2}), KV("title", "p"))
	got, err := ds.Update(ColumnsOf([]int{3}))
	require.NoError(t, err)

	require.NotSame(t, ds, got)
	assert.NotEqual(t, ds.String(), got.String())
	assert.Equal(t, 2, ds.Source().(*Points).Columns().Rows())
	assert.Equal(t, 3, got.Source().(*Points).Columns().Rows())
	assert.True(t, got.Options().Equal(ds.Options()))
}

func TestDatasetUpdateBlockRewritesInPlace(t *testing.T) {
	block := &memoryBlock{id: "b", data: ColumnsOf([]int{1})}
	ds := NewDataset(NewBlock(block))

	got, err := ds.Update(ColumnsOf([]int{2}))
	require.NoError(t, err)
	assert.Same(t, ds, got)
	assert.Equal(t, 1, block.rewrites)
	assert.Equal(t, "1\n2\n", block.Data().Format())
}

func TestDatasetUpdateBlockError(t *testing.T) {
	boom := errors.New("disk full")
	ds := NewDataset(NewBlock(&memoryBlock{id: "b", err: boom}))
	got, err := ds.Update(ColumnsOf([]int{2}))
	assert.Same(t, ds, got)
	assert.ErrorIs(t, err, boom)
}

func TestDatasetUpdateInPlace(t *testing.T) {
	ds := NewPointsDataset(ColumnsOf([]int{1}))
	name := ds.Source().Reference()
	got, err := ds.UpdateInPlace(ColumnsOf([]int{2}), KV("title", "t"))
	require.NoError(t, err)
	assert.Same(t, ds, got)
	assert.NotEqual(t, name, ds.Source().Reference())
	_, ok := ds.Option("title")
	assert.True(t, ok)
}

func TestDatasetMaterialize(t *testing.T) {
	manager := &memoryBlocks{}
	ds := NewPointsDataset(ColumnsOf([]int{1, 2}), KV("title", "p"))
	got, err := ds.Materialize(manager)
	require.NoError(t, err)

	require.Len(t, manager.created, 1)
	assert.Equal(t, SourceBlock, got.Source().Kind())
	assert.Equal(t, `'block0.dat' title "p"`, got.String())
	assert.Equal(t, "", got.declaration())

	formula := NewFormula("x")
	same, err := formula.Materialize(manager)
	require.NoError(t, err)
	assert.Same(t, formula, same)
}
