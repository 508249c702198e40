package gnuplot

import (
	"context"
	"testing"

	"github.com/goliatone/go-gnuplot/pkg/activity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlot(t *testing.T, opts ...Option) *Plot {
	t.Helper()
	base := []Option{WithDatasets(
		NewFormula("sin(x)", KV("title", "Sin")),
		NewFormula("cos(x)", KV("title", "Cos")),
		NewFileDataset("data.csv", KV("title", "Data")),
	)}
	p, err := NewPlot(append(base, opts...)...)
	require.NoError(t, err)
	return p
}

func titles(p *Plot) []string {
	out := make([]string, 0, p.Len())
	for _, ds := range p.Datasets() {
		title, _ := ds.Option("title")
		out = append(out, title.String())
	}
	return out
}

func TestNewPlotCopiesDatasets(t *testing.T) {
	ds := NewFormula("x")
	p, err := NewPlot(WithDatasets(ds, nil))
	require.NoError(t, err)
	require.Equal(t, 1, p.Len())
	assert.NotSame(t, ds, p.Dataset(0))

	ds.Apply(KV("title", "changed"))
	_, ok := p.Dataset(0).Option("title")
	assert.False(t, ok, "plot must not share the caller's dataset")
}

func TestPlotReads(t *testing.T) {
	p := newTestPlot(t)
	assert.Same(t, p.Dataset(2), p.Dataset(Last))
	assert.Same(t, p.Dataset(0), p.Dataset(-3))
	assert.Nil(t, p.Dataset(3))
	assert.Nil(t, p.Dataset(-4))

	slice := p.DatasetSlice(1, 3)
	require.Len(t, slice, 2)
	assert.Same(t, p.Dataset(1), slice[0])
	assert.Len(t, p.DatasetSlice(-2, 3), 2)
	assert.Empty(t, p.DatasetSlice(2, 1))

	all := p.Datasets()
	all[0] = nil
	assert.NotNil(t, p.Dataset(0))
}

func TestAddDatasets(t *testing.T) {
	p := newTestPlot(t)
	added := p.AddDatasets(Last, NewFormula("tan(x)", KV("title", "Tan")))

	require.NotSame(t, p, added)
	assert.Equal(t, []string{"Sin", "Cos", "Data"}, titles(p))
	assert.Equal(t, []string{"Sin", "Cos", "Data", "Tan"}, titles(added))
	for i := 0; i < p.Len(); i++ {
		assert.NotSame(t, p.Dataset(i), added.Dataset(i))
	}

	front := p.AddDatasets(0, NewFormula("a", KV("title", "A")), NewFormula("b", KV("title", "B")))
	assert.Equal(t, []string{"A", "B", "Sin", "Cos", "Data"}, titles(front))

	assert.Same(t, p, p.AddDatasets(Last))
	assert.Same(t, p, p.AddDatasets(10, NewFormula("x")))
}

func TestAddDatasetsInPlace(t *testing.T) {
	p := newTestPlot(t)
	ds := NewFormula("tan(x)", KV("title", "Tan"))
	got := p.AddDatasetsInPlace(1, ds)
	require.Same(t, p, got)
	assert.Equal(t, []string{"Sin", "Tan", "Cos", "Data"}, titles(p))
	assert.NotSame(t, ds, p.Dataset(1))
}

func TestRemoveDatasetPreservesOrder(t *testing.T) {
	p := newTestPlot(t)
	removed := p.RemoveDataset(1)
	require.NotSame(t, p, removed)
	assert.Equal(t, []string{"Sin", "Data"}, titles(removed))
	assert.Nil(t, removed.Dataset(2))
	assert.Equal(t, 3, p.Len())

	last := p.RemoveDataset(Last)
	assert.Equal(t, []string{"Sin", "Cos"}, titles(last))

	assert.Same(t, p, p.RemoveDataset(5))

	p.RemoveDatasetInPlace(0)
	assert.Equal(t, []string{"Cos", "Data"}, titles(p))
	assert.Same(t, p, p.RemoveDatasetInPlace(7))
	assert.Equal(t, 2, p.Len())
}

func TestReplaceDataset(t *testing.T) {
	p := newTestPlot(t)
	replacement := NewFileDataset("other.csv", KV("title", "Other"))
	replaced := p.ReplaceDataset(Last, replacement)

	assert.Equal(t, []string{"Sin", "Cos", "Other"}, titles(replaced))
	assert.Equal(t, "'other.csv' title \"Other\"", replaced.Dataset(Last).String())
	assert.Equal(t, []string{"Sin", "Cos", "Data"}, titles(p))
	assert.Same(t, p, p.ReplaceDataset(3, replacement))

	p.SetDataset(0, replacement)
	assert.Equal(t, []string{"Other", "Cos", "Data"}, titles(p))
	assert.NotSame(t, replacement, p.Dataset(0))
}

func TestUpdateDatasetWithNothingReturnsReceiver(t *testing.T) {
	p := newTestPlot(t)
	for _, pos := range []int{0, 1, Last, 10} {
		got, err := p.UpdateDataset(pos, nil)
		require.NoError(t, err)
		assert.Same(t, p, got)
	}
	got, err := p.UpdateDatasetInPlace(0, nil)
	require.NoError(t, err)
	assert.Same(t, p, got)
}

func TestUpdateDatasetIgnoresDataForFormulaAndFile(t *testing.T) {
	p := newTestPlot(t)
	before := p.PlotCommand()
	for _, pos := range []int{0, Last} {
		got, err := p.UpdateDataset(pos, ColumnsOf([]int{1, 2}))
		require.NoError(t, err)
		assert.Same(t, p, got)
	}
	assert.Equal(t, before, p.PlotCommand())
}

func TestUpdateDatasetOptionsOnly(t *testing.T) {
	p := newTestPlot(t)
	got, err := p.UpdateDataset(0, nil, KV("title", "Sine"))
	require.NoError(t, err)
	require.NotSame(t, p, got)
	assert.Equal(t, []string{"Sine", "Cos", "Data"}, titles(got))
	assert.Equal(t, []string{"Sin", "Cos", "Data"}, titles(p))
}

func TestUpdateDatasetPointsBuildsNewPlot(t *testing.T) {
	p, err := NewPlot(WithDatasets(NewPointsDataset(ColumnsOf([]int{1, 2}, []int{1, 4}))))
	require.NoError(t, err)
	original := p.Dataset(0)

	got, err := p.UpdateDataset(Last, ColumnsOf([]int{3}, []int{9}))
	require.NoError(t, err)

	require.NotSame(t, p, got)
	assert.NotEqual(t, p.Dataset(0).String(), got.Dataset(0).String())
	assert.Same(t, original, p.Dataset(0))
	assert.Equal(t, 3, got.Dataset(0).Source().(*Points).Columns().Rows())
}

func TestUpdateDatasetTempBlockKeepsIdentity(t *testing.T) {
	manager := &memoryBlocks{}
	p, err := NewPlot(
		WithBlockManager(manager),
		WithDatasets(NewPointsDataset(ColumnsOf([]int{1, 2}), KV("file", true), KV("title", "t"))),
	)
	require.NoError(t, err)
	require.Len(t, manager.created, 1)
	before, err := p.Script()
	require.NoError(t, err)

	got, err := p.UpdateDataset(Last, ColumnsOf([]int{3}))
	require.NoError(t, err)
	require.Same(t, p, got)

	after, err := got.Script()
	require.NoError(t, err)
	again, err := p.Script()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, after, again)
	assert.Equal(t, "1\n2\n3\n", manager.created[0].Data().Format())
}

func TestFileOptionWithoutManagerStaysInline(t *testing.T) {
	p, err := NewPlot(WithDatasets(NewPointsDataset(ColumnsOf([]int{1}), KV("file", true))))
	require.NoError(t, err)
	assert.Equal(t, SourcePoints, p.Dataset(0).Source().Kind())
}

func TestUpdateDatasetInPlace(t *testing.T) {
	p, err := NewPlot(WithDatasets(NewPointsDataset(ColumnsOf([]int{1}))))
	require.NoError(t, err)
	ds := p.Dataset(0)
	name := ds.Source().Reference()

	got, err := p.UpdateDatasetInPlace(0, ColumnsOf([]int{2}), KV("title", "t"))
	require.NoError(t, err)
	require.Same(t, p, got)
	assert.Same(t, ds, p.Dataset(0))
	assert.NotEqual(t, name, p.Dataset(0).Source().Reference())
}

func TestNonDestructiveOpsDoNotShareDatasets(t *testing.T) {
	p := newTestPlot(t)
	next := p.With(KV("grid", true))
	next.Dataset(0).Apply(KV("title", "changed"))
	assert.Equal(t, []string{"Sin", "Cos", "Data"}, titles(p))
	assert.NotEqual(t, p.ID(), next.ID())
}

func TestSplotCommand(t *testing.T) {
	p, err := NewSplot(WithDatasets(NewFormula("x*y")))
	require.NoError(t, err)
	assert.Equal(t, CommandSplot, p.Command())
	assert.Equal(t, "splot x*y", p.String())
	assert.Equal(t, CommandSplot, p.With(KV("grid", true)).Command())
}

func TestInPlaceOperationsEmitActivity(t *testing.T) {
	capture := &activity.CaptureHook{}
	failing := activity.HookFunc(func(context.Context, activity.Event) error {
		return assert.AnError
	})
	p := newTestPlot(t,
		WithActivityHooks(activity.Hooks{capture, failing, nil}),
		WithActivityIdentity(ActivityIdentity{ActorID: "actor-1"}),
	)

	p.Apply(KV("title", "Sales"))
	p.AddDatasetsInPlace(Last, NewFormula("tan(x)"))
	p.ReplaceDatasetInPlace(0, NewFormula("x"))
	_, err := p.UpdateDatasetInPlace(1, nil, KV("lw", 2))
	require.NoError(t, err)
	p.RemoveDatasetInPlace(Last)

	// Non-destructive forms stay silent.
	p.With(KV("grid", true)).AddDatasets(Last, NewFormula("y"))

	require.Len(t, capture.Events, 5)
	verbs := make([]string, len(capture.Events))
	for i, event := range capture.Events {
		verbs[i] = event.Verb
		assert.Equal(t, "gnuplot", event.Channel)
		assert.Equal(t, "actor-1", event.ActorID)
		assert.Equal(t, p.ID(), event.ObjectID)
	}
	assert.Equal(t, []string{
		activity.VerbOptionsApplied,
		activity.VerbDatasetAdded,
		activity.VerbDatasetReplaced,
		activity.VerbDatasetUpdated,
		activity.VerbDatasetRemoved,
	}, verbs)
	assert.Equal(t, []string{"title"}, capture.Events[0].Metadata["keys"])
	assert.Equal(t, "plot", capture.Events[0].ObjectType)
}

func TestZeroPlotIsUsable(t *testing.T) {
	var p Plot
	assert.Same(t, &p, p.Apply(KV("title", "Zero")))
	p.AddDatasetsInPlace(Last, NewFormula("x"))
	p.SetOptionInPlace("grid", true)
	assert.Equal(t, CommandPlot, p.Command())

	got, err := p.Script()
	require.NoError(t, err)
	assert.Equal(t, "set title \"Zero\"\nset grid\nplot x\n", got)

	derived := p.With(KV("key", false))
	got, err = derived.Script()
	require.NoError(t, err)
	assert.Equal(t, "set title \"Zero\"\nset grid\nunset key\nplot x\n", got)
}
