package gnuplot

import (
	"strings"

	"github.com/goliatone/go-gnuplot/pkg/activity"
	"github.com/google/uuid"
)

// Plot commands.
const (
	CommandPlot  = "plot"
	CommandSplot = "splot"
)

// Plot is an ordered collection of datasets drawn by one plot or splot
// command, plus the options set before it.
//
// Every collection operation comes in two forms. The plain form returns a new
// plot and leaves the receiver alone; the InPlace form changes the receiver
// and returns it. A plot owns its datasets: anything added is copied, and
// derived plots never share a *Dataset with their source.
type Plot struct {
	OptionHandling[*Plot]
	id       string
	command  string
	datasets []*Dataset
	cfg      *entityConfig
}

// NewPlot builds a 2D plot.
//
//	p, err := gnuplot.NewPlot(
//		gnuplot.WithDatasets(gnuplot.NewFormula("sin(x)", gnuplot.KV("title", "Sin"))),
//		gnuplot.WithOptions(gnuplot.KV("xrange", gnuplot.RangeOf(-10, 10))),
//	)
//
// Points datasets carrying `file: true` are moved into backing blocks when a
// block manager is configured.
func NewPlot(opts ...Option) (*Plot, error) {
	return newPlot(CommandPlot, opts)
}

// NewSplot builds a 3D plot.
func NewSplot(opts ...Option) (*Plot, error) {
	return newPlot(CommandSplot, opts)
}

func newPlot(command string, opts []Option) (*Plot, error) {
	cfg := applyOptions(opts)
	seed := cfg.takeSeed()
	p := &Plot{id: newEntityID(), command: command, cfg: &cfg}
	p.options = seed.options
	datasets := make([]*Dataset, 0, len(seed.datasets))
	for _, ds := range seed.datasets {
		if ds == nil {
			continue
		}
		ds, err := p.materialize(ds)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, ds.clone())
	}
	p.datasets = datasets
	return p, nil
}

func newEntityID() string {
	return uuid.NewString()
}

func (p *Plot) materialize(ds *Dataset) (*Dataset, error) {
	if !ds.wantsFile() {
		return ds, nil
	}
	if p.cfg.blocks == nil {
		p.cfg.log().Debug("gnuplot dataset kept inline, no block manager configured",
			"plot", p.id,
			"source", ds.Source().Kind().String(),
		)
		return ds, nil
	}
	return ds.Materialize(p.cfg.blocks)
}

// NewWithOptions implements Configurable. Datasets are copied.
func (p *Plot) NewWithOptions(options Store) *Plot {
	return p.rebuild(p.datasets, options)
}

func (p *Plot) rebuild(datasets []*Dataset, options Store) *Plot {
	out := &Plot{
		id:       newEntityID(),
		command:  p.Command(),
		datasets: cloneDatasets(datasets),
		cfg:      p.cfg,
	}
	out.options = options
	return out
}

func cloneDatasets(datasets []*Dataset) []*Dataset {
	out := make([]*Dataset, len(datasets))
	for i, ds := range datasets {
		out[i] = ds.clone()
	}
	return out
}

// ID identifies the plot in activity events. Every derived plot gets a new
// one.
func (p *Plot) ID() string { return p.id }

// Command is "plot" or "splot". A zero-value Plot plots.
func (p *Plot) Command() string {
	if p.command == "" {
		return CommandPlot
	}
	return p.command
}

// Options returns the option store.
func (p *Plot) Options() Store { return p.OptionStore() }

// With returns a plot with pairs merged in, or p when pairs is empty.
func (p *Plot) With(pairs ...Pair) *Plot { return With(p, pairs...) }

// Apply merges pairs into p and returns p.
func (p *Plot) Apply(pairs ...Pair) *Plot { return Apply(p, pairs...) }

// Option reads a single option.
func (p *Plot) Option(key string) (Value, bool) { return Get(p, key) }

// SetOption returns a plot with key assigned to values.
func (p *Plot) SetOption(key string, values ...any) *Plot { return Set(p, key, values...) }

// SetOptionInPlace assigns key on p and returns p.
func (p *Plot) SetOptionInPlace(key string, values ...any) *Plot {
	return SetInPlace(p, key, values...)
}

func (p *Plot) optionsApplied(before, after Store) {
	input := p.cfg.entityEvent(p.Command(), p.id)
	input.Keys = changedKeys(before, after)
	p.cfg.emit(activity.BuildOptionsAppliedEvent(input))
}

// Len is the number of datasets.
func (p *Plot) Len() int { return len(p.datasets) }

// Datasets returns the datasets in order. The slice is new; the datasets are
// the plot's own.
func (p *Plot) Datasets() []*Dataset {
	out := make([]*Dataset, len(p.datasets))
	copy(out, p.datasets)
	return out
}

// Dataset returns the dataset at pos, or nil when pos is out of range.
func (p *Plot) Dataset(pos int) *Dataset {
	ds, _ := elementAt(p.datasets, pos)
	return ds
}

// DatasetSlice returns the datasets in [from, to). Negative bounds count from
// the end.
func (p *Plot) DatasetSlice(from, to int) []*Dataset {
	return sliceRange(p.datasets, from, to)
}

// SetDataset is ReplaceDatasetInPlace.
func (p *Plot) SetDataset(pos int, ds *Dataset) *Plot {
	return p.ReplaceDatasetInPlace(pos, ds)
}

// AddDatasets returns a plot with datasets inserted before pos; Last appends.
// An out-of-range position returns p.
func (p *Plot) AddDatasets(pos int, datasets ...*Dataset) *Plot {
	datasets = compactDatasets(datasets)
	if len(datasets) == 0 {
		return p
	}
	out, ok := insertAt(p.datasets, pos, datasets...)
	if !ok {
		return p
	}
	return p.rebuild(out, p.options)
}

// AddDatasetsInPlace inserts copies of datasets before pos.
func (p *Plot) AddDatasetsInPlace(pos int, datasets ...*Dataset) *Plot {
	datasets = compactDatasets(datasets)
	if len(datasets) == 0 {
		return p
	}
	out, ok := insertAt(p.datasets, pos, cloneDatasets(datasets)...)
	if !ok {
		return p
	}
	p.datasets = out
	input := p.cfg.entityEvent(p.Command(), p.id)
	input.Position = intPtr(pos)
	input.Count = len(datasets)
	p.cfg.emit(activity.BuildDatasetAddedEvent(input))
	return p
}

func compactDatasets(datasets []*Dataset) []*Dataset {
	out := datasets[:0:0]
	for _, ds := range datasets {
		if ds != nil {
			out = append(out, ds)
		}
	}
	return out
}

// RemoveDataset returns a plot without the dataset at pos. An out-of-range
// position returns p.
func (p *Plot) RemoveDataset(pos int) *Plot {
	out, ok := removeAt(p.datasets, pos)
	if !ok {
		return p
	}
	return p.rebuild(out, p.options)
}

// RemoveDatasetInPlace drops the dataset at pos.
func (p *Plot) RemoveDatasetInPlace(pos int) *Plot {
	removed, ok := elementAt(p.datasets, pos)
	if !ok {
		return p
	}
	p.datasets, _ = removeAt(p.datasets, pos)
	input := p.cfg.entityEvent(p.Command(), p.id)
	input.Position = intPtr(pos)
	input.Source = removed.Source().Kind().String()
	p.cfg.emit(activity.BuildDatasetRemovedEvent(input))
	return p
}

// ReplaceDataset returns a plot with the dataset at pos swapped for ds,
// options and source alike. An out-of-range position returns p.
func (p *Plot) ReplaceDataset(pos int, ds *Dataset) *Plot {
	if ds == nil {
		return p
	}
	out, ok := replaceAt(p.datasets, pos, ds)
	if !ok {
		return p
	}
	return p.rebuild(out, p.options)
}

// ReplaceDatasetInPlace swaps the dataset at pos for a copy of ds.
func (p *Plot) ReplaceDatasetInPlace(pos int, ds *Dataset) *Plot {
	if ds == nil {
		return p
	}
	out, ok := replaceAt(p.datasets, pos, ds.clone())
	if !ok {
		return p
	}
	p.datasets = out
	input := p.cfg.entityEvent(p.Command(), p.id)
	input.Position = intPtr(pos)
	input.Source = ds.Source().Kind().String()
	p.cfg.emit(activity.BuildDatasetReplacedEvent(input))
	return p
}

// UpdateDataset applies data and options to the dataset at pos, following
// Dataset.Update. The same plot comes back when nothing changes: no data and
// no options, data for a formula or file dataset, or data written into an
// existing backing block. Otherwise the result is a new plot.
func (p *Plot) UpdateDataset(pos int, data Columns, pairs ...Pair) (*Plot, error) {
	if len(data) == 0 && len(pairs) == 0 {
		return p, nil
	}
	current, ok := elementAt(p.datasets, pos)
	if !ok {
		return p, nil
	}
	updated, err := current.Update(data, pairs...)
	if err != nil {
		return p, err
	}
	if updated == current {
		return p, nil
	}
	out, _ := replaceAt(p.datasets, pos, updated)
	return p.rebuild(out, p.options), nil
}

// UpdateDatasetInPlace applies data and options to the dataset at pos in its
// slot.
func (p *Plot) UpdateDatasetInPlace(pos int, data Columns, pairs ...Pair) (*Plot, error) {
	if len(data) == 0 && len(pairs) == 0 {
		return p, nil
	}
	current, ok := elementAt(p.datasets, pos)
	if !ok {
		return p, nil
	}
	if _, err := current.UpdateInPlace(data, pairs...); err != nil {
		return p, err
	}
	input := p.cfg.entityEvent(p.Command(), p.id)
	input.Position = intPtr(pos)
	input.Source = current.Source().Kind().String()
	input.Keys = pairKeys(pairs)
	if len(data) > 0 && current.Updatable() {
		input.Count = data.Rows()
	}
	p.cfg.emit(activity.BuildDatasetUpdatedEvent(input))
	return p, nil
}

func pairKeys(pairs []Pair) []string {
	if len(pairs) == 0 {
		return nil
	}
	keys := make([]string, len(pairs))
	for i, pair := range pairs {
		keys[i] = pair.Key
	}
	return keys
}

// PlotCommand is the plot line alone, e.g. `plot sin(x) title "Sin", 'data.csv'`.
func (p *Plot) PlotCommand() string {
	parts := make([]string, len(p.datasets))
	for i, ds := range p.datasets {
		parts[i] = ds.String()
	}
	return p.Command() + " " + strings.Join(parts, ", ")
}

// String is PlotCommand.
func (p *Plot) String() string { return p.PlotCommand() }
