package gnuplot

import (
	"fmt"
	"strings"
)

// FileOption marks a points dataset for materialization into a backing block.
const FileOption = "file"

// datasetOptionOrder lists dataset options gnuplot requires before any other.
var datasetOptionOrder = []string{"index", "using", "axes", "title"}

// Dataset is one data series: a source plus its own options.
type Dataset struct {
	OptionHandling[*Dataset]
	source Source
}

// NewDataset builds a dataset over source.
func NewDataset(source Source, pairs ...Pair) *Dataset {
	d := &Dataset{source: source}
	d.options = NewStore(pairs...)
	return d
}

// NewFormula is a dataset plotting a gnuplot expression.
func NewFormula(expr string, pairs ...Pair) *Dataset {
	return NewDataset(Formula(expr), pairs...)
}

// NewFileDataset is a dataset reading an existing data file.
func NewFileDataset(path string, pairs ...Pair) *Dataset {
	return NewDataset(File(path), pairs...)
}

// NewPointsDataset is a dataset over in-memory columns.
func NewPointsDataset(data Columns, pairs ...Pair) *Dataset {
	return NewDataset(NewPoints(data), pairs...)
}

// NewWithOptions implements Configurable. The source is shared.
func (d *Dataset) NewWithOptions(options Store) *Dataset {
	out := &Dataset{source: d.source}
	out.options = options
	return out
}

// Source returns the data source.
func (d *Dataset) Source() Source { return d.source }

// Options returns the option store.
func (d *Dataset) Options() Store { return d.OptionStore() }

// With returns a dataset with pairs merged in, or d when pairs is empty.
func (d *Dataset) With(pairs ...Pair) *Dataset { return With(d, pairs...) }

// Apply merges pairs into d and returns d.
func (d *Dataset) Apply(pairs ...Pair) *Dataset { return Apply(d, pairs...) }

// Option reads a single option.
func (d *Dataset) Option(key string) (Value, bool) { return Get(d, key) }

// SetOption returns a dataset with key assigned to values.
func (d *Dataset) SetOption(key string, values ...any) *Dataset { return Set(d, key, values...) }

// SetOptionInPlace assigns key on d and returns d.
func (d *Dataset) SetOptionInPlace(key string, values ...any) *Dataset {
	return SetInPlace(d, key, values...)
}

func (d *Dataset) clone() *Dataset {
	if d == nil {
		return nil
	}
	return d.NewWithOptions(d.options)
}

// Update applies new data and options.
//
// Data is only honoured for in-memory and block-backed sources: in-memory
// data yields a new dataset with the rows appended under a new datablock
// name, while a block is rewritten in place and d itself is returned when no
// options change. Formula and file datasets ignore data. With neither data
// nor options d is returned unchanged.
func (d *Dataset) Update(data Columns, pairs ...Pair) (*Dataset, error) {
	if len(data) > 0 {
		switch src := d.source.(type) {
		case *Points:
			out := &Dataset{source: src.appended(data)}
			out.options = d.options.Merge(pairs...)
			return out, nil
		case *Block:
			if err := src.append(data); err != nil {
				return d, fmt.Errorf("gnuplot: rewrite block %s: %w", src.handle.ID(), err)
			}
		}
	}
	return d.With(pairs...), nil
}

// UpdateInPlace is Update writing into d itself.
func (d *Dataset) UpdateInPlace(data Columns, pairs ...Pair) (*Dataset, error) {
	if len(data) > 0 {
		switch src := d.source.(type) {
		case *Points:
			d.source = src.appended(data)
		case *Block:
			if err := src.append(data); err != nil {
				return d, fmt.Errorf("gnuplot: rewrite block %s: %w", src.handle.ID(), err)
			}
		}
	}
	return d.Apply(pairs...), nil
}

// Updatable reports whether Update honours data for this dataset.
func (d *Dataset) Updatable() bool {
	switch d.source.(type) {
	case *Points, *Block:
		return true
	}
	return false
}

// Materialize moves in-memory data into a block created by manager. Other
// sources are returned as is.
func (d *Dataset) Materialize(manager BlockManager) (*Dataset, error) {
	src, ok := d.source.(*Points)
	if !ok {
		return d, nil
	}
	handle, err := manager.Materialize(src.columns)
	if err != nil {
		return d, fmt.Errorf("gnuplot: materialize %s: %w", src.name, err)
	}
	out := &Dataset{source: NewBlock(handle)}
	out.options = d.options
	return out, nil
}

func (d *Dataset) wantsFile() bool {
	v, ok := d.options.Get(FileOption)
	if !ok {
		return false
	}
	b, isBool := v.Bool()
	return isBool && b
}

// declaration is the inline datablock for points sources, empty otherwise.
func (d *Dataset) declaration() string {
	if src, ok := d.source.(*Points); ok {
		return src.Declaration()
	}
	return ""
}

// String renders the dataset as it appears in a plot command, e.g.
// `sin(x) title "Sin" with lines`.
func (d *Dataset) String() string {
	parts := []string{d.source.Reference()}
	for _, pair := range orderedPairs(d.options, datasetOptionOrder) {
		if pair.Key == FileOption {
			continue
		}
		if text := strings.TrimRight(Serialize(pair.Key, pair.Value), " "); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// orderedPairs lists store entries with the keys in first, in that order,
// followed by the rest in insertion order.
func orderedPairs(store Store, first []string) []Pair {
	out := make([]Pair, 0, store.Len())
	seen := make(map[string]struct{}, len(first))
	for _, key := range first {
		if value, ok := store.Get(key); ok {
			out = append(out, Pair{Key: key, Value: value})
			seen[key] = struct{}{}
		}
	}
	store.Each(func(key string, value Value) {
		if _, done := seen[key]; !done {
			out = append(out, Pair{Key: key, Value: value})
		}
	})
	return out
}
