package hydrate

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	gnuplot "github.com/goliatone/go-gnuplot"
)

// Document describes a plot, a splot or a multiplot.
//
//	command: plot
//	terminal: [png, {size: [600, 400]}]
//	output: sales.png
//	options:
//	  - title: Sales
//	  - xrange: {from: 0, to: 12}
//	datasets:
//	  - formula: sin(x)
//	    options: {title: Sin}
//
// Options are either a mapping, rendered with keys sorted, or a list of
// mappings, rendered in list order. A mapping holding exactly "from" and "to"
// is a range.
type Document struct {
	Command  string       `json:"command"`
	Terminal any          `json:"terminal"`
	Output   string       `json:"output"`
	Options  any          `json:"options"`
	Datasets []DatasetDoc `json:"datasets"`
	Plots    []Document   `json:"plots"`
	Rules    []RuleDoc    `json:"rules"`
}

// RuleDoc describes a conditional option rule.
type RuleDoc struct {
	Name    string `json:"name"`
	When    string `json:"when"`
	Options any    `json:"options"`
}

// DatasetDoc describes one dataset. Exactly one of Formula, File or Columns
// must be set.
type DatasetDoc struct {
	Formula string  `json:"formula"`
	File    string  `json:"file"`
	Columns [][]any `json:"columns"`
	Options any     `json:"options"`
}

// Renderable is what a document builds into.
type Renderable interface {
	Options() gnuplot.Store
	Script(pairs ...gnuplot.Pair) (string, error)
}

// NewDocumentDecoder decodes documents keeping integers apart from floats.
func NewDocumentDecoder(opts ...DecoderOption[Document]) *Decoder[Document] {
	return NewDecoder(append([]DecoderOption[Document]{WithStrictFields[Document]()}, opts...)...)
}

// TerminalPairs are the render-time pairs a document asks for: its terminal
// and output file.
func (doc Document) TerminalPairs() ([]gnuplot.Pair, error) {
	var pairs []gnuplot.Pair
	if doc.Terminal != nil {
		term, err := toValue(doc.Terminal)
		if err != nil {
			return nil, fmt.Errorf("hydrate: terminal: %w", err)
		}
		pairs = append(pairs, gnuplot.Pair{Key: gnuplot.TerminalOption, Value: term})
	}
	if doc.Output != "" {
		pairs = append(pairs, gnuplot.KV("output", doc.Output))
	}
	return pairs, nil
}

// Build turns the document into a plot, or a multiplot when Plots is set.
// opts configure every entity built.
func (doc Document) Build(opts ...gnuplot.Option) (Renderable, error) {
	rules, err := doc.rules()
	if err != nil {
		return nil, err
	}
	if len(rules) > 0 {
		opts = append(opts[:len(opts):len(opts)], gnuplot.WithRules(rules...))
	}
	if len(doc.Plots) > 0 {
		if len(doc.Datasets) > 0 {
			return nil, fmt.Errorf("hydrate: a document has either datasets or plots")
		}
		return doc.buildMultiplot(opts)
	}
	return doc.buildPlot(opts)
}

func (doc Document) rules() ([]gnuplot.Rule, error) {
	rules := make([]gnuplot.Rule, 0, len(doc.Rules))
	for i, rd := range doc.Rules {
		options, err := Pairs(rd.Options)
		if err != nil {
			return nil, fmt.Errorf("hydrate: rule %d: %w", i, err)
		}
		rules = append(rules, gnuplot.Rule{Name: rd.Name, When: rd.When, Options: options})
	}
	return rules, nil
}

func (doc Document) buildPlot(opts []gnuplot.Option) (*gnuplot.Plot, error) {
	options, err := Pairs(doc.Options)
	if err != nil {
		return nil, err
	}
	datasets := make([]*gnuplot.Dataset, len(doc.Datasets))
	for i, dd := range doc.Datasets {
		ds, err := dd.Dataset()
		if err != nil {
			return nil, fmt.Errorf("hydrate: dataset %d: %w", i, err)
		}
		datasets[i] = ds
	}
	opts = append(opts[:len(opts):len(opts)], gnuplot.WithOptions(options...), gnuplot.WithDatasets(datasets...))

	switch strings.ToLower(strings.TrimSpace(doc.Command)) {
	case "", gnuplot.CommandPlot:
		return gnuplot.NewPlot(opts...)
	case gnuplot.CommandSplot:
		return gnuplot.NewSplot(opts...)
	default:
		return nil, fmt.Errorf("hydrate: unknown command %q", doc.Command)
	}
}

func (doc Document) buildMultiplot(opts []gnuplot.Option) (*gnuplot.Multiplot, error) {
	options, err := Pairs(doc.Options)
	if err != nil {
		return nil, err
	}
	plots := make([]*gnuplot.Plot, len(doc.Plots))
	for i, sub := range doc.Plots {
		if len(sub.Plots) > 0 {
			return nil, fmt.Errorf("hydrate: plot %d: multiplots do not nest", i)
		}
		p, err := sub.buildPlot(opts)
		if err != nil {
			return nil, fmt.Errorf("hydrate: plot %d: %w", i, err)
		}
		plots[i] = p
	}
	opts = append(opts[:len(opts):len(opts)], gnuplot.WithOptions(options...), gnuplot.WithPlots(plots...))
	return gnuplot.NewMultiplot(opts...), nil
}

// Dataset builds the described dataset.
func (dd DatasetDoc) Dataset() (*gnuplot.Dataset, error) {
	options, err := Pairs(dd.Options)
	if err != nil {
		return nil, err
	}
	sources := 0
	for _, set := range []bool{dd.Formula != "", dd.File != "", len(dd.Columns) > 0} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return nil, fmt.Errorf("exactly one of formula, file or columns is required")
	}

	switch {
	case dd.Formula != "":
		return gnuplot.NewFormula(dd.Formula, options...), nil
	case dd.File != "":
		return gnuplot.NewFileDataset(dd.File, options...), nil
	}
	columns := make(gnuplot.Columns, len(dd.Columns))
	for i, col := range dd.Columns {
		values := make([]gnuplot.Value, len(col))
		for j, item := range col {
			value, err := toValue(item)
			if err != nil {
				return nil, fmt.Errorf("column %d row %d: %w", i, j, err)
			}
			values[j] = value
		}
		columns[i] = values
	}
	return gnuplot.NewPointsDataset(columns, options...), nil
}

// Pairs converts a decoded options block into ordered pairs.
func Pairs(raw any) ([]gnuplot.Pair, error) {
	switch options := raw.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return mapPairs(options)
	case []any:
		var pairs []gnuplot.Pair
		for i, item := range options {
			entry, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("hydrate: option %d: expected a mapping, got %T", i, item)
			}
			more, err := mapPairs(entry)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, more...)
		}
		return pairs, nil
	}
	return nil, fmt.Errorf("hydrate: options must be a mapping or a list, got %T", raw)
}

func mapPairs(m map[string]any) ([]gnuplot.Pair, error) {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	pairs := make([]gnuplot.Pair, len(keys))
	for i, key := range keys {
		value, err := toValue(m[key])
		if err != nil {
			return nil, fmt.Errorf("hydrate: option %q: %w", key, err)
		}
		pairs[i] = gnuplot.Pair{Key: key, Value: value}
	}
	return pairs, nil
}

func toValue(raw any) (gnuplot.Value, error) {
	switch v := raw.(type) {
	case json.Number:
		return numberValue(v)
	case []any:
		items := make([]gnuplot.Value, len(v))
		for i, item := range v {
			value, err := toValue(item)
			if err != nil {
				return gnuplot.Value{}, err
			}
			items[i] = value
		}
		return gnuplot.Seq(items...), nil
	case map[string]any:
		if begin, end, ok := rangeBounds(v); ok {
			from, err := toValue(begin)
			if err != nil {
				return gnuplot.Value{}, err
			}
			to, err := toValue(end)
			if err != nil {
				return gnuplot.Value{}, err
			}
			return gnuplot.RangeOf(from, to), nil
		}
		pairs, err := mapPairs(v)
		if err != nil {
			return gnuplot.Value{}, err
		}
		return gnuplot.Map(pairs...), nil
	case float64:
		return gnuplot.Float(v), nil
	case nil:
		return gnuplot.Value{}, fmt.Errorf("null is not an option value")
	}
	return gnuplot.ValueOf(raw), nil
}

func numberValue(n json.Number) (gnuplot.Value, error) {
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return gnuplot.Int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return gnuplot.Value{}, fmt.Errorf("invalid number %q: %w", n.String(), err)
	}
	return gnuplot.Float(f), nil
}

func rangeBounds(m map[string]any) (any, any, bool) {
	if len(m) != 2 {
		return nil, nil, false
	}
	begin, okBegin := m["from"]
	end, okEnd := m["to"]
	return begin, end, okBegin && okEnd
}
