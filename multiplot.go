package gnuplot

import (
	"strings"

	"github.com/goliatone/go-gnuplot/pkg/activity"
)

// multiplotOptions are rendered on the `set multiplot` line itself; every
// other multiplot option is set before it.
var multiplotOptions = map[string]struct{}{
	"layout":       {},
	"title":        {},
	"font":         {},
	"scale":        {},
	"offset":       {},
	"margins":      {},
	"spacing":      {},
	"rowsfirst":    {},
	"columnsfirst": {},
	"downwards":    {},
	"upwards":      {},
}

// Multiplot draws several plots on one page. It follows the same copy and
// in-place rules as Plot, with plots in place of datasets.
type Multiplot struct {
	OptionHandling[*Multiplot]
	id    string
	plots []*Plot
	cfg   *entityConfig
}

// NewMultiplot builds a multiplot from WithPlots and WithOptions.
//
//	mp := gnuplot.NewMultiplot(
//		gnuplot.WithPlots(top, bottom),
//		gnuplot.WithOptions(gnuplot.KV("layout", []int{2, 1})),
//	)
func NewMultiplot(opts ...Option) *Multiplot {
	cfg := applyOptions(opts)
	seed := cfg.takeSeed()
	mp := &Multiplot{id: newEntityID(), cfg: &cfg}
	mp.options = seed.options
	mp.plots = clonePlots(compactPlots(seed.plots))
	return mp
}

// NewWithOptions implements Configurable. Plots are copied.
func (mp *Multiplot) NewWithOptions(options Store) *Multiplot {
	return mp.rebuild(mp.plots, options)
}

func (mp *Multiplot) rebuild(plots []*Plot, options Store) *Multiplot {
	out := &Multiplot{id: newEntityID(), plots: clonePlots(plots), cfg: mp.cfg}
	out.options = options
	return out
}

func clonePlots(plots []*Plot) []*Plot {
	out := make([]*Plot, len(plots))
	for i, p := range plots {
		out[i] = p.rebuild(p.datasets, p.options)
	}
	return out
}

func compactPlots(plots []*Plot) []*Plot {
	out := plots[:0:0]
	for _, p := range plots {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// ID identifies the multiplot in activity events.
func (mp *Multiplot) ID() string { return mp.id }

// Options returns the option store.
func (mp *Multiplot) Options() Store { return mp.OptionStore() }

// With returns a multiplot with pairs merged in, or mp when pairs is empty.
func (mp *Multiplot) With(pairs ...Pair) *Multiplot { return With(mp, pairs...) }

// Apply merges pairs into mp and returns mp.
func (mp *Multiplot) Apply(pairs ...Pair) *Multiplot { return Apply(mp, pairs...) }

// Option reads a single option.
func (mp *Multiplot) Option(key string) (Value, bool) { return Get(mp, key) }

// SetOption returns a multiplot with key assigned to values.
func (mp *Multiplot) SetOption(key string, values ...any) *Multiplot {
	return Set(mp, key, values...)
}

// SetOptionInPlace assigns key on mp and returns mp.
func (mp *Multiplot) SetOptionInPlace(key string, values ...any) *Multiplot {
	return SetInPlace(mp, key, values...)
}

func (mp *Multiplot) optionsApplied(before, after Store) {
	input := mp.cfg.entityEvent("multiplot", mp.id)
	input.Keys = changedKeys(before, after)
	mp.cfg.emit(activity.BuildOptionsAppliedEvent(input))
}

// Len is the number of plots.
func (mp *Multiplot) Len() int { return len(mp.plots) }

// Plots returns the plots in order.
func (mp *Multiplot) Plots() []*Plot {
	out := make([]*Plot, len(mp.plots))
	copy(out, mp.plots)
	return out
}

// Plot returns the plot at pos, or nil when pos is out of range.
func (mp *Multiplot) Plot(pos int) *Plot {
	p, _ := elementAt(mp.plots, pos)
	return p
}

// AddPlots returns a multiplot with plots inserted before pos.
func (mp *Multiplot) AddPlots(pos int, plots ...*Plot) *Multiplot {
	plots = compactPlots(plots)
	if len(plots) == 0 {
		return mp
	}
	out, ok := insertAt(mp.plots, pos, plots...)
	if !ok {
		return mp
	}
	return mp.rebuild(out, mp.options)
}

// AddPlotsInPlace inserts copies of plots before pos.
func (mp *Multiplot) AddPlotsInPlace(pos int, plots ...*Plot) *Multiplot {
	plots = compactPlots(plots)
	if len(plots) == 0 {
		return mp
	}
	out, ok := insertAt(mp.plots, pos, clonePlots(plots)...)
	if !ok {
		return mp
	}
	mp.plots = out
	input := mp.cfg.entityEvent("multiplot", mp.id)
	input.Position = intPtr(pos)
	input.Count = len(plots)
	mp.cfg.emit(activity.BuildPlotAddedEvent(input))
	return mp
}

// RemovePlot returns a multiplot without the plot at pos.
func (mp *Multiplot) RemovePlot(pos int) *Multiplot {
	out, ok := removeAt(mp.plots, pos)
	if !ok {
		return mp
	}
	return mp.rebuild(out, mp.options)
}

// RemovePlotInPlace drops the plot at pos.
func (mp *Multiplot) RemovePlotInPlace(pos int) *Multiplot {
	out, ok := removeAt(mp.plots, pos)
	if !ok {
		return mp
	}
	mp.plots = out
	input := mp.cfg.entityEvent("multiplot", mp.id)
	input.Position = intPtr(pos)
	mp.cfg.emit(activity.BuildPlotRemovedEvent(input))
	return mp
}

// ReplacePlot returns a multiplot with the plot at pos swapped for p.
func (mp *Multiplot) ReplacePlot(pos int, p *Plot) *Multiplot {
	if p == nil {
		return mp
	}
	out, ok := replaceAt(mp.plots, pos, p)
	if !ok {
		return mp
	}
	return mp.rebuild(out, mp.options)
}

// ReplacePlotInPlace swaps the plot at pos for a copy of p.
func (mp *Multiplot) ReplacePlotInPlace(pos int, p *Plot) *Multiplot {
	if p == nil {
		return mp
	}
	out, ok := replaceAt(mp.plots, pos, p.rebuild(p.datasets, p.options))
	if !ok {
		return mp
	}
	mp.plots = out
	input := mp.cfg.entityEvent("multiplot", mp.id)
	input.Position = intPtr(pos)
	mp.cfg.emit(activity.BuildPlotReplacedEvent(input))
	return mp
}

// UpdatePlot returns a multiplot whose plot at pos carries pairs. With no
// pairs, or an out-of-range position, mp is returned.
func (mp *Multiplot) UpdatePlot(pos int, pairs ...Pair) *Multiplot {
	current, ok := elementAt(mp.plots, pos)
	if !ok || len(pairs) == 0 {
		return mp
	}
	out, _ := replaceAt(mp.plots, pos, current.With(pairs...))
	return mp.rebuild(out, mp.options)
}

// UpdatePlotInPlace merges pairs into the plot at pos.
func (mp *Multiplot) UpdatePlotInPlace(pos int, pairs ...Pair) *Multiplot {
	current, ok := elementAt(mp.plots, pos)
	if !ok || len(pairs) == 0 {
		return mp
	}
	current.Apply(pairs...)
	return mp
}

// Script renders every plot on one page: terminal settings, the
// `set multiplot` line, each plot followed by unsetting its own options so
// they do not leak into the next one, and `unset multiplot`.
func (mp *Multiplot) Script(pairs ...Pair) (string, error) {
	options, err := mp.cfg.renderOptions(mp.options, pairs)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	var layout []string
	for _, pair := range orderedPairs(options, setOptionOrder) {
		if _, ok := multiplotOptions[pair.Key]; ok {
			if text := strings.TrimRight(Serialize(pair.Key, pair.Value), " "); text != "" {
				layout = append(layout, text)
			}
			continue
		}
		if pair.Key == "multiplot" {
			continue
		}
		if line := setLine(pair); line != "" {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	b.WriteString(strings.TrimRight("set multiplot "+strings.Join(layout, " "), " "))
	b.WriteByte('\n')

	for _, p := range mp.plots {
		plotOptions, err := p.cfg.renderOptions(p.options, nil)
		if err != nil {
			return "", err
		}
		p.writeBody(&b, plotOptions, terminalOptions)
		for _, key := range plotOptions.Keys() {
			if _, terminal := terminalOptions[key]; terminal {
				continue
			}
			b.WriteString(unsetLine(key))
			b.WriteByte('\n')
		}
	}
	b.WriteString("unset multiplot\n")
	return b.String(), nil
}
