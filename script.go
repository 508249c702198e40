package gnuplot

import (
	"strings"

	"github.com/goliatone/go-gnuplot/layering"
)

// setOptionOrder lists options that must be set before any other.
var setOptionOrder = []string{TerminalOption, "output", "multiplot", "timefmt", "xrange"}

// terminalOptions are set once per script, never per subplot.
var terminalOptions = map[string]struct{}{
	TerminalOption: {},
	"output":       {},
}

// Script renders p as a complete gnuplot script: inline datablocks, one set
// line per option and the plot command. pairs override p's options for this
// render only; configured defaults sit beneath them and matching rules are
// applied on top. The terminal is validated before anything is rendered.
func (p *Plot) Script(pairs ...Pair) (string, error) {
	options, err := p.cfg.renderOptions(p.options, pairs)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	p.writeBody(&b, options, nil)
	return b.String(), nil
}

// renderOptions layers call pairs over entity options over defaults, runs the
// rules and validates the terminal.
func (cfg *entityConfig) renderOptions(entity Store, pairs []Pair) (Store, error) {
	var defaults Store
	if cfg != nil {
		defaults = cfg.defaults
	}
	chain := layering.NewChain(
		layering.Layer[Store]{Level: layering.LevelDefaults, Name: "defaults", Value: defaults},
		layering.Layer[Store]{Level: layering.LevelEntity, Name: "entity", Value: entity},
		layering.Layer[Store]{Level: layering.LevelCall, Name: "call", Value: NewStore(pairs...)},
	)
	options, err := cfg.applyRules(chain.Merge())
	if err != nil {
		return Store{}, err
	}
	if err := cfg.validator().Validate(options); err != nil {
		return Store{}, err
	}
	return options, nil
}

// writeBody writes declarations, set lines and the plot command. Keys in skip
// are left out of the set lines.
func (p *Plot) writeBody(b *strings.Builder, options Store, skip map[string]struct{}) {
	for _, ds := range p.datasets {
		b.WriteString(ds.declaration())
	}
	writeSetLines(b, options, skip)
	b.WriteString(p.PlotCommand())
	b.WriteByte('\n')
}

func writeSetLines(b *strings.Builder, options Store, skip map[string]struct{}) {
	for _, pair := range orderedPairs(options, setOptionOrder) {
		if _, skipped := skip[pair.Key]; skipped {
			continue
		}
		if line := setLine(pair); line != "" {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
}

// setLine renders one option as a set command; false becomes unset.
func setLine(pair Pair) string {
	if on, isBool := pair.Value.Bool(); isBool && !on {
		return unsetLine(pair.Key)
	}
	text := strings.TrimRight(Serialize(pair.Key, pair.Value), " ")
	if text == "" {
		return ""
	}
	return "set " + text
}

func unsetLine(key string) string {
	return "unset " + strings.TrimRight(renderKey(key), " ")
}
