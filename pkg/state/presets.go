package state

import (
	"context"
	"errors"

	gnuplot "github.com/goliatone/go-gnuplot"
)

// Defaults resolves the presets of domain into a gnuplot.WithDefaults option.
// No presets at all is not an error: the option then sets nothing.
func Defaults(ctx context.Context, r Resolver[gnuplot.Store], domain string, scopes ...Scope) (gnuplot.Option, error) {
	presets, err := r.Resolve(ctx, domain, scopes...)
	if errors.Is(err, ErrNotFound) {
		return gnuplot.WithDefaults(), nil
	}
	if err != nil {
		return nil, err
	}
	return gnuplot.WithDefaults(presets.Pairs()...), nil
}

// ValidateTerminal rejects presets naming a terminal unknown to validator.
func ValidateTerminal(validator gnuplot.TerminalValidator) func(gnuplot.Store) error {
	return validator.Validate
}
