package hydrate

import (
	"context"
	"fmt"

	gnuplot "github.com/goliatone/go-gnuplot"
	"github.com/goliatone/go-gnuplot/pkg/state"
)

// PresetFile lists option presets by scope.
//
//	presets:
//	  - scope: system
//	    domain: plot
//	    options: {grid: true}
//	  - scope: user
//	    id: u42
//	    domain: plot
//	    options: {key: false}
type PresetFile struct {
	Presets []PresetDoc `json:"presets"`
}

// PresetDoc is one preset snapshot.
type PresetDoc struct {
	Scope   string `json:"scope"`
	ID      string `json:"id"`
	Domain  string `json:"domain"`
	ETag    string `json:"etag"`
	Options any    `json:"options"`
}

// NewPresetDecoder decodes preset files.
func NewPresetDecoder(opts ...DecoderOption[PresetFile]) *Decoder[PresetFile] {
	return NewDecoder(append([]DecoderOption[PresetFile]{WithStrictFields[PresetFile]()}, opts...)...)
}

// Save writes every preset into store.
func (pf PresetFile) Save(ctx context.Context, store state.Store[gnuplot.Store]) error {
	for i, doc := range pf.Presets {
		pairs, err := Pairs(doc.Options)
		if err != nil {
			return fmt.Errorf("hydrate: preset %d: %w", i, err)
		}
		ref := state.Ref{Domain: doc.Domain, Scope: state.Scope{Name: doc.Scope, ID: doc.ID}}
		if _, err := store.Save(ctx, ref, gnuplot.NewStore(pairs...), state.Meta{ETag: doc.ETag}); err != nil {
			return fmt.Errorf("hydrate: preset %d: %w", i, err)
		}
	}
	return nil
}
