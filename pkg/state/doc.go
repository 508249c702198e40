// Package state loads and saves option presets: named option sets kept per
// scope (system, project, user) that are layered beneath an entity's own
// options when it renders.
//
// Store[T] only loads and saves a single snapshot for a single Ref. Resolver[T]
// loads the snapshots of several scopes and merges them with
// layering.MergeLayers, so any type with a MergeStore method can be used.
//
//	store := state.NewMemoryStore[gnuplot.Store]()
//	resolver := state.Resolver[gnuplot.Store]{Store: store}
//	opt, err := state.Defaults(ctx, resolver, "plot", state.User("u42"), state.System())
//	p, err := gnuplot.NewPlot(opt, gnuplot.WithDatasets(ds))
//
// Ref.Identifier() provides the canonical storage key:
//
//	system/<domain>
//	project/<id>/<domain>
//	user/<id>/<domain>
package state
