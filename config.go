package gnuplot

import (
	"log/slog"

	"github.com/goliatone/go-gnuplot/pkg/activity"
	"github.com/goliatone/go-gnuplot/settings"
)

// Option configures an entity. Configuration is carried over to every entity
// rebuilt from it, so a plot derived through With keeps its rules, hooks and
// registry.
type Option func(*entityConfig)

type entityConfig struct {
	terminals     *settings.Registry
	defaults      Store
	rules         []Rule
	evaluator     Evaluator
	programCache  ProgramCache
	functions     *FunctionRegistry
	evalLogger    EvaluatorLogger
	logger        *slog.Logger
	activityHooks activity.Hooks
	// activityChannel is empty for the emitter default.
	activityChannel string
	identity        ActivityIdentity
	emitter         *activity.Emitter
	blocks          BlockManager
	seed            entitySeed
}

// entitySeed is the initial state handed to a constructor. It is consumed by
// the constructor and never carried over to rebuilt entities.
type entitySeed struct {
	options  Store
	datasets []*Dataset
	plots    []*Plot
}

func applyOptions(opts []Option) entityConfig {
	cfg := entityConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	cfg.emitter = cfg.newEmitter()
	return cfg
}

// takeSeed returns the constructor seed and clears it.
func (cfg *entityConfig) takeSeed() entitySeed {
	seed := cfg.seed
	cfg.seed = entitySeed{}
	return seed
}

// WithOptions seeds the entity's own option store.
func WithOptions(pairs ...Pair) Option {
	return func(cfg *entityConfig) {
		cfg.seed.options = cfg.seed.options.Merge(pairs...)
	}
}

// WithDatasets seeds a plot's datasets, in order.
func WithDatasets(datasets ...*Dataset) Option {
	return func(cfg *entityConfig) {
		cfg.seed.datasets = append(cfg.seed.datasets, datasets...)
	}
}

// WithPlots seeds a multiplot's plots, in order.
func WithPlots(plots ...*Plot) Option {
	return func(cfg *entityConfig) {
		cfg.seed.plots = append(cfg.seed.plots, plots...)
	}
}

// WithTerminals sets the registry used to validate the "term" option.
func WithTerminals(registry *settings.Registry) Option {
	return func(cfg *entityConfig) {
		cfg.terminals = registry
	}
}

// WithDefaults layers pairs beneath the entity's own options when a script is
// rendered.
func WithDefaults(pairs ...Pair) Option {
	return func(cfg *entityConfig) {
		cfg.defaults = cfg.defaults.Merge(pairs...)
	}
}

// WithBlockManager sets where datasets flagged with `file: true` are
// materialized.
func WithBlockManager(manager BlockManager) Option {
	return func(cfg *entityConfig) {
		cfg.blocks = manager
	}
}

// WithLogger sets the structured logger. Entities fall back to
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *entityConfig) {
		cfg.logger = logger
	}
}

// The *entityConfig helpers accept a nil receiver, the configuration of a
// zero-value Plot or Multiplot.

func (cfg *entityConfig) log() *slog.Logger {
	if cfg != nil && cfg.logger != nil {
		return cfg.logger
	}
	return slog.Default()
}

func (cfg *entityConfig) validator() TerminalValidator {
	if cfg == nil {
		return TerminalValidator{}
	}
	return TerminalValidator{Registry: cfg.terminals}
}

func (cfg *entityConfig) evaluatorLogger() EvaluatorLogger {
	if cfg != nil && cfg.evalLogger != nil {
		return cfg.evalLogger
	}
	return noopEvaluatorLogger{}
}
