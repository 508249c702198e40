package gnuplot

import (
	"errors"
	"sort"
	"strings"
)

var errEmptyExpression = errors.New("expression must not be empty")

// EvaluatorOption configures a rule engine built by NewExprEvaluator,
// NewCELEvaluator or NewJSEvaluator.
type EvaluatorOption func(*engineConfig)

type engineConfig struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// EvaluatorProgramCache stores compiled programs in cache.
func EvaluatorProgramCache(cache ProgramCache) EvaluatorOption {
	return func(cfg *engineConfig) {
		cfg.cache = cache
	}
}

// EvaluatorFunctions makes the functions of registry callable by name and
// through call(name, args...).
func EvaluatorFunctions(registry *FunctionRegistry) EvaluatorOption {
	return func(cfg *engineConfig) {
		if registry != nil {
			cfg.registry = registry.Clone()
		}
	}
}

func applyEvaluatorOptions(opts []EvaluatorOption) engineConfig {
	cfg := engineConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// ruleEngine adapts one expression language to Evaluator. compile turns an
// expression into a program P for the given binding names; run executes it.
type ruleEngine[P any] struct {
	name string
	engineConfig
	// typedNames marks engines whose programs are checked against the binding
	// names, so cached programs are keyed by them too.
	typedNames bool
	compile    func(expression string, names []string) (P, error)
	run        func(program P, bindings map[string]any) (any, error)
}

func (e *ruleEngine[P]) engineName() string { return e.name }

// Evaluate runs expression against the bindings of ctx.
func (e *ruleEngine[P]) Evaluate(ctx RuleContext, expression string) (any, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, wrapEvaluationError(e.name, expression, ctx.Rule, errEmptyExpression)
	}
	bindings := e.bindings(ctx.withDefaults())
	program, err := e.load(expression, bindingNames(bindings))
	if err != nil {
		return nil, e.fail(expression, ctx.Rule, err)
	}
	out, err := e.run(program, bindings)
	if err != nil {
		return nil, e.fail(expression, ctx.Rule, err)
	}
	return out, nil
}

// Compile checks expression once and returns a reusable rule. Engines whose
// programs depend on binding names compile again per distinct option set.
func (e *ruleEngine[P]) Compile(expression string) (CompiledRule, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, wrapEvaluationError(e.name, expression, "", errEmptyExpression)
	}
	names := bindingNames(e.bindings(RuleContext{}.withDefaults()))
	if _, err := e.load(expression, names); err != nil {
		return nil, e.fail(expression, "", err)
	}
	return compiledRule[P]{engine: e, expression: expression}, nil
}

func (e *ruleEngine[P]) fail(expression, rule string, err error) error {
	return wrapEvaluationError(e.name, expression, rule, wrapEvaluatorError(e.name, err))
}

func (e *ruleEngine[P]) load(expression string, names []string) (P, error) {
	key := expression
	if e.typedNames {
		key = expression + "\x00" + strings.Join(names, ",")
	}
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(P); ok {
				return program, nil
			}
		}
	}
	program, err := e.compile(expression, names)
	if err != nil {
		return program, err
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return program, nil
}

// bindings are the rule variables plus every registered function, by name
// and through call.
func (e *ruleEngine[P]) bindings(ctx RuleContext) map[string]any {
	bindings := ruleBindings(ctx)
	if e.registry == nil {
		return bindings
	}
	registry := e.registry
	bindings["call"] = func(name string, arguments ...any) (any, error) {
		return registry.Call(name, arguments...)
	}
	for _, name := range registry.Names() {
		bindings[name] = registry.bound(name)
	}
	return bindings
}

func bindingNames(bindings map[string]any) []string {
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type compiledRule[P any] struct {
	engine     *ruleEngine[P]
	expression string
}

func (r compiledRule[P]) Evaluate(ctx RuleContext) (any, error) {
	return r.engine.Evaluate(ctx, r.expression)
}
