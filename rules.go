package gnuplot

import (
	"time"
)

// Rule merges Options into an entity's options when the When expression
// evaluates to true against the current option snapshot. Rules run at render
// time and never change the entity itself.
//
//	gnuplot.Rule{Name: "png-size", When: `term == "png"`, Options: []gnuplot.Pair{gnuplot.KV("size", []int{600, 400})}}
type Rule struct {
	Name    string
	When    string
	Options []Pair
}

// WithRules appends conditional option rules.
func WithRules(rules ...Rule) Option {
	return func(cfg *entityConfig) {
		cfg.rules = append(append([]Rule(nil), cfg.rules...), rules...)
	}
}

// WithEvaluator configures the engine used for rule expressions. The expr
// engine is used when none is set.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *entityConfig) {
		cfg.evaluator = e
	}
}

// RuleContext carries inputs needed when evaluating an expression.
type RuleContext struct {
	Snapshot any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
	Rule     string
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) withDefaults() RuleContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

// reservedBindings are names every engine defines itself; option keys with
// the same name are reachable through "options" only.
var reservedBindings = map[string]struct{}{
	"now":      {},
	"args":     {},
	"metadata": {},
	"rule":     {},
	"terminal": {},
	"options":  {},
	"call":     {},
}

// ruleBindings is the variable set shared by every engine: the option
// snapshot's keys as top-level names, the whole snapshot as "options", and
// "terminal" holding the selected terminal name (empty when unset).
func ruleBindings(ctx RuleContext) map[string]any {
	snapshot, _ := ctx.Snapshot.(map[string]any)
	bindings := make(map[string]any, len(snapshot)+len(reservedBindings))
	for key, value := range snapshot {
		bindings[key] = value
	}
	if snapshot == nil {
		snapshot = map[string]any{}
	}
	bindings["now"] = ctx.timestamp()
	bindings["args"] = ctx.Args
	bindings["metadata"] = ctx.Metadata
	bindings["rule"] = ctx.Rule
	bindings["terminal"] = terminalName(snapshot)
	bindings["options"] = snapshot
	return bindings
}

func terminalName(snapshot map[string]any) string {
	switch term := snapshot[TerminalOption].(type) {
	case string:
		return term
	case []any:
		if len(term) > 0 {
			if name, ok := term[0].(string); ok {
				return name
			}
		}
	}
	return ""
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// applyRules merges the options of every matching rule on top of store. All
// rules see the same snapshot, taken before any of them applied.
func (cfg *entityConfig) applyRules(store Store) (Store, error) {
	if cfg == nil || len(cfg.rules) == 0 {
		return store, nil
	}
	evaluator, err := cfg.resolveEvaluator()
	if err != nil {
		return Store{}, err
	}
	engine := evaluatorEngineName(evaluator)
	snapshot := store.Snapshot()
	result := store
	for _, rule := range cfg.rules {
		if rule.When == "" {
			return Store{}, wrapEvaluationError(engine, "", rule.Name, errEmptyExpression)
		}
		ctx := RuleContext{Snapshot: snapshot, Rule: rule.Name}.withDefaults()
		start := time.Now()
		out, evalErr := evaluator.Evaluate(ctx, rule.When)
		evalErr = wrapEvaluationError(engine, rule.When, rule.Name, evalErr)
		matched, _ := out.(bool)
		cfg.evaluatorLogger().LogEvaluation(EvaluatorLogEvent{
			Engine:   engine,
			Expr:     rule.When,
			Rule:     rule.Name,
			Matched:  matched && evalErr == nil,
			Duration: time.Since(start),
			Err:      evalErr,
		})
		if evalErr != nil {
			return Store{}, evalErr
		}
		if matched {
			result = result.Merge(rule.Options...)
		}
	}
	return result, nil
}

func (cfg *entityConfig) resolveEvaluator() (Evaluator, error) {
	if cfg.evaluator != nil {
		return cfg.evaluator, nil
	}
	defaultEvaluator := NewExprEvaluator(
		EvaluatorProgramCache(cfg.programCache),
		EvaluatorFunctions(cfg.functions),
	)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	cfg.evaluator = defaultEvaluator
	return defaultEvaluator, nil
}

// evaluatorEngineName labels errors and log events: expr, cel, js, or custom
// for evaluators supplied by callers.
func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	if named, ok := e.(interface{ engineName() string }); ok {
		return named.engineName()
	}
	return "custom"
}
