package gnuplot

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// NewExprEvaluator evaluates rule conditions such as
// `terminal == "png" && !multiplot` with github.com/expr-lang/expr. It is the
// engine used when none is configured.
func NewExprEvaluator(opts ...EvaluatorOption) Evaluator {
	e := &ruleEngine[*exprvm.Program]{name: "expr", engineConfig: applyEvaluatorOptions(opts)}
	e.compile = func(expression string, _ []string) (*exprvm.Program, error) {
		options := []exprlang.Option{
			exprlang.Env(map[string]any{}),
			exprlang.AllowUndefinedVariables(),
		}
		if e.registry == nil {
			return exprlang.Compile(expression, options...)
		}
		registry := e.registry
		options = append(options, exprlang.Function("call", func(params ...any) (any, error) {
			if len(params) == 0 {
				return nil, fmt.Errorf("call expects a function name")
			}
			name, ok := params[0].(string)
			if !ok {
				return nil, fmt.Errorf("call name must be a string, got %T", params[0])
			}
			return registry.Call(name, params[1:]...)
		}))
		for _, name := range registry.Names() {
			options = append(options, exprlang.Function(name, registry.bound(name)))
		}
		return exprlang.Compile(expression, options...)
	}
	e.run = func(program *exprvm.Program, bindings map[string]any) (any, error) {
		return exprlang.Run(program, bindings)
	}
	return e
}
