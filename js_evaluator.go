//go:build js_eval

package gnuplot

import (
	"fmt"

	"github.com/dop251/goja"
)

// NewJSEvaluator evaluates rule conditions as JavaScript expressions with
// goja. Each evaluation runs in a fresh runtime.
func NewJSEvaluator(opts ...EvaluatorOption) Evaluator {
	e := &ruleEngine[*goja.Program]{name: "js", engineConfig: applyEvaluatorOptions(opts)}
	e.compile = func(expression string, _ []string) (*goja.Program, error) {
		return goja.Compile("rule", fmt.Sprintf("(function(){ return (%s); })()", expression), true)
	}
	e.run = func(program *goja.Program, bindings map[string]any) (any, error) {
		vm := goja.New()
		for name, value := range bindings {
			if err := vm.Set(name, value); err != nil {
				return nil, err
			}
		}
		value, err := vm.RunProgram(program)
		if err != nil {
			return nil, err
		}
		return value.Export(), nil
	}
	return e
}
