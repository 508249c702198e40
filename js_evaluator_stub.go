//go:build !js_eval

package gnuplot

// NewJSEvaluator returns nil: build with the js_eval tag to get the goja
// engine.
func NewJSEvaluator(...EvaluatorOption) Evaluator {
	return nil
}
