package gnuplot

import (
	"fmt"
	"regexp"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// celMaxArgs bounds the arity of registered functions, CEL having no
// variadic overloads.
const celMaxArgs = 4

// celIdentifier matches option keys usable as CEL variables; the rest are
// reached through options["key"].
var celIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NewCELEvaluator evaluates rule conditions with cel-go. Every option key is
// declared as a dynamic variable, so programs are cached per option set.
func NewCELEvaluator(opts ...EvaluatorOption) Evaluator {
	e := &ruleEngine[celgo.Program]{name: "cel", engineConfig: applyEvaluatorOptions(opts), typedNames: true}
	e.compile = func(expression string, names []string) (celgo.Program, error) {
		env, err := celgo.NewEnv(celDeclarations(e.registry, names)...)
		if err != nil {
			return nil, err
		}
		ast, issues := env.Compile(expression)
		if issues != nil && issues.Err() != nil {
			return nil, issues.Err()
		}
		return env.Program(ast)
	}
	e.run = func(program celgo.Program, bindings map[string]any) (any, error) {
		out, _, err := program.Eval(bindings)
		if err != nil {
			return nil, err
		}
		return out.Value(), nil
	}
	return e
}

var celTypedBindings = map[string]*celgo.Type{
	"now":      celgo.TimestampType,
	"args":     celgo.DynType,
	"metadata": celgo.DynType,
	"rule":     celgo.StringType,
	"terminal": celgo.StringType,
	"options":  celgo.DynType,
}

func celDeclarations(registry *FunctionRegistry, names []string) []celgo.EnvOption {
	functions := map[string]struct{}{"call": {}}
	for _, name := range registry.Names() {
		functions[name] = struct{}{}
	}

	var decls []celgo.EnvOption
	for _, name := range names {
		if typ, ok := celTypedBindings[name]; ok {
			decls = append(decls, celgo.Variable(name, typ))
			continue
		}
		if _, fn := functions[name]; fn || !celIdentifier.MatchString(name) {
			continue
		}
		decls = append(decls, celgo.Variable(name, celgo.DynType))
	}
	if registry == nil {
		return decls
	}

	call := func(values []ref.Val) ref.Val {
		name, ok := values[0].Value().(string)
		if !ok {
			return types.NewErr("gnuplot: call name must be a string")
		}
		return celResult(registry.Call(name, celArgs(values[1:])...))
	}
	decls = append(decls, celgo.Function("call", celOverloads("call", []*celgo.Type{celgo.StringType}, call)...))
	for _, name := range registry.Names() {
		if !celIdentifier.MatchString(name) {
			continue
		}
		fn := registry.bound(name)
		decls = append(decls, celgo.Function(name, celOverloads(name, nil, func(values []ref.Val) ref.Val {
			return celResult(fn(celArgs(values)...))
		})...))
	}
	return decls
}

// celOverloads declares fn for lead followed by 0 to celMaxArgs dynamic
// arguments.
func celOverloads(name string, lead []*celgo.Type, fn func([]ref.Val) ref.Val) []celgo.FunctionOpt {
	var overloads []celgo.FunctionOpt
	for extra := 0; extra <= celMaxArgs; extra++ {
		params := append([]*celgo.Type(nil), lead...)
		for i := 0; i < extra; i++ {
			params = append(params, celgo.DynType)
		}
		id := fmt.Sprintf("%s_%d", name, len(params))
		var binding celgo.OverloadOpt
		switch len(params) {
		case 0:
			continue
		case 1:
			binding = celgo.UnaryBinding(func(v ref.Val) ref.Val { return fn([]ref.Val{v}) })
		case 2:
			binding = celgo.BinaryBinding(func(a, b ref.Val) ref.Val { return fn([]ref.Val{a, b}) })
		default:
			binding = celgo.FunctionBinding(func(values ...ref.Val) ref.Val { return fn(values) })
		}
		overloads = append(overloads, celgo.Overload(id, params, celgo.DynType, binding))
	}
	return overloads
}

func celArgs(values []ref.Val) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v.Value()
	}
	return args
}

func celResult(result any, err error) ref.Val {
	if err != nil {
		return types.NewErr("%s", err.Error())
	}
	if result == nil {
		return types.NullValue
	}
	return types.DefaultTypeAdapter.NativeToValue(result)
}
