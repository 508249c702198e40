package gnuplot

import (
	"fmt"
	"sort"
	"sync"
)

// Function is a helper callable from rule expressions, by name or through
// call(name, args...).
//
//	registry.Register("isRaster", func(args ...any) (any, error) {
//		name, _ := args[0].(string)
//		return name == "png" || name == "jpeg", nil
//	})
type Function func(args ...any) (any, error)

// FunctionRegistry holds rule helpers by name. Names are case sensitive and
// must not shadow a rule variable such as terminal or options.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{functions: make(map[string]Function)}
}

// Register adds fn under name. Registering a name twice is an error.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	switch {
	case name == "":
		return fmt.Errorf("gnuplot: function name must not be empty")
	case fn == nil:
		return fmt.Errorf("gnuplot: function %q is nil", name)
	}
	if _, reserved := reservedBindings[name]; reserved {
		return fmt.Errorf("gnuplot: function %q shadows a rule variable", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]Function)
	}
	if _, exists := r.functions[name]; exists {
		return fmt.Errorf("gnuplot: function %q already registered", name)
	}
	r.functions[name] = fn
	return nil
}

// Clone copies the registry so later registrations do not leak into
// evaluators built from it.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &FunctionRegistry{functions: make(map[string]Function, len(r.functions))}
	for name, fn := range r.functions {
		clone.functions[name] = fn
	}
	return clone
}

// Call runs the function registered as name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	fn := r.lookup(name)
	if fn == nil {
		return nil, fmt.Errorf("gnuplot: function %q not registered", name)
	}
	return fn(args...)
}

func (r *FunctionRegistry) lookup(name string) Function {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.functions[name]
}

// bound is name's function for direct binding into an engine. Unknown names
// yield a function that reports the miss when called.
func (r *FunctionRegistry) bound(name string) Function {
	if fn := r.lookup(name); fn != nil {
		return fn
	}
	return func(...any) (any, error) {
		return nil, fmt.Errorf("gnuplot: function %q not registered", name)
	}
}

// Names lists the registered names in order.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithFunctionRegistry makes the functions of registry callable from rules
// run by the default engine.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *entityConfig) {
		if registry != nil {
			cfg.functions = registry.Clone()
		}
	}
}

// WithCustomFunction registers a single rule helper. Invalid or duplicate
// names are logged and skipped.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *entityConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		if err := cfg.functions.Register(name, fn); err != nil {
			cfg.log().Warn("gnuplot rule function skipped", "function", name, "error", err)
		}
	}
}
