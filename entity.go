package gnuplot

import "fmt"

// Configurable is the option protocol shared by datasets, plots and
// multiplots. Implementations supply the store accessors and a rebuild
// factory; the combinators below (With, Apply, Get, Set, SetInPlace) are
// written once in terms of them.
type Configurable[E any] interface {
	// OptionStore returns the current options. A never-set store is empty.
	OptionStore() Store
	// NewWithOptions builds a new entity of the same shape carrying options.
	// The receiver is left untouched.
	NewWithOptions(options Store) E
	// ReplaceOptions swaps the receiver's own store.
	ReplaceOptions(options Store)
}

// OptionHandling holds an entity's option store and is meant to be embedded.
// Embedding types must define their own NewWithOptions; the promoted one
// panics with a *ProtocolNotImplementedError.
type OptionHandling[E any] struct {
	options Store
}

// OptionStore implements Configurable.
func (h *OptionHandling[E]) OptionStore() Store {
	return h.options
}

// ReplaceOptions implements Configurable.
func (h *OptionHandling[E]) ReplaceOptions(options Store) {
	h.options = options
}

// NewWithOptions fails fast: the embedding type forgot to define its factory.
func (h *OptionHandling[E]) NewWithOptions(Store) E {
	panic(&ProtocolNotImplementedError{Type: entityTypeName[E](), Method: "NewWithOptions"})
}

func entityTypeName[E any]() string {
	var zero E
	return fmt.Sprintf("%T", zero)
}

// optionsObserver is implemented by entities that report destructive option
// changes.
type optionsObserver interface {
	optionsApplied(before, after Store)
}

// With returns e unchanged when pairs is empty, otherwise a new entity whose
// options are e's merged with pairs. e is never mutated.
func With[E Configurable[E]](e E, pairs ...Pair) E {
	if len(pairs) == 0 {
		return e
	}
	return e.NewWithOptions(e.OptionStore().Merge(pairs...))
}

// Apply merges pairs into e's own store and returns e.
func Apply[E Configurable[E]](e E, pairs ...Pair) E {
	before := e.OptionStore()
	after := before.Merge(pairs...)
	e.ReplaceOptions(after)
	if observer, ok := any(e).(optionsObserver); ok && len(pairs) > 0 {
		observer.optionsApplied(before, after)
	}
	return e
}

// Get reads one option. Values assigned through Set are stored as sequences;
// a one-element sequence is unwrapped.
func Get[E Configurable[E]](e E, key string) (Value, bool) {
	value, ok := e.OptionStore().Get(key)
	if !ok {
		return Value{}, false
	}
	if value.kind == KindSeq && len(value.seq) == 1 {
		return value.seq[0], true
	}
	return value, true
}

// Set returns a new entity with key assigned to values.
func Set[E Configurable[E]](e E, key string, values ...any) E {
	return With(e, Pair{Key: key, Value: packValues(values)})
}

// SetInPlace assigns key to values on e itself.
func SetInPlace[E Configurable[E]](e E, key string, values ...any) E {
	return Apply(e, Pair{Key: key, Value: packValues(values)})
}

func packValues(values []any) Value {
	items := make([]Value, len(values))
	for i, v := range values {
		items[i] = ValueOf(v)
	}
	return Value{kind: KindSeq, seq: items}
}
