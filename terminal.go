package gnuplot

import "github.com/goliatone/go-gnuplot/settings"

// TerminalOption is the option key that selects the output device.
const TerminalOption = "term"

const terminalHint = "see the supported terminals with settings.Default().Names()"

// TerminalValidator checks terminal names against a registry. The zero value
// uses settings.Default().
type TerminalValidator struct {
	Registry *settings.Registry
}

func (v TerminalValidator) registry() *settings.Registry {
	if v.Registry != nil {
		return v.Registry
	}
	return settings.Default()
}

// IsValid reports whether name is a supported terminal.
func (v TerminalValidator) IsValid(name string) bool {
	return v.registry().Contains(name)
}

// Check returns a *ConfigurationError when name is not supported.
func (v TerminalValidator) Check(name string) error {
	if v.IsValid(name) {
		return nil
	}
	return &ConfigurationError{Terminal: name, Hint: terminalHint}
}

// Validate checks the "term" option of store. A missing option is fine; for a
// sequence such as ["png", {size: [300, 300]}] only the first element names
// the terminal.
func (v TerminalValidator) Validate(store Store) error {
	term, ok := store.Get(TerminalOption)
	if !ok {
		return nil
	}
	if term.Kind() == KindSeq {
		items := term.Items()
		if len(items) == 0 {
			return nil
		}
		term = items[0]
	}
	return v.Check(SerializeValue(term))
}

// ValidTerminal checks name against the default registry.
func ValidTerminal(name string) error {
	return TerminalValidator{}.Check(name)
}
