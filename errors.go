package gnuplot

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedTerminal matches every *ConfigurationError.
	ErrUnsupportedTerminal = errors.New("gnuplot: unsupported terminal")
	// ErrProtocolNotImplemented matches every *ProtocolNotImplementedError.
	ErrProtocolNotImplemented = errors.New("gnuplot: option protocol not implemented")
	// ErrNoEvaluator is returned when rules are configured but no engine is
	// available.
	ErrNoEvaluator = errors.New("gnuplot: evaluator not configured")
)

// ConfigurationError reports a terminal name the gnuplot build does not
// support.
type ConfigurationError struct {
	Terminal string
	Hint     string
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("gnuplot: your gnuplot does not seem to support terminal %q", e.Terminal)
	if e.Hint != "" {
		msg += ", " + e.Hint
	}
	return msg
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrUnsupportedTerminal
}

// ProtocolNotImplementedError is raised (as a panic) when an entity type
// embeds OptionHandling without supplying its own constructor or rebuild
// factory.
type ProtocolNotImplementedError struct {
	Type   string
	Method string
}

func (e *ProtocolNotImplementedError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("gnuplot: %s must implement %s to handle options", e.Type, e.Method)
}

func (e *ProtocolNotImplementedError) Is(target error) bool {
	return target == ErrProtocolNotImplemented
}

// EvaluationError captures evaluator metadata alongside the originating error.
type EvaluationError struct {
	Engine string
	Expr   string
	Rule   string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("gnuplot: %s evaluator %s rule=%s: %v", e.Engine, describeExpression(e.Expr), ruleLabel(e.Rule), e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func ruleLabel(name string) string {
	if name == "" {
		return "unnamed"
	}
	return name
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "gnuplot:") {
		return err
	}
	return fmt.Errorf("gnuplot: %s evaluator: %w", engine, err)
}

func wrapEvaluationError(engine, expr, rule string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Rule == "" {
			evalErr.Rule = rule
		}
		return evalErr
	}

	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Rule:   rule,
		Err:    err,
	}
}
