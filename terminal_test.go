package gnuplot

import (
	"errors"
	"testing"

	"github.com/goliatone/go-gnuplot/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidTerminal(t *testing.T) {
	for _, name := range []string{"dumb", "png", "svg", "qt"} {
		assert.NoError(t, ValidTerminal(name), name)
	}

	err := ValidTerminal("not-a-real-terminal")
	require.Error(t, err)
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "not-a-real-terminal", cfgErr.Terminal)
	assert.Contains(t, err.Error(), "not-a-real-terminal")
	assert.ErrorIs(t, err, ErrUnsupportedTerminal)
}

func TestTerminalValidatorValidate(t *testing.T) {
	v := TerminalValidator{Registry: settings.NewRegistry("png", "dumb")}

	assert.NoError(t, v.Validate(NewStore(KV("title", "no terminal"))))
	assert.NoError(t, v.Validate(NewStore(KV("term", "png"))))
	assert.NoError(t, v.Validate(NewStore(KV("term", []any{"dumb", Map(KV("size", []int{80, 25}))}))))

	err := v.Validate(NewStore(KV("term", []any{"qt", Map(KV("persist", true))})))
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "qt", cfgErr.Terminal)
	assert.NotEmpty(t, cfgErr.Hint)
}
