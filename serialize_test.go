package gnuplot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSerializeLiteralExamples(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  Value
		want string
	}{
		{"range", "xrange", RangeOf(0, 100), "xrange [0:100]"},
		{"true flag", "multiplot", Bool(true), "multiplot "},
		{"terminal with sub options", "", ValueOf([]any{"png", Map(KV("size", []int{300, 300}))}), "png size 300,300"},
		{"quoted title", "title", Text("Sin"), `title "Sin"`},
		{"separator substitution", "format_x", Text("%.1f"), `format x "%.1f"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Serialize(tc.key, tc.val); got != tc.want {
				t.Fatalf("Serialize(%q) = %q, want %q", tc.key, got, tc.want)
			}
		})
	}
}

func TestSerializeBooleans(t *testing.T) {
	assert.Equal(t, "", Serialize("key", Bool(false)))
	assert.Equal(t, "", SerializeValue(Bool(true)))
	assert.Equal(t, "grid ", Serialize("grid", Bool(true)))
	// Only real booleans render as flags.
	assert.Equal(t, "grid 1", Serialize("grid", Int(1)))
	assert.Equal(t, "grid true", Serialize("grid", Text("true")))
}

func TestSerializeSequenceJoin(t *testing.T) {
	assert.Equal(t, "size 300,200", Serialize("size", ValueOf([]int{300, 200})))
	assert.Equal(t, "style fill solid", Serialize("style", ValueOf([]string{"fill", "solid"})))
	// The first element decides the separator.
	assert.Equal(t, "1,a", SerializeValue(ValueOf([]any{1, "a"})))
	assert.Equal(t, "a 1", SerializeValue(ValueOf([]any{"a", 1})))
	assert.Equal(t, "0.5,1.0", SerializeValue(ValueOf([]float64{0.5, 1})))
}

func TestSerializeNestedMappingQuotesInnerKeys(t *testing.T) {
	term := Map(KV("size", []int{800, 600}), KV("font", "Arial,10"), KV("background", "#ffffff"))
	got := Serialize("term", Seq(Text("pngcairo"), term))
	assert.Equal(t, `term pngcairo size 800,600 font "Arial,10" background "#ffffff"`, got)
}

func TestSerializeQuotingIsOuterKeyOnly(t *testing.T) {
	got := Serialize("title", Map(KV("offset", []int{0, 1})))
	assert.Equal(t, `title "offset 0,1"`, got)
}

func TestSerializeRangeNeverQuoted(t *testing.T) {
	assert.Equal(t, "title [1:2]", Serialize("title", RangeOf(1, 2)))
	assert.Equal(t, "yrange [*:10]", Serialize("yrange", RangeOf("*", 10)))
	assert.Equal(t, "xrange [-1.5:1.5]", Serialize("xrange", RangeOf(-1.5, 1.5)))
}

func TestQuotingPolicyIsCaseInsensitive(t *testing.T) {
	assert.True(t, IsQuoted("TITLE"))
	assert.True(t, IsQuoted("format_cb"))
	assert.False(t, IsQuoted("xrange"))
	assert.Equal(t, `Title "x"`, Serialize("Title", Text("x")))

	policy := QuotedOptions()
	assert.Len(t, policy, 23)
	policy[0] = "mutated"
	assert.False(t, IsQuoted("mutated"))
}

func TestSerializeAbsentValue(t *testing.T) {
	assert.Equal(t, "", Serialize("title", Value{}))
	assert.Equal(t, "", SerializeValue(Value{}))
	assert.Equal(t, "key font \"Arial\"", Serialize("key", Map(KV("font", "Arial"), Pair{Key: "box", Value: Value{}})))

	p, err := NewPlot(
		WithDatasets(NewFormula("x")),
		WithOptions(Pair{Key: "title", Value: Value{}}, KV("grid", true)),
	)
	assert.NoError(t, err)
	got, err := p.Script()
	assert.NoError(t, err)
	assert.Equal(t, "set grid\nplot x\n", got)
}
