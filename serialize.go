package gnuplot

import (
	"sort"
	"strings"
)

// quotedOptions lists options whose values gnuplot only reads when wrapped in
// double quotes. It is never modified after init.
var quotedOptions = map[string]struct{}{
	"title":      {},
	"output":     {},
	"xlabel":     {},
	"x2label":    {},
	"ylabel":     {},
	"y2label":    {},
	"clabel":     {},
	"cblabel":    {},
	"zlabel":     {},
	"rgb":        {},
	"font":       {},
	"background": {},
	"format":     {},
	"format_x":   {},
	"format_y":   {},
	"format_xy":  {},
	"format_x2":  {},
	"format_y2":  {},
	"format_z":   {},
	"format_cb":  {},
	"timefmt":    {},
	"dt":         {},
	"dashtype":   {},
}

// IsQuoted reports whether values of the option named key are rendered in
// double quotes.
func IsQuoted(key string) bool {
	_, ok := quotedOptions[strings.ToLower(key)]
	return ok
}

// QuotedOptions returns the quoting policy, sorted.
func QuotedOptions() []string {
	out := make([]string, 0, len(quotedOptions))
	for key := range quotedOptions {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// renderKey turns an option key into its gnuplot words plus the trailing
// separator: "format_x" becomes "format x ".
func renderKey(key string) string {
	return strings.ReplaceAll(key, "_", " ") + " "
}

// Serialize renders one option assignment.
//
//	Serialize("xrange", RangeOf(0, 100))   // "xrange [0:100]"
//	Serialize("multiplot", Bool(true))     // "multiplot "
//	Serialize("title", Text("Sin"))        // `title "Sin"`
//	Serialize("format_x", Text("%.1f"))    // `format x "%.1f"`
func Serialize(key string, v Value) string {
	if key == "" {
		return SerializeValue(v)
	}
	if v.kind == KindInvalid {
		return ""
	}
	if v.kind == KindBool {
		if v.b {
			return renderKey(key)
		}
		return ""
	}
	text := valueText(v)
	if v.kind != KindRange && IsQuoted(key) {
		text = `"` + text + `"`
	}
	return renderKey(key) + text
}

// SerializeValue renders a value with no key, the form used for sequence
// elements.
//
//	SerializeValue(ValueOf([]any{"png", Map(KV("size", []int{300, 300}))}))
//	// "png size 300,300"
func SerializeValue(v Value) string {
	if v.kind == KindBool || v.kind == KindInvalid {
		return ""
	}
	return valueText(v)
}

func valueText(v Value) string {
	switch v.kind {
	case KindSeq:
		parts := make([]string, len(v.seq))
		for i, item := range v.seq {
			parts[i] = SerializeValue(item)
		}
		sep := " "
		if len(v.seq) > 0 && v.seq[0].IsNumeric() {
			sep = ","
		}
		return strings.Join(parts, sep)
	case KindMap:
		parts := make([]string, 0, v.m.Len())
		v.m.Each(func(key string, value Value) {
			if text := Serialize(key, value); text != "" {
				parts = append(parts, text)
			}
		})
		return strings.Join(parts, " ")
	case KindRange:
		r, _ := v.Range()
		return "[" + SerializeValue(r.Begin) + ":" + SerializeValue(r.End) + "]"
	default:
		return v.scalarText()
	}
}
