package gnuplot

import "strings"

// FieldDescriptor describes one option path and the kind stored there.
type FieldDescriptor struct {
	Path string `json:"path" yaml:"path"`
	Kind string `json:"kind" yaml:"kind"`
}

// Describe lists the options of s in store order. Mapping values are
// expanded into dotted paths; a sequence is described by its first element,
// e.g. "[]int".
//
//	Describe(NewStore(KV("term", []any{"png", map[string]any{"size": []int{600, 400}}})))
//	// [{term []text}]
func Describe(s Store) []FieldDescriptor {
	fields := []FieldDescriptor{}
	s.Each(func(key string, value Value) {
		fields = append(fields, describeValue(key, value)...)
	})
	return fields
}

func describeValue(path string, value Value) []FieldDescriptor {
	switch value.Kind() {
	case KindMap:
		nested, _ := value.Store()
		if nested.IsEmpty() {
			return []FieldDescriptor{{Path: path, Kind: KindMap.String()}}
		}
		var fields []FieldDescriptor
		nested.Each(func(key string, child Value) {
			fields = append(fields, describeValue(joinPath(path, key), child)...)
		})
		return fields
	case KindSeq:
		elementKind := "any"
		if items := value.Items(); len(items) > 0 {
			elementKind = items[0].Kind().String()
		}
		return []FieldDescriptor{{Path: path, Kind: "[]" + elementKind}}
	default:
		return []FieldDescriptor{{Path: path, Kind: value.Kind().String()}}
	}
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return strings.Join([]string{prefix, segment}, ".")
}
