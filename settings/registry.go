// Package settings holds process-wide, read-only gnuplot settings. The
// terminal registry is built once (from defaults, a YAML file, or the text
// gnuplot prints for `set terminal`) and never mutated afterwards.
package settings

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// defaultTerminals covers the terminals shipped by common gnuplot builds.
var defaultTerminals = []string{
	"canvas", "cairolatex", "dumb", "emf", "epscairo", "epslatex", "gif",
	"jpeg", "latex", "lua", "pdfcairo", "png", "pngcairo", "postscript",
	"pstricks", "qt", "sixelgd", "svg", "tikz", "unknown", "wxt", "x11",
}

// Registry is an immutable set of terminal names.
type Registry struct {
	names map[string]struct{}
}

// NewRegistry builds a registry from names. Blank entries are dropped.
func NewRegistry(names ...string) *Registry {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return &Registry{names: set}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared registry of common terminals.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(defaultTerminals...)
	})
	return defaultRegistry
}

// Contains reports whether name is a supported terminal.
func (r *Registry) Contains(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.names[name]
	return ok
}

// Names returns the registered terminals sorted alphabetically.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.names))
	for name := range r.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered terminals.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

// ParseTerminalList reads the listing gnuplot prints for `set terminal`:
//
//	Available terminal types:
//	           canvas  HTML Canvas object
//	             dumb  ascii art for anything that prints text
//
// The first word of each indented line is taken as a terminal name.
func ParseTerminalList(r io.Reader) (*Registry, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || (line[0] != ' ' && line[0] != '\t') {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		names = append(names, fields[0])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("settings: read terminal list: %w", err)
	}
	return NewRegistry(names...), nil
}

type registryDocument struct {
	Terminals []string `yaml:"terminals"`
}

// LoadYAML reads a document of the form `terminals: [png, svg, ...]`.
func LoadYAML(r io.Reader) (*Registry, error) {
	var doc registryDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return NewRegistry(), nil
		}
		return nil, fmt.Errorf("settings: decode terminals: %w", err)
	}
	return NewRegistry(doc.Terminals...), nil
}
