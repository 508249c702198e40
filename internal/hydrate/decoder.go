package hydrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Context names the document being decoded in errors and hooks.
type Context struct {
	// Source is usually the file name, "-" for stdin.
	Source string
	// Format is "yaml" or "json".
	Format string
}

// PreHook rewrites the raw payload before it is decoded, e.g. to expand a
// shorthand. Returning nil keeps the payload as passed.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook adjusts or validates the decoded value.
type PostHook[T any] func(Context, *T) error

// DecoderOption configures a Decoder.
type DecoderOption[T any] func(*Decoder[T])

// Decoder turns a parsed YAML or JSON payload into T. Numbers are kept as
// json.Number so integers stay apart from floats.
type Decoder[T any] struct {
	strict bool
	pre    []PreHook
	post   []PostHook[T]
}

// WithStrictFields rejects payload keys T does not declare.
func WithStrictFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) { d.strict = true }
}

func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.pre = append(d.pre, hook)
		}
	}
}

func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.post = append(d.post, hook)
		}
	}
}

func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode runs the pre-hooks on a private copy of payload, decodes it and
// runs the post-hooks on the result.
func (d *Decoder[T]) Decode(ctx Context, payload map[string]any) (T, error) {
	var out T
	if payload == nil {
		return out, fmt.Errorf("hydrate: payload is nil for source %q", ctx.Source)
	}
	fail := func(stage string, err error) (T, error) {
		var zero T
		return zero, fmt.Errorf("hydrate: %s for source %q: %w", stage, ctx.Source, err)
	}

	var current map[string]any
	if err := d.roundTrip(payload, &current, false); err != nil {
		return fail("copy payload", err)
	}
	for _, hook := range d.pre {
		next, err := hook(ctx, current)
		if err != nil {
			return fail("pre-hook", err)
		}
		if next != nil {
			current = next
		}
	}
	if err := d.roundTrip(current, &out, d.strict); err != nil {
		return fail("decode", err)
	}
	for _, hook := range d.post {
		if err := hook(ctx, &out); err != nil {
			return fail("post-hook", err)
		}
	}
	return out, nil
}

// DecodeYAML parses one YAML document from r and decodes it. JSON is valid
// YAML, so this reads both.
func (d *Decoder[T]) DecodeYAML(ctx Context, r io.Reader) (T, error) {
	var zero T
	var payload map[string]any
	if err := yaml.NewDecoder(r).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return zero, fmt.Errorf("hydrate: source %q is empty", ctx.Source)
		}
		return zero, fmt.Errorf("hydrate: parse source %q: %w", ctx.Source, err)
	}
	if ctx.Format == "" {
		ctx.Format = "yaml"
	}
	return d.Decode(ctx, payload)
}

func (d *Decoder[T]) roundTrip(in, out any, strict bool) error {
	buffer, err := json.Marshal(in)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(buffer))
	dec.UseNumber()
	if strict {
		dec.DisallowUnknownFields()
	}
	return dec.Decode(out)
}
