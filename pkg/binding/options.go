package binding

import (
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formbind/pkg/model"
)

// WholeObject is the reserved modifier key that bypasses the recursive walk.
const WholeObject = model.PathWholeObject

// Panel is the host context handed to every modifier. Fields is the bound
// Flat Field Set; Extras carries caller-defined values such as lookup stores.
type Panel struct {
	ID     string
	Fields *model.FieldSet
	Extras map[string]any
}

// Extra returns a caller-defined value stored on the panel.
func (p Panel) Extra(key string) (any, bool) {
	if p.Extras == nil {
		return nil, false
	}
	v, ok := p.Extras[key]
	return v, ok
}

// SubmitModifier transforms an outbound leaf value. It receives nil when the
// field is absent or empty and must always return a value.
type SubmitModifier func(value any, panel Panel) any

// LoadModifier transforms an inbound leaf value. It receives every leaf,
// including empty ones, together with the object holding that leaf, and must
// always return a value.
type LoadModifier func(value any, source map[string]any, panel Panel) any

// Modifiers groups the modifier tables for both directions.
type Modifiers struct {
	Load   map[string]LoadModifier
	Submit map[string]SubmitModifier
}

// Option configures a Binder.
type Option func(*Binder)

// WithSubmitModifier registers an outbound modifier for a dotted path or
// WholeObject.
func WithSubmitModifier(path string, fn SubmitModifier) Option {
	return func(b *Binder) {
		if fn == nil {
			return
		}
		if b.modifiers.Submit == nil {
			b.modifiers.Submit = make(map[string]SubmitModifier)
		}
		b.modifiers.Submit[path] = fn
	}
}

// WithLoadModifier registers an inbound modifier for a dotted path or
// WholeObject.
func WithLoadModifier(path string, fn LoadModifier) Option {
	return func(b *Binder) {
		if fn == nil {
			return
		}
		if b.modifiers.Load == nil {
			b.modifiers.Load = make(map[string]LoadModifier)
		}
		b.modifiers.Load[path] = fn
	}
}

// WithModifiers merges full modifier tables into the binder.
func WithModifiers(mods Modifiers) Option {
	return func(b *Binder) {
		for path, fn := range mods.Load {
			WithLoadModifier(path, fn)(b)
		}
		for path, fn := range mods.Submit {
			WithSubmitModifier(path, fn)(b)
		}
	}
}

// WithPanel sets the host context passed to modifiers.
func WithPanel(panel Panel) Option {
	return func(b *Binder) {
		b.panel = panel
	}
}

// WithLogger enables debug tracing of serialized payloads.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Binder) {
		b.logger = logger
	}
}
