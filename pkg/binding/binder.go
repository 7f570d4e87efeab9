package binding

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formbind/pkg/model"
)

// ErrNilTemplate is returned when Serialize is called without a template and
// no WholeObject modifier.
var ErrNilTemplate = errors.New("binding: reference template is nil")

// Binder runs serialize/deserialize walks with a fixed modifier set.
type Binder struct {
	modifiers Modifiers
	panel     Panel
	logger    zerolog.Logger
}

// New constructs a Binder. Without options it has no modifiers and a disabled
// logger.
func New(options ...Option) *Binder {
	b := &Binder{logger: zerolog.Nop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// panelFor returns the configured panel bound to the walked field set.
func (b *Binder) panelFor(fields *model.FieldSet) Panel {
	panel := b.panel
	panel.Fields = fields
	return panel
}

// Envelope wraps a payload in the {"data": ...} shape the backend expects.
func Envelope(payload any) map[string]any {
	return map[string]any{"data": payload}
}
