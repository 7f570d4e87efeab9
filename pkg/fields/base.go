package fields

import (
	"errors"
	"fmt"
)

// ErrRequired is returned by Validate when a required field is blank.
var ErrRequired = errors.New("fields: value is required")

// ErrUnknownOption is returned by Combo.Validate for ids missing from the store.
var ErrUnknownOption = errors.New("fields: unknown option")

func errUnknownOption(id string) error {
	return fmt.Errorf("%w %q", ErrUnknownOption, id)
}

// Validator checks a field's string form. Returning nil accepts the value.
type Validator func(value string) error

// Base carries the state shared by every editable field: enablement, the
// required flag, validators and the current invalid marker.
type Base struct {
	disabled   bool
	allowBlank bool
	invalid    string
	validators []Validator
}

func newBase(opts []Option) Base {
	base := Base{allowBlank: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&base)
		}
	}
	return base
}

// Option configures the shared field state.
type Option func(*Base)

// Required marks the field as not allowing blank values.
func Required() Option {
	return func(b *Base) {
		b.allowBlank = false
	}
}

// Disabled starts the field disabled.
func Disabled() Option {
	return func(b *Base) {
		b.disabled = true
	}
}

// WithValidator appends a validator run by Validate on non-blank values.
func WithValidator(fn Validator) Option {
	return func(b *Base) {
		if fn != nil {
			b.validators = append(b.validators, fn)
		}
	}
}

// Disabled reports whether the field is disabled.
func (b *Base) Disabled() bool { return b.disabled }

// SetDisabled toggles enablement.
func (b *Base) SetDisabled(disabled bool) { b.disabled = disabled }

// AllowBlank reports whether blank values pass validation.
func (b *Base) AllowBlank() bool { return b.allowBlank }

// SetAllowBlank toggles the required flag.
func (b *Base) SetAllowBlank(allow bool) { b.allowBlank = allow }

// MarkInvalid records a server-side error message.
func (b *Base) MarkInvalid(message string) { b.invalid = message }

// ClearInvalid drops the error message.
func (b *Base) ClearInvalid() { b.invalid = "" }

// Invalid returns the current error message, if any.
func (b *Base) Invalid() string { return b.invalid }

func (b *Base) check(raw string) error {
	if b.disabled {
		return nil
	}
	if raw == "" {
		if b.allowBlank {
			return nil
		}
		return ErrRequired
	}
	for _, fn := range b.validators {
		if err := fn(raw); err != nil {
			return err
		}
	}
	return nil
}

func stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprint(typed)
	}
}
