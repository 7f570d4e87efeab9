package fields

import "html"

// Text is a single-line or multi-line text input.
//
// HTMLDecode unescapes entities on the way in, so values HTML-encoded by the
// REST layer display literally. HTMLConvert also re-encodes on the way out,
// for values that must round-trip encoded.
type Text struct {
	Base
	value       string
	initial     string
	htmlDecode  bool
	htmlConvert bool
	multiline   bool
}

// TextOption configures a Text field.
type TextOption func(*Text)

// HTMLDecode unescapes HTML entities when a value is set.
func HTMLDecode() TextOption {
	return func(t *Text) { t.htmlDecode = true }
}

// HTMLConvert unescapes entities on set and escapes them on read.
func HTMLConvert() TextOption {
	return func(t *Text) { t.htmlConvert = true }
}

// Multiline marks the field as a text area.
func Multiline() TextOption {
	return func(t *Text) { t.multiline = true }
}

// WithInitial sets the value the field returns to on Reset.
func WithInitial(value string) TextOption {
	return func(t *Text) {
		t.initial = value
		t.value = value
	}
}

// NewText constructs a text field.
func NewText(opts []Option, textOpts ...TextOption) *Text {
	t := &Text{Base: newBase(opts)}
	for _, opt := range textOpts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Value returns the current text, re-encoded when HTMLConvert is set.
func (t *Text) Value() any {
	if t.htmlConvert {
		return html.EscapeString(t.value)
	}
	return t.value
}

// SetValue stores the string form of value.
func (t *Text) SetValue(value any) {
	raw := stringify(value)
	if t.htmlDecode || t.htmlConvert {
		raw = html.UnescapeString(raw)
	}
	t.value = raw
}

// Multiline reports whether the field accepts several lines.
func (t *Text) Multiline() bool { return t.multiline }

// Raw returns the text as displayed, without output encoding.
func (t *Text) Raw() string { return t.value }

// Reset restores the initial value and clears the invalid marker.
func (t *Text) Reset() {
	t.value = t.initial
	t.ClearInvalid()
}

// Validate applies the required flag and validators.
func (t *Text) Validate() error {
	return t.check(t.value)
}
