package fields

import "strings"

// Checkbox holds a boolean value. Strings "true"/"false" are accepted on set,
// matching payloads that carry booleans as text.
type Checkbox struct {
	Base
	checked bool
	initial bool
}

// NewCheckbox constructs a checkbox with the given initial state.
func NewCheckbox(initial bool, opts ...Option) *Checkbox {
	return &Checkbox{Base: newBase(opts), checked: initial, initial: initial}
}

// Value returns the checked state.
func (c *Checkbox) Value() any { return c.checked }

// SetValue accepts bools and string booleans; anything else unchecks.
func (c *Checkbox) SetValue(value any) {
	switch typed := value.(type) {
	case bool:
		c.checked = typed
	case string:
		c.checked = strings.EqualFold(strings.TrimSpace(typed), "true")
	default:
		c.checked = false
	}
}

// Reset restores the initial state.
func (c *Checkbox) Reset() {
	c.checked = c.initial
	c.ClearInvalid()
}
