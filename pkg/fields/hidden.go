package fields

// Hidden stores a value as is. It is used for ids and for list leaves whose
// value is produced elsewhere.
type Hidden struct {
	value   any
	initial any
}

// NewHidden constructs a hidden field holding initial.
func NewHidden(initial any) *Hidden {
	return &Hidden{value: initial, initial: initial}
}

// Value returns the stored value.
func (h *Hidden) Value() any { return h.value }

// SetValue replaces the stored value.
func (h *Hidden) SetValue(value any) { h.value = value }

// Reset restores the initial value.
func (h *Hidden) Reset() { h.value = h.initial }
