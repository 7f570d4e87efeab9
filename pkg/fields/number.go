package fields

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNotNumber is returned by Number.Validate for text that does not parse.
var ErrNotNumber = errors.New("fields: not a valid number")

// ErrNotInteger is returned by Number.Validate when decimals are not allowed.
var ErrNotInteger = errors.New("fields: decimal values are not allowed")

// ErrOutOfRange is returned by Number.Validate for values outside the range.
var ErrOutOfRange = errors.New("fields: value out of range")

// Number holds a numeric value. Its Value is a float64, or nil when blank.
// Text that does not parse is kept as is so Validate can report it.
type Number struct {
	Base
	raw     string
	integer bool
	lo, hi  *float64
}

// NumberOption configures a Number field.
type NumberOption func(*Number)

// Integer rejects values with a fractional part.
func Integer() NumberOption {
	return func(n *Number) { n.integer = true }
}

// Range bounds accepted values, inclusive.
func Range(lo, hi float64) NumberOption {
	return func(n *Number) {
		n.lo = &lo
		n.hi = &hi
	}
}

// NewNumber constructs a blank number field.
func NewNumber(opts []Option, numberOpts ...NumberOption) *Number {
	n := &Number{Base: newBase(opts)}
	for _, opt := range numberOpts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

// Value returns the parsed number, the unparsed text, or nil when blank.
func (n *Number) Value() any {
	if n.raw == "" {
		return nil
	}
	if f, ok := n.parse(); ok {
		return f
	}
	return n.raw
}

// SetValue accepts Go numeric types, json.Number and numeric strings.
func (n *Number) SetValue(value any) {
	switch typed := value.(type) {
	case nil:
		n.raw = ""
	case float64:
		n.raw = strconv.FormatFloat(typed, 'f', -1, 64)
	case float32:
		n.raw = strconv.FormatFloat(float64(typed), 'f', -1, 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		n.raw = fmt.Sprint(typed)
	case json.Number:
		n.raw = typed.String()
	default:
		n.raw = strings.TrimSpace(stringify(value))
	}
}

// Reset blanks the field and clears the invalid marker.
func (n *Number) Reset() {
	n.raw = ""
	n.ClearInvalid()
}

// Validate applies the required flag, validators, and the numeric rules.
func (n *Number) Validate() error {
	if err := n.check(n.raw); err != nil {
		return err
	}
	if n.raw == "" || n.Disabled() {
		return nil
	}
	f, ok := n.parse()
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotNumber, n.raw)
	}
	if n.integer && f != math.Trunc(f) {
		return ErrNotInteger
	}
	if (n.lo != nil && f < *n.lo) || (n.hi != nil && f > *n.hi) {
		return fmt.Errorf("%w: %v", ErrOutOfRange, f)
	}
	return nil
}

func (n *Number) parse() (float64, bool) {
	f, err := strconv.ParseFloat(n.raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
