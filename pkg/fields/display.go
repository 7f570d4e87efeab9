package fields

import (
	"fmt"
	"html"
	"strconv"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// Display is a read-only field. It is never validated and its value is shown
// as markup unless HTMLEncode is set; Markup sanitizes the result.
type Display struct {
	value      string
	htmlEncode bool
	format     func(any) string
}

// DisplayOption configures a Display field.
type DisplayOption func(*Display)

// HTMLEncode stores values encoded and decodes them on read.
func HTMLEncode() DisplayOption {
	return func(d *Display) { d.htmlEncode = true }
}

// WithFormat sets the function rendering incoming values.
func WithFormat(fn func(any) string) DisplayOption {
	return func(d *Display) {
		if fn != nil {
			d.format = fn
		}
	}
}

// NewDisplay constructs a plain display field.
func NewDisplay(opts ...DisplayOption) *Display {
	d := &Display{format: stringify}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// NewTimestampDisplay renders millisecond epoch values using layout
// (time.RFC1123 when empty) in loc (time.Local when nil).
func NewTimestampDisplay(layout string, loc *time.Location) *Display {
	return NewDisplay(WithFormat(func(v any) string {
		return FormatTimestamp(v, layout, loc)
	}))
}

// NewByteDisplay renders byte counts with binary units.
func NewByteDisplay() *Display {
	return NewDisplay(WithFormat(func(v any) string {
		n, ok := toFloat(v)
		if !ok {
			return stringify(v)
		}
		return FormatBytes(n)
	}))
}

// Value returns the displayed text.
func (d *Display) Value() any {
	if d.htmlEncode {
		return html.UnescapeString(d.value)
	}
	return d.value
}

// SetValue formats and stores value.
func (d *Display) SetValue(value any) {
	text := d.format(value)
	if d.htmlEncode {
		text = html.EscapeString(text)
	}
	d.value = text
}

// Markup returns the stored value sanitized for embedding as HTML.
func (d *Display) Markup() string {
	return displayPolicy().Sanitize(d.value)
}

// Reset clears the display.
func (d *Display) Reset() { d.value = "" }

var (
	displayPolicyOnce sync.Once
	displayPolicyVal  *bluemonday.Policy
)

func displayPolicy() *bluemonday.Policy {
	displayPolicyOnce.Do(func() {
		displayPolicyVal = bluemonday.UGCPolicy()
	})
	return displayPolicyVal
}

// FormatTimestamp renders a millisecond epoch value. Values that are not
// numeric are returned in their string form.
func FormatTimestamp(value any, layout string, loc *time.Location) string {
	ms, ok := toFloat(value)
	if !ok {
		return stringify(value)
	}
	if layout == "" {
		layout = time.RFC1123
	}
	if loc == nil {
		loc = time.Local
	}
	// second precision, rounded
	secs := int64(ms/1000 + 0.5)
	return time.Unix(secs, 0).In(loc).Format(layout)
}

// FormatBytes renders n as "<n> Bytes", or KB/MB/GB with two decimals.
func FormatBytes(n float64) string {
	switch {
	case n < 1024:
		return strconv.FormatFloat(n, 'f', -1, 64) + " Bytes"
	case n < 1048576:
		return fmt.Sprintf("%.2f KB", n/1024)
	case n < 1073741824:
		return fmt.Sprintf("%.2f MB", n/1048576)
	default:
		return fmt.Sprintf("%.2f GB", n/1073741824)
	}
}

func toFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case string:
		f, err := strconv.ParseFloat(typed, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
