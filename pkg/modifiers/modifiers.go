// Package modifiers collects reusable binding modifiers and field validators
// used by the console forms: password placeholders, boolean coercion, and
// list-valued leaves produced from multi-line text fields.
package modifiers

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-formbind/pkg/binding"
)

// PasswordPlaceholder is the value the server sends instead of a stored
// password. Submitting it unchanged means "keep the current password".
const PasswordPlaceholder = "|$|N|E|X|U|S|$|"

// PasswordToString is a submit modifier: the placeholder becomes nil, other
// non-empty values pass through and empty values become "".
func PasswordToString(value any, _ binding.Panel) any {
	s, _ := value.(string)
	switch {
	case s == PasswordPlaceholder:
		return nil
	case s != "":
		return s
	default:
		return ""
	}
}

// StringContextToBool is a load modifier turning "true"/"false" strings into
// booleans. Non-string values pass through.
func StringContextToBool(value any, _ map[string]any, _ binding.Panel) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	return strings.EqualFold(s, "true")
}

// Passthrough returns the submitted value unchanged.
func Passthrough(value any, _ binding.Panel) any { return value }

// Constant always submits v.
func Constant(v any) binding.SubmitModifier {
	return func(any, binding.Panel) any { return v }
}

// Chain applies modifiers left to right.
func Chain(mods ...binding.SubmitModifier) binding.SubmitModifier {
	return func(value any, panel binding.Panel) any {
		for _, fn := range mods {
			if fn != nil {
				value = fn(value, panel)
			}
		}
		return value
	}
}

// ChainLoad applies load modifiers left to right.
func ChainLoad(mods ...binding.LoadModifier) binding.LoadModifier {
	return func(value any, source map[string]any, panel binding.Panel) any {
		for _, fn := range mods {
			if fn != nil {
				value = fn(value, source, panel)
			}
		}
		return value
	}
}

// LinesFrom is a submit modifier for list leaves: it reads the multi-line
// text field at source and submits one entry per non-blank line.
func LinesFrom(source string) binding.SubmitModifier {
	return func(_ any, panel binding.Panel) any {
		out := []any{}
		for _, line := range sourceLines(panel, source) {
			out = append(out, line)
		}
		return out
	}
}

// PairsFrom is a submit modifier for key/value list leaves: each
// "key<sep>value" line of the text field at source becomes
// {"key": ..., "value": ...}. Lines without sep submit an empty value.
func PairsFrom(source, sep string) binding.SubmitModifier {
	return func(_ any, panel binding.Panel) any {
		out := []any{}
		for _, line := range sourceLines(panel, source) {
			key, value, _ := strings.Cut(line, sep)
			out = append(out, map[string]any{
				"key":   strings.TrimSpace(key),
				"value": strings.TrimSpace(value),
			})
		}
		return out
	}
}

// JoinLines is a load modifier rendering a list leaf as newline-separated
// text, the inverse of LinesFrom.
func JoinLines(value any, _ map[string]any, _ binding.Panel) any {
	list, ok := value.([]any)
	if !ok {
		return value
	}
	parts := make([]string, 0, len(list))
	for _, entry := range list {
		parts = append(parts, fmt.Sprint(entry))
	}
	return strings.Join(parts, "\n")
}

// JoinPairs is a load modifier rendering a key/value list leaf as
// "key<sep>value" lines, the inverse of PairsFrom.
func JoinPairs(sep string) binding.LoadModifier {
	return func(value any, _ map[string]any, _ binding.Panel) any {
		list, ok := value.([]any)
		if !ok {
			return value
		}
		parts := make([]string, 0, len(list))
		for _, entry := range list {
			pair, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			parts = append(parts, fmt.Sprint(pair["key"])+sep+fmt.Sprint(pair["value"]))
		}
		return strings.Join(parts, "\n")
	}
}

// CopyTo is a load modifier that also writes the value into the field at
// target, then returns it unchanged.
func CopyTo(target string) binding.LoadModifier {
	return func(value any, _ map[string]any, panel binding.Panel) any {
		if field, ok := panel.Fields.Lookup(target); ok {
			field.SetValue(value)
		}
		return value
	}
}

func sourceLines(panel binding.Panel, source string) []string {
	field, ok := panel.Fields.Lookup(source)
	if !ok {
		return nil
	}
	text := fmt.Sprint(field.Value())
	if field.Value() == nil {
		text = ""
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

var (
	// ErrIDSpaces is returned by ValidateNoSpaces.
	ErrIDSpaces = errors.New("spaces are not allowed in ID")
	// ErrIDCharacters is returned by ValidateID.
	ErrIDCharacters = errors.New("only letters, digits, underscores(_), hyphens(-), and dots(.) are allowed in ID")

	idPattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
)

// ValidateNoSpaces rejects values containing a space.
func ValidateNoSpaces(value string) error {
	if strings.Contains(value, " ") {
		return ErrIDSpaces
	}
	return nil
}

// ValidateID accepts letters, digits, underscores, hyphens and dots.
func ValidateID(value string) error {
	if !idPattern.MatchString(value) {
		return ErrIDCharacters
	}
	return nil
}
