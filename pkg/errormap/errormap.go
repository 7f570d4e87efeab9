// Package errormap maps the backend validation error envelope onto the Flat
// Field Set. Entries are matched to fields by dotted path (tolerating JSON
// pointer and wrapper prefixes such as "data."), validation modifiers can
// rename or consume entries first, and a lone entry with id "*" is reported
// as a global configuration error instead of a field marker.
package errormap

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbind/pkg/model"
)

// GlobalID is the entry id denoting a form-wide configuration error.
const GlobalID = model.PathStar

// Entry is one item of the {"errors": [...]} envelope.
type Entry struct {
	ID  string `json:"id"`
	Msg string `json:"msg"`
}

// Envelope is the error response body.
type Envelope struct {
	Errors []Entry `json:"errors"`
}

// Decode parses an error envelope. ok is false when body is not JSON or has
// no errors member.
func Decode(body []byte) (entries []Entry, ok bool) {
	var probe struct {
		Errors *[]Entry `json:"errors"`
	}
	if err := json.Unmarshal(body, &probe); err != nil || probe.Errors == nil {
		return nil, false
	}
	return *probe.Errors, true
}

// GlobalError is a form-wide error shown as a blocking dialog.
type GlobalError struct {
	Title   string
	Message string
}

func (e *GlobalError) Error() string {
	return e.Title + ": " + e.Message
}

// Modifier rewrites or consumes an entry before field matching. When Handle
// is set it receives the entry and the entry is dropped; otherwise a non-empty
// Rename replaces the entry id.
type Modifier struct {
	Rename string
	Handle func(Entry)
}

// Result is the outcome of Apply.
type Result struct {
	// Global is set when the only remaining entry carried GlobalID. No field
	// markers are applied in that case.
	Global *GlobalError
	// Fields maps matched field paths to their messages.
	Fields map[string][]string
	// Form holds messages whose id matched no field.
	Form []string
}

// HasErrors reports whether any error survived modifiers.
func (r Result) HasErrors() bool {
	return r.Global != nil || len(r.Fields) > 0 || len(r.Form) > 0
}

// Apply runs modifiers over entries and marks matching fields invalid. Fields
// implementing model.Validatable receive the first message for their path.
func Apply(fields *model.FieldSet, entries []Entry, modifiers map[string]Modifier) Result {
	remaining := applyModifiers(entries, modifiers)

	var result Result
	if len(remaining) == 0 {
		return result
	}
	if len(remaining) == 1 && remaining[0].ID == GlobalID {
		result.Global = &GlobalError{Title: "Configuration Error", Message: remaining[0].Msg}
		return result
	}

	paths := make(map[string]struct{})
	for _, path := range fields.FieldPaths() {
		paths[path] = struct{}{}
	}

	result.Fields = make(map[string][]string)
	for _, entry := range remaining {
		msg := strings.TrimSpace(entry.Msg)
		if msg == "" {
			continue
		}
		mapped, formLevel := mapErrorPath(entry.ID, paths)
		if formLevel {
			result.Form = append(result.Form, msg)
			continue
		}
		result.Fields[mapped] = append(result.Fields[mapped], msg)
	}

	for path, messages := range result.Fields {
		messages = normalizeMessages(messages)
		result.Fields[path] = messages
		field, ok := fields.Lookup(path)
		if !ok {
			continue
		}
		if v, ok := field.(model.Validatable); ok {
			v.MarkInvalid(messages[0])
		}
	}
	if len(result.Fields) == 0 {
		result.Fields = nil
	}
	result.Form = normalizeMessages(result.Form)
	return result
}

func applyModifiers(entries []Entry, modifiers map[string]Modifier) []Entry {
	if len(modifiers) == 0 {
		return append([]Entry(nil), entries...)
	}
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		mod, ok := modifiers[entry.ID]
		if !ok {
			out = append(out, entry)
			continue
		}
		if mod.Handle != nil {
			mod.Handle(entry)
			continue
		}
		if mod.Rename != "" {
			entry.ID = mod.Rename
		}
		out = append(out, entry)
	}
	return out
}

// normalizeMessages trims, drops blanks and de-duplicates while keeping order.
func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(raw string, fieldPaths map[string]struct{}) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == GlobalID {
		return "", true
	}
	if _, ok := fieldPaths[trimmed]; ok {
		return trimmed, false
	}

	segments := parsePathSegments(trimmed)
	if len(segments) == 0 {
		return "", true
	}

	best := ""
	for _, variant := range segmentVariants(segments) {
		if path := longestMatchingPath(variant, fieldPaths); path != "" {
			if len(model.SplitPath(path)) > len(model.SplitPath(best)) {
				best = path
			}
		}
	}
	if best == "" {
		return "", true
	}
	return best, false
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = strings.TrimLeft(clean, "#/.$")
	}
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func segmentVariants(segments []string) [][]string {
	var variants [][]string
	seen := make(map[string]struct{}, 4)
	add := func(candidate []string) {
		if len(candidate) == 0 {
			return
		}
		key := strings.Join(candidate, ".")
		if _, exists := seen[key]; exists {
			return
		}
		seen[key] = struct{}{}
		variants = append(variants, append([]string(nil), candidate...))
	}

	unwrapped := dropWrapperSegments(segments)
	add(segments)
	add(unwrapped)
	add(stripNumericSegments(segments))
	add(stripNumericSegments(unwrapped))
	return variants
}

func dropWrapperSegments(segments []string) []string {
	out := segments
	for len(out) > 0 {
		switch strings.ToLower(out[0]) {
		case "data", "body", "payload", "request":
			out = out[1:]
			continue
		}
		break
	}
	return out
}

func stripNumericSegments(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func longestMatchingPath(segments []string, fieldPaths map[string]struct{}) string {
	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, ok := fieldPaths[candidate]; ok {
			return candidate
		}
	}
	return ""
}
