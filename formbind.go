// Package formbind scaffolds form field sets from Reference Templates so a
// template can be edited without hand-written field bindings. The binding
// engine itself lives in pkg/binding.
package formbind

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-formbind/pkg/fields"
	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/templates"
)

type scaffold struct {
	collapsed map[string]bool
	required  map[string]bool
	multiline map[string]bool
}

// ScaffoldOption configures FieldsFor.
type ScaffoldOption func(*scaffold)

// WithCollapsed starts the sections at paths collapsed and optional.
func WithCollapsed(paths ...string) ScaffoldOption {
	return func(s *scaffold) {
		for _, path := range paths {
			s.collapsed[path] = true
		}
	}
}

// WithRequired marks the text leaves at paths as required.
func WithRequired(paths ...string) ScaffoldOption {
	return func(s *scaffold) {
		for _, path := range paths {
			s.required[path] = true
		}
	}
}

// WithMultiline renders the text leaves at paths as text areas.
func WithMultiline(paths ...string) ScaffoldOption {
	return func(s *scaffold) {
		for _, path := range paths {
			s.multiline[path] = true
		}
	}
}

// FieldsFor builds a Flat Field Set covering every leaf and node of tpl.
// Boolean placeholders become checkboxes, numeric placeholders number fields
// (integer placeholders reject decimals), list placeholders hidden fields and
// every other leaf a text field. Nodes become sections.
func FieldsFor(tpl model.Template, options ...ScaffoldOption) (*model.FieldSet, error) {
	if tpl == nil {
		return nil, fmt.Errorf("formbind: template is nil")
	}
	cfg := scaffold{
		collapsed: make(map[string]bool),
		required:  make(map[string]bool),
		multiline: make(map[string]bool),
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	groups := make(map[string]*fields.Group)
	var bindings []model.Binding
	for _, path := range tpl.Nodes() {
		collapsed := cfg.collapsed[path]
		group := fields.NewGroup(collapsed, collapsed)
		groups[path] = group
		bindings = append(bindings, model.BindSection(path, group))
	}
	for _, path := range tpl.Leaves() {
		placeholder, _ := model.Lookup(tpl, path)
		field := leafField(placeholder, cfg.required[path], cfg.multiline[path])
		if req, ok := field.(fields.Requirable); ok {
			if group := nearestGroup(groups, path); group != nil {
				group.Add(req, cfg.required[path])
			}
		}
		bindings = append(bindings, model.BindField(path, field))
	}
	for path, group := range groups {
		if parent := nearestGroup(groups, path); parent != nil {
			parent.Nest(group)
		}
	}
	return model.NewFieldSetFor(tpl, bindings...)
}

func leafField(placeholder any, required, multiline bool) model.Field {
	var opts []fields.Option
	if required {
		opts = append(opts, fields.Required())
	}
	switch typed := placeholder.(type) {
	case bool:
		return fields.NewCheckbox(typed)
	case []any:
		return fields.NewHidden([]any{})
	case float64, float32:
		return fields.NewNumber(opts)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fields.NewNumber(opts, fields.Integer())
	default:
		var textOpts []fields.TextOption
		if multiline {
			textOpts = append(textOpts, fields.Multiline())
		}
		return fields.NewText(opts, textOpts...)
	}
}

func nearestGroup(groups map[string]*fields.Group, path string) *fields.Group {
	for parent := model.ParentPath(path); parent != ""; parent = model.ParentPath(parent) {
		if group, ok := groups[parent]; ok {
			return group
		}
	}
	return nil
}

// ApplyValues writes flat path to value pairs into set and returns the
// paths that had no field, sorted.
func ApplyValues(set *model.FieldSet, values map[string]any) []string {
	var unknown []string
	for path, value := range values {
		field, ok := set.Lookup(path)
		if !ok {
			unknown = append(unknown, path)
			continue
		}
		field.SetValue(value)
	}
	sort.Strings(unknown)
	return unknown
}

// NewTemplateLoader constructs a template loader.
func NewTemplateLoader(options ...templates.LoaderOption) *templates.Loader {
	return templates.NewLoader(options...)
}
