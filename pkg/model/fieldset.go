package model

import (
	"errors"
	"fmt"
	"sort"
)

// Field is a live input handle bound to one dotted path.
type Field interface {
	Value() any
	SetValue(value any)
}

// Disableable is implemented by fields that can be disabled. Disabled fields
// lose lookup ties against enabled fields sharing the same path.
type Disableable interface {
	Disabled() bool
}

// Validatable is implemented by fields that can display server-side errors.
type Validatable interface {
	MarkInvalid(message string)
	ClearInvalid()
}

// Checkable is implemented by fields with client-side validation rules.
type Checkable interface {
	Validate() error
}

// Resettable is implemented by fields that can return to their initial value.
type Resettable interface {
	Reset()
}

// Section is a collapsible group of fields bound to an internal node path.
type Section interface {
	Collapsed() bool
	Expand()
}

// Collapsible is implemented by sections that can also be collapsed
// programmatically.
type Collapsible interface {
	Section
	Collapse()
}

// Binding pairs a dotted path with a field or section handle.
type Binding struct {
	Path    string
	Field   Field
	Section Section
}

// BindField returns a Binding for a field handle.
func BindField(path string, field Field) Binding {
	return Binding{Path: path, Field: field}
}

// BindSection returns a Binding for a section handle.
func BindSection(path string, section Section) Binding {
	return Binding{Path: path, Section: section}
}

// FieldSet is the Flat Field Set: an explicit mapping from dotted paths to
// field and section handles. It is immutable after construction.
type FieldSet struct {
	fields   map[string][]Field
	sections map[string]Section
}

// NewFieldSet validates and indexes the supplied bindings. Several fields may
// share a path (the first enabled one wins on lookup) but a section path may
// only be bound once. All problems are reported together.
func NewFieldSet(bindings ...Binding) (*FieldSet, error) {
	set := &FieldSet{
		fields:   make(map[string][]Field),
		sections: make(map[string]Section),
	}

	var errs []error
	for _, binding := range bindings {
		if err := ValidatePath(binding.Path); err != nil {
			errs = append(errs, err)
			continue
		}
		if binding.Field == nil && binding.Section == nil {
			errs = append(errs, fmt.Errorf("%w: %q", ErrNilHandle, binding.Path))
			continue
		}
		if binding.Field != nil {
			set.fields[binding.Path] = append(set.fields[binding.Path], binding.Field)
		}
		if binding.Section != nil {
			if _, exists := set.sections[binding.Path]; exists {
				errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateSection, binding.Path))
				continue
			}
			set.sections[binding.Path] = binding.Section
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return set, nil
}

// NewFieldSetFor builds a FieldSet and additionally checks every binding
// against the template: fields must sit on leaves and sections on internal
// nodes.
func NewFieldSetFor(tpl Template, bindings ...Binding) (*FieldSet, error) {
	set, err := NewFieldSet(bindings...)
	if err != nil {
		return nil, err
	}
	var errs []error
	for _, path := range set.FieldPaths() {
		if !tpl.IsLeaf(path) {
			errs = append(errs, fmt.Errorf("%w: field %q", ErrUnknownPath, path))
		}
	}
	for _, path := range set.SectionPaths() {
		v, ok := Lookup(tpl, path)
		if !ok || !IsNode(v) {
			errs = append(errs, fmt.Errorf("%w: section %q", ErrUnknownPath, path))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return set, nil
}

// Lookup returns the field bound to path. When several fields share the path
// the first enabled one is returned, otherwise the first registered one.
func (s *FieldSet) Lookup(path string) (Field, bool) {
	if s == nil {
		return nil, false
	}
	candidates := s.fields[path]
	if len(candidates) == 0 {
		return nil, false
	}
	for _, field := range candidates {
		if d, ok := field.(Disableable); ok && d.Disabled() {
			continue
		}
		return field, true
	}
	return candidates[0], true
}

// Section returns the section bound to an internal node path.
func (s *FieldSet) Section(path string) (Section, bool) {
	if s == nil {
		return nil, false
	}
	section, ok := s.sections[path]
	return section, ok
}

// FieldPaths lists bound field paths in sorted order.
func (s *FieldSet) FieldPaths() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.fields))
	for path := range s.fields {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// SectionPaths lists bound section paths in sorted order.
func (s *FieldSet) SectionPaths() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.sections))
	for path := range s.sections {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Each visits every bound field, including shadowed duplicates, in path order.
func (s *FieldSet) Each(fn func(path string, field Field)) {
	if s == nil || fn == nil {
		return
	}
	for _, path := range s.FieldPaths() {
		for _, field := range s.fields[path] {
			fn(path, field)
		}
	}
}

// ClearInvalid removes error markers from every validatable field.
func (s *FieldSet) ClearInvalid() {
	s.Each(func(_ string, field Field) {
		if v, ok := field.(Validatable); ok {
			v.ClearInvalid()
		}
	})
}

// Reset returns every resettable field to its initial value.
func (s *FieldSet) Reset() {
	s.Each(func(_ string, field Field) {
		if r, ok := field.(Resettable); ok {
			r.Reset()
		}
	})
}

// Values snapshots the current value of every looked-up field keyed by path.
func (s *FieldSet) Values() map[string]any {
	if s == nil {
		return nil
	}
	out := make(map[string]any, len(s.fields))
	for _, path := range s.FieldPaths() {
		if field, ok := s.Lookup(path); ok {
			out[path] = field.Value()
		}
	}
	return out
}

// Validate runs client-side validation on every looked-up checkable field and
// returns the failures keyed by path. A nil map means the form is valid.
func (s *FieldSet) Validate() map[string]error {
	if s == nil {
		return nil
	}
	var out map[string]error
	for _, path := range s.FieldPaths() {
		field, _ := s.Lookup(path)
		c, ok := field.(Checkable)
		if !ok {
			continue
		}
		if err := c.Validate(); err != nil {
			if out == nil {
				out = make(map[string]error)
			}
			out[path] = err
		}
	}
	return out
}
