package binding

import (
	"sort"

	"github.com/goliatone/go-formbind/pkg/model"
)

// LoadReport describes the effect of a Deserialize call.
type LoadReport struct {
	// Values holds every leaf value written into a field, keyed by path.
	Values map[string]any
	// Nodes records, for each internal node path, whether any descendant
	// leaf carried a non-empty value.
	Nodes map[string]bool
	// Expanded lists the sections expanded because they received data.
	Expanded []string
	// Skipped lists non-empty leaf paths that had no bound field.
	Skipped []string
}

// Contributed reports whether the internal node at path received data.
func (r LoadReport) Contributed(path string) bool {
	return r.Nodes[path]
}

// Deserialize pushes a data object into the bound fields. Every leaf passes
// through its load modifier, even when empty. Leaves whose final value is
// empty are not written and do not count as contributions. Leaves without a
// bound field are skipped silently. Sections on nodes that received data are
// expanded.
//
// A WholeObject load modifier receives the root object and returns a flat
// path to value map which is applied as is; the walk is skipped.
func (b *Binder) Deserialize(data map[string]any, fields *model.FieldSet) LoadReport {
	panel := b.panelFor(fields)
	report := LoadReport{
		Values: make(map[string]any),
		Nodes:  make(map[string]bool),
	}

	if fn, ok := b.modifiers.Load[WholeObject]; ok {
		flat, _ := fn(data, data, panel).(map[string]any)
		for _, path := range model.SortedKeys(flat) {
			value := flat[path]
			if model.IsEmpty(value) {
				continue
			}
			b.writeField(fields, path, value, &report)
		}
		return report
	}

	b.deserializeNode(panel, fields, data, "", &report)
	sort.Strings(report.Expanded)
	return report
}

func (b *Binder) deserializeNode(panel Panel, fields *model.FieldSet, node map[string]any, prefix string, report *LoadReport) bool {
	contributed := false
	for _, key := range model.SortedKeys(node) {
		path := model.JoinPath(prefix, key)
		raw := node[key]

		child, isNode := model.AsNode(raw)
		if !isNode {
			if b.deserializeLeaf(panel, fields, node, path, raw, report) {
				contributed = true
			}
			continue
		}

		childContributed := b.deserializeNode(panel, fields, child, path, report)
		report.Nodes[path] = childContributed
		if childContributed {
			if section, ok := fields.Section(path); ok {
				section.Expand()
				report.Expanded = append(report.Expanded, path)
			}
			contributed = true
		}
	}
	return contributed
}

func (b *Binder) deserializeLeaf(panel Panel, fields *model.FieldSet, source map[string]any, path string, value any, report *LoadReport) bool {
	if fn, ok := b.modifiers.Load[path]; ok {
		value = fn(value, source, panel)
	}
	if model.IsEmpty(value) {
		return false
	}
	b.writeField(fields, path, value, report)
	return true
}

func (b *Binder) writeField(fields *model.FieldSet, path string, value any, report *LoadReport) {
	field, ok := fields.Lookup(path)
	if !ok {
		report.Skipped = append(report.Skipped, path)
		return
	}
	field.SetValue(value)
	report.Values[path] = value
}
