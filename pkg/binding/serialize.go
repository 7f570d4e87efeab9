package binding

import (
	"github.com/goliatone/go-formbind/pkg/model"
)

// Serialize produces a data object shaped like tpl from the current field
// values. The template is only read. Leaves without a field, or whose field is
// empty, become nil; subtrees bound to a collapsed section become nil as a
// whole. The submit modifier for a path runs exactly once per call, whether
// or not a field exists for it.
//
// When a WholeObject submit modifier is registered its return value is the
// complete result and the template is not visited.
func (b *Binder) Serialize(tpl model.Template, fields *model.FieldSet) (any, error) {
	panel := b.panelFor(fields)

	if fn, ok := b.modifiers.Submit[WholeObject]; ok {
		out := fn(nil, panel)
		b.logger.Debug().Str("panel", panel.ID).Msg("serialized form (whole object)")
		return out, nil
	}
	if tpl == nil {
		return nil, ErrNilTemplate
	}

	out := make(map[string]any, len(tpl))
	b.serializeNode(panel, fields, out, tpl, "")
	b.logger.Debug().Str("panel", panel.ID).Strs("keys", model.SortedKeys(out)).Msg("serialized form")
	return out, nil
}

func (b *Binder) serializeNode(panel Panel, fields *model.FieldSet, acc map[string]any, node map[string]any, prefix string) {
	for _, key := range model.SortedKeys(node) {
		path := model.JoinPath(prefix, key)
		child, isNode := model.AsNode(node[key])
		if !isNode {
			acc[key] = b.serializeLeaf(panel, fields, path)
			continue
		}

		if section, ok := fields.Section(path); ok && section.Collapsed() {
			acc[key] = nil
			continue
		}

		sub := make(map[string]any, len(child))
		b.serializeNode(panel, fields, sub, child, path)
		acc[key] = sub
	}
}

func (b *Binder) serializeLeaf(panel Panel, fields *model.FieldSet, path string) any {
	var value any
	if field, ok := fields.Lookup(path); ok {
		if v := field.Value(); !model.IsEmpty(v) {
			value = v
		}
	}
	if fn, ok := b.modifiers.Submit[path]; ok {
		value = fn(value, panel)
	}
	return value
}
