package fields

// Requirable is implemented by fields whose required flag can be toggled.
type Requirable interface {
	SetAllowBlank(allow bool)
}

type member struct {
	field    Requirable
	required bool
}

// Group is a collapsible section. When Optional, collapsing it relaxes the
// required flag of its required members and expanding it restores them, so a
// collapsed optional section never blocks client validation.
type Group struct {
	collapsed bool
	optional  bool
	members   []member
	children  []*Group
}

// NewGroup constructs a group with the given initial collapsed state.
func NewGroup(collapsed, optional bool) *Group {
	return &Group{collapsed: collapsed, optional: optional}
}

// Add registers a member field; required members participate in the optional
// toggling.
func (g *Group) Add(field Requirable, required bool) *Group {
	g.members = append(g.members, member{field: field, required: required})
	if g.optional && required {
		field.SetAllowBlank(g.collapsed)
	}
	return g
}

// Nest registers a child group; toggling propagates into it. Nesting under a
// collapsed optional group relaxes the child's required members at once.
func (g *Group) Nest(child *Group) *Group {
	g.children = append(g.children, child)
	if g.optional && g.collapsed {
		child.setRequired(false)
	}
	return g
}

// Collapsed reports the current state.
func (g *Group) Collapsed() bool { return g.collapsed }

// Expand opens the group.
func (g *Group) Expand() {
	g.collapsed = false
	if g.optional {
		g.setRequired(true)
	}
}

// Collapse closes the group.
func (g *Group) Collapse() {
	g.collapsed = true
	if g.optional {
		g.setRequired(false)
	}
}

func (g *Group) setRequired(required bool) {
	for _, m := range g.members {
		if m.required {
			m.field.SetAllowBlank(!required)
		}
	}
	for _, child := range g.children {
		child.setRequired(required)
	}
}
