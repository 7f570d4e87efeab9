package navigation

// MenuItem is an action entry in a context menu. Handler receives the bound
// payload when one is available.
type MenuItem struct {
	Text    string
	Handler func(payload any)
	Payload any
}

// Menu is an ordered list of actions sharing a default payload, typically the
// record the menu was opened for.
type Menu struct {
	Payload any
	items   []MenuItem
}

// NewMenu constructs a menu bound to payload.
func NewMenu(payload any) *Menu {
	return &Menu{Payload: payload}
}

// Add appends items.
func (m *Menu) Add(items ...MenuItem) *Menu {
	m.items = append(m.items, items...)
	return m
}

// Items returns the menu entries in insertion order.
func (m *Menu) Items() []MenuItem {
	return append([]MenuItem(nil), m.items...)
}

// Activate runs the item at index with the item's payload, falling back to
// the menu's. It reports false for items without a handler.
func (m *Menu) Activate(index int) bool {
	if index < 0 || index >= len(m.items) {
		return false
	}
	item := m.items[index]
	if item.Handler == nil {
		return false
	}
	payload := item.Payload
	if payload == nil {
		payload = m.Payload
	}
	item.Handler(payload)
	return true
}
