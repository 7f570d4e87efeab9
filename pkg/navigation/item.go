package navigation

import "strings"

// Kind classifies how an item is activated.
type Kind int

const (
	// KindCustom items carry only a title; the host decides what they do.
	KindCustom Kind = iota
	// KindLink items open an external Href.
	KindLink
	// KindTab items open (or focus) the tab identified by TabID.
	KindTab
	// KindHandler items call Handler.
	KindHandler
)

// Item is a single navigation entry.
type Item struct {
	Title    string
	Href     string
	TabID    string
	TabTitle string
	Handler  func()
	// Disabled items are dropped when the item is attached. Their tab id is
	// still recorded as supported.
	Disabled bool
}

// Kind reports the activation style. Href wins over handlers, and handlers
// win over tabs.
func (i Item) Kind() Kind {
	switch {
	case i.Href != "":
		return KindLink
	case i.Handler != nil:
		return KindHandler
	case i.TabID != "":
		return KindTab
	default:
		return KindCustom
	}
}

// TabLabel is the title of the tab opened by the item.
func (i Item) TabLabel() string {
	if i.TabTitle != "" {
		return i.TabTitle
	}
	return i.Title
}

// TabOpener opens or focuses a tab.
type TabOpener interface {
	OpenTab(tabID, title string)
}

// Activate runs the item's action. Links are not activated here and report
// false, as does a tab item without an opener.
func (i Item) Activate(opener TabOpener) bool {
	switch i.Kind() {
	case KindHandler:
		i.Handler()
		return true
	case KindTab:
		if opener == nil {
			return false
		}
		opener.OpenTab(i.TabID, i.TabLabel())
		return true
	default:
		return false
	}
}

// lessTitle orders titles case-insensitively.
func lessTitle(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}
