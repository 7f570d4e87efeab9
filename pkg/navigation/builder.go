// Package navigation composes the console's navigation panel from sections
// and items contributed by independent modules. Contributions are collected
// by a Builder in any order and resolved once by Build.
package navigation

import (
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Section groups items under a title.
type Section struct {
	ID        string
	Title     string
	Collapsed bool
	Items     []Item
}

// Hidden reports whether the section has nothing to show.
func (s Section) Hidden() bool { return len(s.Items) == 0 }

// Option configures a Builder.
type Option func(*Builder)

// WithLogger enables logging of orphaned items.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// Builder collects sections and items. Items may be added before their
// section; they wait in arrival order and are attached when the section
// appears. Builder is safe for concurrent registration.
type Builder struct {
	mu       sync.Mutex
	sections []*Section
	byID     map[string]*Section
	pending  map[string][]Item
	order    []string
	tabs     map[string]bool
	logger   zerolog.Logger
}

// NewBuilder constructs an empty Builder.
func NewBuilder(options ...Option) *Builder {
	b := &Builder{
		byID:    make(map[string]*Section),
		pending: make(map[string][]Item),
		tabs:    make(map[string]bool),
		logger:  zerolog.Nop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// AddSection appends a section. Items already queued for its id are attached.
// A section reusing an existing id receives its items into the existing one.
func (b *Builder) AddSection(section Section) *Builder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.insertLocked(len(b.sections), section)
	return b
}

// InsertSection places a section at index, clamped to the current bounds.
func (b *Builder) InsertSection(index int, section Section) *Builder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.insertLocked(index, section)
	return b
}

// AddItem contributes items to the section with sectionID.
func (b *Builder) AddItem(sectionID string, items ...Item) *Builder {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := strings.TrimSpace(sectionID)
	if target, ok := b.byID[id]; ok {
		b.attach(target, items)
		return b
	}
	if _, queued := b.pending[id]; !queued {
		b.order = append(b.order, id)
	}
	b.pending[id] = append(b.pending[id], items...)
	return b
}

func (b *Builder) insertLocked(index int, section Section) {
	section.ID = strings.TrimSpace(section.ID)
	items := section.Items
	section.Items = nil

	if section.ID != "" {
		if existing, ok := b.byID[section.ID]; ok {
			b.attach(existing, items)
			return
		}
	}

	target := &Section{ID: section.ID, Title: section.Title, Collapsed: section.Collapsed}
	if index < 0 {
		index = 0
	}
	if index > len(b.sections) {
		index = len(b.sections)
	}
	b.sections = append(b.sections, nil)
	copy(b.sections[index+1:], b.sections[index:])
	b.sections[index] = target

	if target.ID != "" {
		b.byID[target.ID] = target
		if queued, ok := b.pending[target.ID]; ok {
			items = append(items, queued...)
			delete(b.pending, target.ID)
		}
	}
	b.attach(target, items)
}

func (b *Builder) attach(target *Section, items []Item) {
	for _, item := range items {
		if item.TabID != "" && item.Href == "" {
			b.tabs[item.TabID] = true
		}
		if item.Disabled {
			continue
		}
		target.Items = append(target.Items, item)
	}
	sort.SliceStable(target.Items, func(i, j int) bool {
		return lessTitle(target.Items[i].Title, target.Items[j].Title)
	})
}

// Build resolves the registrations into a Panel. The Builder can keep
// receiving contributions afterwards; later Builds reflect them.
func (b *Builder) Build() *Panel {
	b.mu.Lock()
	defer b.mu.Unlock()

	panel := &Panel{
		sections: make([]Section, 0, len(b.sections)),
		tabs:     make(map[string]bool, len(b.tabs)),
	}
	for _, section := range b.sections {
		copied := *section
		copied.Items = append([]Item(nil), section.Items...)
		panel.sections = append(panel.sections, copied)
	}
	for id := range b.tabs {
		panel.tabs[id] = true
	}
	for _, id := range b.order {
		items, ok := b.pending[id]
		if !ok {
			continue
		}
		if panel.orphans == nil {
			panel.orphans = make(map[string][]Item)
		}
		panel.orphans[id] = append([]Item(nil), items...)
		b.logger.Warn().Str("section", id).Int("items", len(items)).Msg("navigation items target a missing section")
	}
	return panel
}

// Panel is the resolved navigation tree.
type Panel struct {
	sections []Section
	tabs     map[string]bool
	orphans  map[string][]Item
}

// Sections returns the visible sections in display order.
func (p *Panel) Sections() []Section {
	out := make([]Section, 0, len(p.sections))
	for _, section := range p.sections {
		if !section.Hidden() {
			out = append(out, section)
		}
	}
	return out
}

// All returns every section including hidden ones.
func (p *Panel) All() []Section {
	return append([]Section(nil), p.sections...)
}

// Section looks a section up by id.
func (p *Panel) Section(id string) (Section, bool) {
	for _, section := range p.sections {
		if section.ID == id {
			return section, true
		}
	}
	return Section{}, false
}

// SupportsTab reports whether a tab item for tabID was registered.
func (p *Panel) SupportsTab(tabID string) bool {
	return p.tabs[tabID]
}

// Orphans returns the items queued for section ids that were never added.
func (p *Panel) Orphans() map[string][]Item {
	return p.orphans
}
