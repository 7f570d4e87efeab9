package fields

import "strings"

// Record is one entry of a lookup store.
type Record struct {
	ID   string
	Name string
}

// Store resolves record ids to display names.
type Store struct {
	records []Record
}

// NewStore builds a store from records in display order.
func NewStore(records ...Record) *Store {
	return &Store{records: append([]Record(nil), records...)}
}

// Name returns the display name for id.
func (s *Store) Name(id string) (string, bool) {
	if s == nil {
		return "", false
	}
	for _, rec := range s.records {
		if rec.ID == id {
			return rec.Name, true
		}
	}
	return "", false
}

// ID returns the id of the first record whose name matches, case-insensitively.
func (s *Store) ID(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	for _, rec := range s.records {
		if strings.EqualFold(rec.Name, name) {
			return rec.ID, true
		}
	}
	return "", false
}

// Records returns a copy of the store contents.
func (s *Store) Records() []Record {
	if s == nil {
		return nil
	}
	return append([]Record(nil), s.records...)
}

// ConvertDataValue maps a record id to its display name, returning "" when
// the id is empty or unknown.
func ConvertDataValue(value any, store *Store) string {
	id := stringify(value)
	if id == "" {
		return ""
	}
	name, _ := store.Name(id)
	return name
}

// Combo selects one record id from a store.
type Combo struct {
	Base
	store *Store
	value string
}

// NewCombo constructs a combo backed by store.
func NewCombo(store *Store, opts ...Option) *Combo {
	return &Combo{Base: newBase(opts), store: store}
}

// Value returns the selected record id.
func (c *Combo) Value() any { return c.value }

// SetValue selects a record id.
func (c *Combo) SetValue(value any) { c.value = stringify(value) }

// Display returns the display name of the selected record.
func (c *Combo) Display() string { return ConvertDataValue(c.value, c.store) }

// Records lists the selectable records.
func (c *Combo) Records() []Record { return c.store.Records() }

// Reset clears the selection.
func (c *Combo) Reset() {
	c.value = ""
	c.ClearInvalid()
}

// Validate requires a known record when a value is selected.
func (c *Combo) Validate() error {
	if err := c.check(c.value); err != nil {
		return err
	}
	if c.value != "" && c.store != nil {
		if _, ok := c.store.Name(c.value); !ok {
			return errUnknownOption(c.value)
		}
	}
	return nil
}
