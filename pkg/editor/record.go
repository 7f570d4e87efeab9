package editor

import (
	"strings"

	"github.com/google/uuid"
)

// NewRecordPrefix marks ids of records that do not exist on the server yet.
const NewRecordPrefix = "new_"

// Record identifies the resource an editor session works on.
type Record struct {
	ID          string
	ResourceURI string
}

// NewRecord returns a record with a freshly generated unsaved id.
func NewRecord() Record {
	return Record{ID: NewRecordPrefix + uuid.NewString()}
}

// IsNew reports whether the record has not been saved yet.
func (r Record) IsNew() bool {
	return r.ID == "" || strings.HasPrefix(r.ID, NewRecordPrefix)
}

// recordFrom picks up the id and resource URI the server assigned on create.
func recordFrom(data any) (Record, bool) {
	m, ok := data.(map[string]any)
	if !ok {
		return Record{}, false
	}
	id, _ := m["id"].(string)
	if id == "" {
		return Record{}, false
	}
	uri, _ := m["resourceURI"].(string)
	return Record{ID: id, ResourceURI: uri}, true
}
