package editor

import (
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/errormap"
)

// Host is the surface a session is displayed on. A host that is no longer
// alive causes late responses to be dropped.
type Host interface {
	Alive() bool
}

// LoadEvent is emitted after data has been applied to the fields.
type LoadEvent struct {
	Record Record
	Data   map[string]any
	Report binding.LoadReport
}

// SubmitEvent is emitted after a successful save.
type SubmitEvent struct {
	Record  Record
	Method  string
	URL     string
	Payload any
	Data    any
	IsNew   bool
}

// Option configures a Session.
type Option func(*Session)

// WithRecord selects the record to edit. Without it the session edits a new
// record.
func WithRecord(record Record) Option {
	return func(s *Session) {
		if record.ID != "" {
			s.record = record
		}
	}
}

// WithBinder sets the binder carrying the form's modifiers.
func WithBinder(binder *binding.Binder) Option {
	return func(s *Session) {
		if binder != nil {
			s.binder = binder
		}
	}
}

// WithValidationModifiers rewrites or handles server error entries before
// they are mapped onto fields.
func WithValidationModifiers(mods map[string]errormap.Modifier) Option {
	return func(s *Session) {
		s.validationModifiers = mods
	}
}

// WithHost binds the session to a display host.
func WithHost(host Host) Option {
	return func(s *Session) {
		s.host = host
	}
}

// WithLogger enables session logging.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// OnLoad registers a load listener.
func OnLoad(fn func(LoadEvent)) Option {
	return func(s *Session) {
		if fn != nil {
			s.onLoad = append(s.onLoad, fn)
		}
	}
}

// OnSubmit registers a save listener.
func OnSubmit(fn func(SubmitEvent)) Option {
	return func(s *Session) {
		if fn != nil {
			s.onSubmit = append(s.onSubmit, fn)
		}
	}
}

// OnCancel registers a cancel listener.
func OnCancel(fn func(Record)) Option {
	return func(s *Session) {
		if fn != nil {
			s.onCancel = append(s.onCancel, fn)
		}
	}
}
