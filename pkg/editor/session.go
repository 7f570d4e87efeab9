// Package editor hosts a form editing session: it loads a record into a
// Flat Field Set, saves it back through the binding engine and maps server
// validation errors onto the fields.
package editor

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/client"
	"github.com/goliatone/go-formbind/pkg/errormap"
	"github.com/goliatone/go-formbind/pkg/model"
)

// Transport performs the REST calls. *client.Client satisfies it.
type Transport interface {
	Load(ctx context.Context, uri string) (map[string]any, error)
	Save(ctx context.Context, method, uri string, payload any) (client.Response, error)
}

// Session edits one record of a collection.
type Session struct {
	transport           Transport
	uri                 string
	tpl                 model.Template
	fields              *model.FieldSet
	binder              *binding.Binder
	validationModifiers map[string]errormap.Modifier
	host                Host
	logger              zerolog.Logger

	onLoad   []func(LoadEvent)
	onSubmit []func(SubmitEvent)
	onCancel []func(Record)

	mu       sync.Mutex
	record   Record
	saving   bool
	detached bool
	loadSeq  uint64
}

// New creates a session for the collection at uri. tpl is the Reference
// Template of the payload and fields the form's Flat Field Set.
func New(transport Transport, uri string, tpl model.Template, fields *model.FieldSet, options ...Option) (*Session, error) {
	if transport == nil {
		return nil, ErrNoTransport
	}
	if strings.TrimSpace(uri) == "" {
		return nil, ErrNoURI
	}
	if fields == nil {
		return nil, model.ErrNilHandle
	}
	s := &Session{
		transport: transport,
		uri:       strings.TrimRight(uri, "/"),
		tpl:       tpl,
		fields:    fields,
		binder:    binding.New(),
		logger:    zerolog.Nop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.record.ID == "" {
		s.record = NewRecord()
	}
	return s, nil
}

// Record returns the record currently edited.
func (s *Session) Record() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record
}

// Fields returns the session's field set.
func (s *Session) Fields() *model.FieldSet { return s.fields }

// ActionURL is the collection URI for new records, otherwise the record's
// resource URI or the collection URI joined with the record id.
func (s *Session) ActionURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actionURL()
}

func (s *Session) actionURL() string {
	switch {
	case s.record.IsNew():
		return s.uri
	case s.record.ResourceURI != "":
		return s.record.ResourceURI
	default:
		return s.uri + "/" + s.record.ID
	}
}

// SaveMethod is POST for new records and PUT for existing ones.
func (s *Session) SaveMethod() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveMethod()
}

func (s *Session) saveMethod() string {
	if s.record.IsNew() {
		return http.MethodPost
	}
	return http.MethodPut
}

// Detach marks the session as closed. Responses for requests still in flight
// are dropped with ErrStale.
func (s *Session) Detach() {
	s.mu.Lock()
	s.detached = true
	s.mu.Unlock()
}

func (s *Session) stale() bool {
	if s.detached {
		return true
	}
	return s.host != nil && !s.host.Alive()
}

// Load fetches the record and applies it to the fields. New records are not
// fetched; their fields are reset instead. When several loads overlap only
// the latest one is applied.
func (s *Session) Load(ctx context.Context) (binding.LoadReport, error) {
	s.mu.Lock()
	if s.record.IsNew() {
		s.fields.Reset()
		s.fields.ClearInvalid()
		s.mu.Unlock()
		return binding.LoadReport{}, nil
	}
	s.loadSeq++
	seq := s.loadSeq
	record := s.record
	target := s.actionURL()
	s.mu.Unlock()

	s.logger.Debug().Str("url", target).Msg("loading record")
	data, err := s.transport.Load(ctx, target)

	s.mu.Lock()
	if s.stale() || seq != s.loadSeq {
		s.mu.Unlock()
		s.logger.Debug().Str("url", target).Msg("dropping stale load response")
		return binding.LoadReport{}, ErrStale
	}
	listeners := slices.Clone(s.onLoad)
	s.mu.Unlock()
	if err != nil {
		return binding.LoadReport{}, classify("load", err)
	}

	s.fields.ClearInvalid()
	report := s.binder.Deserialize(data, s.fields)

	if len(report.Skipped) > 0 {
		s.logger.Debug().Strs("paths", report.Skipped).Msg("no field bound for loaded values")
	}
	event := LoadEvent{Record: record, Data: data, Report: report}
	for _, fn := range listeners {
		fn(event)
	}
	return report, nil
}

// Save validates the fields, serializes them and sends the payload. Only one
// save runs at a time per session; a concurrent call returns ErrBusy.
func (s *Session) Save(ctx context.Context) (SubmitEvent, error) {
	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return SubmitEvent{}, ErrBusy
	}
	s.saving = true
	event := SubmitEvent{
		Record: s.record,
		Method: s.saveMethod(),
		URL:    s.actionURL(),
		IsNew:  s.record.IsNew(),
	}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.saving = false
		s.mu.Unlock()
	}()

	// Validators and modifiers are caller code and run without the lock.
	if errs := s.fields.Validate(); len(errs) > 0 {
		for path, err := range errs {
			if field, ok := s.fields.Lookup(path); ok {
				if v, ok := field.(model.Validatable); ok {
					v.MarkInvalid(err.Error())
				}
			}
		}
		return SubmitEvent{}, &ActionError{Action: "save", Kind: ClientInvalid, Fields: errs}
	}

	payload, err := s.binder.Serialize(s.tpl, s.fields)
	if err != nil {
		return SubmitEvent{}, &ActionError{Action: "save", Kind: ClientInvalid, Err: err}
	}
	event.Payload = payload

	s.logger.Debug().Str("method", event.Method).Str("url", event.URL).Msg("saving record")
	resp, err := s.transport.Save(ctx, event.Method, event.URL, payload)

	s.mu.Lock()
	if s.stale() {
		s.mu.Unlock()
		s.logger.Debug().Str("url", event.URL).Msg("dropping stale save response")
		return SubmitEvent{}, ErrStale
	}
	if err != nil {
		actionErr := classify("save", err)
		var verr *client.ValidationError
		if errors.As(err, &verr) {
			s.fields.ClearInvalid()
			result := errormap.Apply(s.fields, verr.Entries, s.validationModifiers)
			actionErr.Result = result
			if result.Global != nil {
				actionErr.Err = result.Global
			}
		}
		s.mu.Unlock()
		return SubmitEvent{}, actionErr
	}

	event.Data = resp.Data
	if event.IsNew {
		if record, ok := recordFrom(resp.Data); ok {
			s.record = record
		}
	}
	event.Record = s.record
	listeners := slices.Clone(s.onSubmit)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(event)
	}
	return event, nil
}

// Reset discards local edits. Existing records are reloaded from the server;
// new records have their fields reset.
func (s *Session) Reset(ctx context.Context) error {
	_, err := s.Load(ctx)
	return err
}

// Cancel notifies cancel listeners.
func (s *Session) Cancel() {
	s.mu.Lock()
	record := s.record
	listeners := slices.Clone(s.onCancel)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(record)
	}
}

func classify(action string, err error) *ActionError {
	var verr *client.ValidationError
	switch {
	case errors.As(err, &verr):
		return &ActionError{Action: action, Kind: ServerInvalid, Err: err}
	case errors.Is(err, client.ErrDecode), errors.Is(err, client.ErrLoadFailure):
		return &ActionError{Action: action, Kind: LoadFailure, Err: err}
	default:
		return &ActionError{Action: action, Kind: ConnectFailure, Err: err}
	}
}
