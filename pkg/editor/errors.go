package editor

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formbind/pkg/errormap"
)

var (
	// ErrBusy is returned when a save is requested while another is in flight.
	ErrBusy = errors.New("editor: save already in progress")
	// ErrStale marks a response that arrived after the session was detached
	// or superseded. Its payload was dropped.
	ErrStale = errors.New("editor: response arrived for a stale session")
	// ErrNoTransport is returned by New without a transport.
	ErrNoTransport = errors.New("editor: transport is required")
	// ErrNoURI is returned by New without a collection URI.
	ErrNoURI = errors.New("editor: collection uri is required")
)

// FailureKind classifies a failed load or save.
type FailureKind int

const (
	// ClientInvalid means local validation rejected the form before sending.
	ClientInvalid FailureKind = iota + 1
	// ConnectFailure covers transport errors and non-validation HTTP errors.
	ConnectFailure
	// LoadFailure means the response could not be decoded or had no data.
	LoadFailure
	// ServerInvalid means the backend rejected the payload with field errors.
	ServerInvalid
)

func (k FailureKind) String() string {
	switch k {
	case ClientInvalid:
		return "client invalid"
	case ConnectFailure:
		return "connect failure"
	case LoadFailure:
		return "load failure"
	case ServerInvalid:
		return "server invalid"
	default:
		return fmt.Sprintf("failure(%d)", int(k))
	}
}

// ActionError wraps a failed load/save together with its classification.
type ActionError struct {
	Action string
	Kind   FailureKind
	// Fields holds client-side validation failures keyed by path.
	Fields map[string]error
	// Result holds the mapped server validation errors.
	Result errormap.Result
	Err    error
}

func (e *ActionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "editor: %s failed (%s)", e.Action, e.Kind)
	switch {
	case len(e.Fields) > 0:
		paths := make([]string, 0, len(e.Fields))
		for path := range e.Fields {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		b.WriteString(": ")
		for i, path := range paths {
			if i > 0 {
				b.WriteString("; ")
			}
			fmt.Fprintf(&b, "%s: %v", path, e.Fields[path])
		}
	case e.Err != nil:
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ActionError) Unwrap() error { return e.Err }

// IsKind reports whether err is an ActionError of the given kind.
func IsKind(err error, kind FailureKind) bool {
	var ae *ActionError
	return errors.As(err, &ae) && ae.Kind == kind
}
