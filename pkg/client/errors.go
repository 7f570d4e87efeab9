package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formbind/pkg/errormap"
)

var (
	// ErrDecode signals a response body that is not valid JSON.
	ErrDecode = errors.New("client: undecodable response")
	// ErrLoadFailure signals a load response without a data object.
	ErrLoadFailure = errors.New("client: response carries no data")
)

// StatusNoResponse marks connection errors that never produced an HTTP
// status (refused connections, timeouts).
const StatusNoResponse = -1

// ConnectionError reports a transport failure or an HTTP error status other
// than a validation response.
type ConnectionError struct {
	Method     string
	URL        string
	Status     int
	StatusText string
	// Detail is the server-provided explanation, when one could be extracted.
	Detail  string
	Timeout bool
	Err     error
}

func (e *ConnectionError) Error() string {
	var b strings.Builder
	b.WriteString("client: ")
	if e.Method != "" {
		fmt.Fprintf(&b, "%s %s: ", e.Method, e.URL)
	}
	switch {
	case e.Timeout:
		b.WriteString("request timed out")
	case e.Status == StatusNoResponse:
		b.WriteString("error communicating with the server")
	default:
		fmt.Fprintf(&b, "server returned an error: ERROR %d: %s", e.Status, e.StatusText)
	}
	if e.Detail != "" {
		b.WriteString(" (")
		b.WriteString(e.Detail)
		b.WriteString(")")
	}
	return b.String()
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// IsAuth reports whether the server rejected the credentials.
func (e *ConnectionError) IsAuth() bool {
	return e.Status == 401 || e.Status == 403
}

// ValidationError carries the server's per-field error entries.
type ValidationError struct {
	Status  int
	Entries []errormap.Entry
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Entries))
	for _, entry := range e.Entries {
		msgs = append(msgs, entry.ID+": "+entry.Msg)
	}
	return "client: validation failed: " + strings.Join(msgs, "; ")
}
