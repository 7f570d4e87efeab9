package templates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/goliatone/go-formbind/pkg/model"
)

// Loader reads template documents from files, an fs.FS or HTTP.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFileSystem enables fs sources.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(l *Loader) {
		l.fs = files
	}
}

// WithHTTPClient enables URL sources using client.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		if client != nil {
			clone := *client
			l.http = &clone
			l.allowHTTP = true
		}
	}
}

// WithHTTPFallback enables URL sources with a default client and timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(l *Loader) {
		l.allowHTTP = true
		l.timeout = timeout
	}
}

// NewLoader constructs a Loader. URL sources are disabled unless an HTTP
// option is supplied.
func NewLoader(options ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	if l.allowHTTP && l.http == nil {
		l.http = &http.Client{Timeout: l.timeout}
	}
	return l
}

// Read fetches the raw document behind src.
func (l *Loader) Read(ctx context.Context, src Source) ([]byte, error) {
	if src.IsZero() {
		return nil, ErrEmptySource
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch src.Kind() {
	case SourceKindFile:
		return readFile(src.Location())
	case SourceKindFS:
		if l.fs == nil {
			return nil, errors.New("templates: filesystem is not configured")
		}
		return fs.ReadFile(l.fs, src.Location())
	case SourceKindURL:
		if !l.allowHTTP {
			return nil, errors.New("templates: http support disabled")
		}
		return l.readHTTP(ctx, src.Location())
	default:
		return nil, fmt.Errorf("templates: unsupported source kind %q", src.Kind())
	}
}

// Load reads and decodes the template behind src.
func (l *Loader) Load(ctx context.Context, src Source) (model.Template, error) {
	data, err := l.Read(ctx, src)
	if err != nil {
		return nil, err
	}
	tpl, err := Decode(data, FormatFor(src.Location()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Location(), err)
	}
	return tpl, nil
}

func readFile(path string) ([]byte, error) {
	if path == "" {
		return nil, ErrEmptySource
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

func (l *Loader) readHTTP(ctx context.Context, url string) ([]byte, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("templates: unexpected status " + resp.Status)
	}
	return io.ReadAll(resp.Body)
}
