package templates

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// SourceKind says how a Loader reaches a Reference Template document.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// fsPrefix marks template names resolved inside the loader's fs.FS, for
// templates embedded in the binary.
const fsPrefix = "fs:"

// Source names one Reference Template document. The zero Source is empty and
// every Loader rejects it.
type Source struct {
	kind     SourceKind
	location string
}

// Kind returns where the document lives.
func (s Source) Kind() SourceKind { return s.kind }

// Location is the path, embedded name or URL of the document.
func (s Source) Location() string { return s.location }

// IsZero reports whether s names nothing.
func (s Source) IsZero() bool { return s.location == "" }

func (s Source) String() string {
	if s.kind == SourceKindFS {
		return fsPrefix + s.location
	}
	return s.location
}

// SourceFromFile names a template file on disk.
func SourceFromFile(path string) Source {
	return Source{kind: SourceKindFile, location: filepath.Clean(path)}
}

// SourceFromFS names a template embedded in the loader's fs.FS.
func SourceFromFS(name string) Source {
	return Source{kind: SourceKindFS, location: strings.TrimPrefix(name, "/")}
}

// SourceFromURL names a template served over HTTP(S). Invalid URLs panic, so
// it suits literals; user input goes through ParseSource.
func SourceFromURL(raw string) Source {
	src, err := urlSourceFor(raw)
	if err != nil {
		panic(err)
	}
	return src
}

// ParseSource reads a --template style argument: http(s) URLs, "fs:name" for
// embedded templates, and file paths otherwise.
func ParseSource(raw string) (Source, error) {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	switch {
	case raw == "":
		return Source{}, ErrEmptySource
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return urlSourceFor(raw)
	case strings.HasPrefix(lower, fsPrefix):
		name := strings.TrimSpace(raw[len(fsPrefix):])
		if name == "" {
			return Source{}, ErrEmptySource
		}
		return SourceFromFS(name), nil
	default:
		return SourceFromFile(raw), nil
	}
}

func urlSourceFor(raw string) (Source, error) {
	if raw == "" {
		return Source{}, ErrEmptySource
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return Source{}, fmt.Errorf("templates: invalid url %q: %w", raw, err)
	}
	return Source{kind: SourceKindURL, location: raw}, nil
}
