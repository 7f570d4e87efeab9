// Package templates loads Reference Templates: the nested shape of a save or
// load payload. Templates are read from JSON or YAML documents on disk, in an
// fs.FS or over HTTP, or derived from an OpenAPI request body schema.
package templates

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbind/pkg/model"
)

var (
	// ErrEmptySource is returned for blank source locations.
	ErrEmptySource = errors.New("templates: source location is required")
	// ErrEmptyDocument is returned for documents without content.
	ErrEmptyDocument = errors.New("templates: document is empty")
	// ErrNotObject is returned when a document's root is not an object.
	ErrNotObject = errors.New("templates: document root must be an object")
)

// Format selects the document decoder.
type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor guesses the format from a file name.
func FormatFor(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

// Decode parses a template document. With FormatAuto, documents starting
// with "{" are read as JSON and everything else as YAML.
func Decode(data []byte, format Format) (model.Template, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrEmptyDocument
	}
	if format == FormatAuto {
		format = FormatYAML
		if trimmed[0] == '{' {
			format = FormatJSON
		}
	}

	var root any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(trimmed, &root); err != nil {
			return nil, fmt.Errorf("templates: decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(trimmed, &root); err != nil {
			return nil, fmt.Errorf("templates: decode yaml: %w", err)
		}
		root = normalize(root)
	default:
		return nil, fmt.Errorf("templates: unsupported format %q", format)
	}

	obj, ok := root.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return model.Template(obj), nil
}

// Encode renders a template as indented JSON.
func Encode(tpl model.Template) ([]byte, error) {
	return json.MarshalIndent(tpl, "", "  ")
}

// normalize converts YAML mappings with non-string keys into string keyed
// maps so the result has the same shape as decoded JSON.
func normalize(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		for key, child := range typed {
			typed[key] = normalize(child)
		}
		return typed
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, child := range typed {
			out[fmt.Sprint(key)] = normalize(child)
		}
		return out
	case []any:
		for i, child := range typed {
			typed[i] = normalize(child)
		}
		return typed
	default:
		return value
	}
}
