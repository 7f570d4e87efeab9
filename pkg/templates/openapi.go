package templates

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbind/pkg/model"
)

var (
	// ErrOperationNotFound is returned when the requested operation is absent.
	ErrOperationNotFound = errors.New("templates: operation not found")
	// ErrNoRequestSchema is returned for operations without a request body
	// schema.
	ErrNoRequestSchema = errors.New("templates: operation has no request body schema")
)

// requestMediaTypes are tried in order when picking the request schema.
var requestMediaTypes = []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"}

// Operation names an OpenAPI operation that accepts a request body.
type Operation struct {
	ID     string
	Method string
	Path   string
}

func loadOpenAPI(ctx context.Context, raw []byte) (*openapi3.T, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyDocument
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("templates: load openapi document: %w", err)
	}
	return doc, nil
}

func eachOperation(doc *openapi3.T, fn func(op Operation, operation *openapi3.Operation)) {
	if doc.Paths == nil {
		return
	}
	paths := make([]string, 0, doc.Paths.Len())
	for path := range doc.Paths.Map() {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		item := doc.Paths.Value(path)
		if item == nil {
			continue
		}
		methods := item.Operations()
		names := make([]string, 0, len(methods))
		for method := range methods {
			names = append(names, method)
		}
		sort.Strings(names)
		for _, method := range names {
			operation := methods[method]
			id := operation.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			fn(Operation{ID: id, Method: method, Path: path}, operation)
		}
	}
}

// Operations lists the operations of an OpenAPI document that declare a
// request body, sorted by path then method.
func Operations(ctx context.Context, raw []byte) ([]Operation, error) {
	doc, err := loadOpenAPI(ctx, raw)
	if err != nil {
		return nil, err
	}
	var out []Operation
	eachOperation(doc, func(op Operation, operation *openapi3.Operation) {
		if requestSchema(operation) != nil {
			out = append(out, op)
		}
	})
	return out, nil
}

// FromOpenAPI derives a Reference Template from the request body schema of
// operationID. operationID may also be given as "method:path". Objects become
// nodes, arrays become empty list leaves and every other type an empty
// string leaf. A body wrapped in a single "data" object property is
// unwrapped, since the envelope is added on save.
func FromOpenAPI(ctx context.Context, raw []byte, operationID string) (model.Template, error) {
	doc, err := loadOpenAPI(ctx, raw)
	if err != nil {
		return nil, err
	}

	var found *openapi3.Operation
	eachOperation(doc, func(op Operation, operation *openapi3.Operation) {
		if found != nil {
			return
		}
		if op.ID == operationID || strings.EqualFold(op.Method+":"+op.Path, operationID) {
			found = operation
		}
	})
	if found == nil {
		return nil, fmt.Errorf("%w: %s", ErrOperationNotFound, operationID)
	}

	schema := requestSchema(found)
	if schema == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoRequestSchema, operationID)
	}
	if inner := envelopeSchema(schema); inner != nil {
		schema = inner
	}

	node, ok := schemaTemplate(schema, make(map[*openapi3.Schema]bool)).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotObject, operationID)
	}
	return model.Template(node), nil
}

func requestSchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation == nil || operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	content := operation.RequestBody.Value.Content
	for _, mediaType := range requestMediaTypes {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func envelopeSchema(schema *openapi3.Schema) *openapi3.Schema {
	props := properties(schema)
	if len(props) != 1 {
		return nil
	}
	ref, ok := props["data"]
	if !ok || ref == nil || ref.Value == nil || !isObject(ref.Value) {
		return nil
	}
	return ref.Value
}

// schemaTemplate renders a schema as template content. active guards
// against recursive schemas; a recursion point becomes an empty node.
func schemaTemplate(schema *openapi3.Schema, active map[*openapi3.Schema]bool) any {
	if schema == nil {
		return ""
	}
	if active[schema] {
		return map[string]any{}
	}
	switch {
	case isObject(schema):
		active[schema] = true
		defer delete(active, schema)
		node := make(map[string]any)
		for name, ref := range properties(schema) {
			if ref == nil || ref.Value == nil {
				node[name] = ""
				continue
			}
			node[name] = schemaTemplate(ref.Value, active)
		}
		return node
	case schema.Type == nil:
		return ""
	case schema.Type.Is(openapi3.TypeArray):
		return []any{}
	case schema.Type.Is(openapi3.TypeBoolean):
		return false
	case schema.Type.Is(openapi3.TypeInteger):
		return 0
	case schema.Type.Is(openapi3.TypeNumber):
		return 0.0
	default:
		return ""
	}
}

func isObject(schema *openapi3.Schema) bool {
	if schema.Type != nil && schema.Type.Is(openapi3.TypeObject) {
		return true
	}
	return len(properties(schema)) > 0
}

// properties merges a schema's own properties with those of its allOf parts.
func properties(schema *openapi3.Schema) openapi3.Schemas {
	if len(schema.AllOf) == 0 {
		return schema.Properties
	}
	merged := make(openapi3.Schemas, len(schema.Properties))
	for _, part := range schema.AllOf {
		if part == nil || part.Value == nil {
			continue
		}
		for name, ref := range properties(part.Value) {
			merged[name] = ref
		}
	}
	for name, ref := range schema.Properties {
		merged[name] = ref
	}
	return merged
}
