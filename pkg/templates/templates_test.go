package templates_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/templates"
)

const repoYAML = `
id: ""
name: ""
remoteStorage:
  remoteStorageUrl: ""
  authentication:
    username: ""
    password: ""
aliases: []
`

func repoTemplate() model.Template {
	return model.Template{
		"id":   "",
		"name": "",
		"remoteStorage": map[string]any{
			"remoteStorageUrl": "",
			"authentication": map[string]any{
				"username": "",
				"password": "",
			},
		},
		"aliases": []any{},
	}
}

func TestDecode_YAMLAndJSON(t *testing.T) {
	got, err := templates.Decode([]byte(repoYAML), templates.FormatAuto)
	if err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if diff := cmp.Diff(repoTemplate(), got); diff != "" {
		t.Fatalf("yaml template mismatch (-want +got):\n%s", diff)
	}

	encoded, err := templates.Encode(got)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	again, err := templates.Decode(encoded, templates.FormatAuto)
	if err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if diff := cmp.Diff(repoTemplate(), again); diff != "" {
		t.Fatalf("json template mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_NormalizesYAMLKeys(t *testing.T) {
	got, err := templates.Decode([]byte("ports:\n  8080: \"\"\n"), templates.FormatYAML)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := model.Template{"ports": map[string]any{"8080": ""}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("template mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, err := templates.Decode([]byte("  \n"), templates.FormatAuto); !errors.Is(err, templates.ErrEmptyDocument) {
		t.Fatalf("expected empty document, got %v", err)
	}
	if _, err := templates.Decode([]byte(`["a"]`), templates.FormatJSON); !errors.Is(err, templates.ErrNotObject) {
		t.Fatalf("expected not object, got %v", err)
	}
	if _, err := templates.Decode([]byte(`{"a":`), templates.FormatJSON); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoader_Sources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "repo.yaml")
	if err := os.WriteFile(path, []byte(repoYAML), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"name":"","remoteStorage":{"remoteStorageUrl":""}}`)
	}))
	defer server.Close()

	loader := templates.NewLoader(
		templates.WithFileSystem(fstest.MapFS{"forms/repo.yml": {Data: []byte(repoYAML)}}),
		templates.WithHTTPClient(server.Client()),
	)

	cases := map[string]templates.Source{
		"file": templates.SourceFromFile(path),
		"fs":   templates.SourceFromFS("forms/repo.yml"),
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := loader.Load(context.Background(), src)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if diff := cmp.Diff(repoTemplate(), got); diff != "" {
				t.Fatalf("template mismatch (-want +got):\n%s", diff)
			}
		})
	}

	got, err := loader.Load(context.Background(), templates.SourceFromURL(server.URL+"/repo"))
	if err != nil {
		t.Fatalf("load url: %v", err)
	}
	want := model.Template{"name": "", "remoteStorage": map[string]any{"remoteStorageUrl": ""}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("url template mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_HTTPDisabledByDefault(t *testing.T) {
	_, err := templates.NewLoader().Load(context.Background(), templates.SourceFromURL("http://localhost/repo.json"))
	if err == nil {
		t.Fatalf("expected http sources to be disabled")
	}
}

func TestParseSource(t *testing.T) {
	src, err := templates.ParseSource("https://example.com/t.json")
	if err != nil || src.Kind() != templates.SourceKindURL {
		t.Fatalf("expected url source, got %v %v", src, err)
	}
	src, err = templates.ParseSource("forms/repo.yaml")
	if err != nil || src.Kind() != templates.SourceKindFile {
		t.Fatalf("expected file source, got %v %v", src, err)
	}
	src, err = templates.ParseSource("fs:forms/repo.yml")
	if err != nil || src.Kind() != templates.SourceKindFS || src.Location() != "forms/repo.yml" {
		t.Fatalf("expected fs source, got %v %v", src, err)
	}
	if src.String() != "fs:forms/repo.yml" {
		t.Fatalf("string = %q", src.String())
	}
	for _, raw := range []string{" ", "fs:"} {
		if _, err := templates.ParseSource(raw); !errors.Is(err, templates.ErrEmptySource) {
			t.Fatalf("%q: expected ErrEmptySource, got %v", raw, err)
		}
	}
	if _, err := templates.NewLoader().Load(context.Background(), templates.Source{}); !errors.Is(err, templates.ErrEmptySource) {
		t.Fatalf("zero source: expected ErrEmptySource, got %v", err)
	}
}

const repoOpenAPI = `{
  "openapi": "3.0.3",
  "info": {"title": "repositories", "version": "1.0"},
  "paths": {
    "/repositories": {
      "get": {
        "operationId": "listRepositories",
        "responses": {"200": {"description": "ok"}}
      },
      "post": {
        "operationId": "createRepository",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "properties": {
                  "data": {"$ref": "#/components/schemas/Repository"}
                }
              }
            }
          }
        },
        "responses": {"201": {"description": "created"}}
      }
    },
    "/repositories/{id}": {
      "put": {
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {"$ref": "#/components/schemas/Repository"}
            }
          }
        },
        "responses": {"200": {"description": "ok"}}
      }
    }
  },
  "components": {
    "schemas": {
      "Base": {
        "type": "object",
        "properties": {"id": {"type": "string"}}
      },
      "Repository": {
        "allOf": [{"$ref": "#/components/schemas/Base"}],
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "exposed": {"type": "boolean"},
          "notFoundCacheTTL": {"type": "integer"},
          "priority": {"type": "number"},
          "aliases": {"type": "array", "items": {"type": "string"}},
          "remoteStorage": {
            "type": "object",
            "properties": {
              "remoteStorageUrl": {"type": "string", "format": "uri"},
              "authentication": {
                "type": "object",
                "properties": {
                  "username": {"type": "string"},
                  "password": {"type": "string"}
                }
              }
            }
          }
        }
      }
    }
  }
}`

func TestFromOpenAPI(t *testing.T) {
	want := model.Template{
		"id":               "",
		"name":             "",
		"exposed":          false,
		"notFoundCacheTTL": 0,
		"priority":         0.0,
		"aliases":          []any{},
		"remoteStorage": map[string]any{
			"remoteStorageUrl": "",
			"authentication": map[string]any{
				"username": "",
				"password": "",
			},
		},
	}

	for _, id := range []string{"createRepository", "put:/repositories/{id}", "PUT:/repositories/{id}"} {
		t.Run(id, func(t *testing.T) {
			got, err := templates.FromOpenAPI(context.Background(), []byte(repoOpenAPI), id)
			if err != nil {
				t.Fatalf("from openapi: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("template mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromOpenAPI_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := templates.FromOpenAPI(ctx, []byte(repoOpenAPI), "missing"); !errors.Is(err, templates.ErrOperationNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := templates.FromOpenAPI(ctx, []byte(repoOpenAPI), "listRepositories"); !errors.Is(err, templates.ErrNoRequestSchema) {
		t.Fatalf("expected no request schema, got %v", err)
	}
}

func TestOperations(t *testing.T) {
	ops, err := templates.Operations(context.Background(), []byte(repoOpenAPI))
	if err != nil {
		t.Fatalf("operations: %v", err)
	}
	want := []templates.Operation{
		{ID: "createRepository", Method: "POST", Path: "/repositories"},
		{ID: "put:/repositories/{id}", Method: "PUT", Path: "/repositories/{id}"},
	}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Fatalf("operations mismatch (-want +got):\n%s", diff)
	}
}
