package formbind

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/fields"
	"github.com/goliatone/go-formbind/pkg/model"
)

func repoTemplate() model.Template {
	return model.Template{
		"name":    "",
		"online":  true,
		"members": []any{},
		"proxy": map[string]any{
			"url": "",
			"auth": map[string]any{
				"username": "",
			},
		},
	}
}

func TestFieldsForBindsEveryPath(t *testing.T) {
	set, err := FieldsFor(repoTemplate())
	if err != nil {
		t.Fatalf("FieldsFor: %v", err)
	}

	wantFields := []string{"members", "name", "online", "proxy.auth.username", "proxy.url"}
	if diff := cmp.Diff(wantFields, set.FieldPaths()); diff != "" {
		t.Fatalf("field paths mismatch (-want +got):\n%s", diff)
	}
	wantSections := []string{"proxy", "proxy.auth"}
	if diff := cmp.Diff(wantSections, set.SectionPaths()); diff != "" {
		t.Fatalf("section paths mismatch (-want +got):\n%s", diff)
	}

	online, _ := set.Lookup("online")
	if _, ok := online.(*fields.Checkbox); !ok {
		t.Fatalf("expected checkbox for boolean placeholder, got %T", online)
	}
	members, _ := set.Lookup("members")
	if _, ok := members.(*fields.Hidden); !ok {
		t.Fatalf("expected hidden field for list placeholder, got %T", members)
	}
	name, _ := set.Lookup("name")
	if _, ok := name.(*fields.Text); !ok {
		t.Fatalf("expected text field, got %T", name)
	}
}

func TestFieldsForRoundTrip(t *testing.T) {
	tpl := repoTemplate()
	set, err := FieldsFor(tpl)
	if err != nil {
		t.Fatalf("FieldsFor: %v", err)
	}
	b := binding.New()

	data := map[string]any{
		"name":    "central",
		"online":  false,
		"members": []any{"a", "b"},
		"proxy": map[string]any{
			"url":  "http://mirror",
			"auth": map[string]any{"username": "deploy"},
		},
	}
	b.Deserialize(data, set)
	got, err := b.Serialize(tpl, set)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if diff := cmp.Diff(any(data), got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldsForCollapsedOptionalSection(t *testing.T) {
	tpl := repoTemplate()
	set, err := FieldsFor(tpl,
		WithCollapsed("proxy"),
		WithRequired("name", "proxy.url", "proxy.auth.username"),
	)
	if err != nil {
		t.Fatalf("FieldsFor: %v", err)
	}

	errs := set.Validate()
	if len(errs) != 1 || !errors.Is(errs["name"], fields.ErrRequired) {
		t.Fatalf("expected only name to be required while proxy is collapsed, got %v", errs)
	}

	section, _ := set.Section("proxy")
	section.Expand()
	errs = set.Validate()
	for _, path := range []string{"name", "proxy.url", "proxy.auth.username"} {
		if !errors.Is(errs[path], fields.ErrRequired) {
			t.Fatalf("expected %s to be required once proxy is expanded, got %v", path, errs)
		}
	}
}

func TestFieldsForMultiline(t *testing.T) {
	set, err := FieldsFor(repoTemplate(), WithMultiline("name"))
	if err != nil {
		t.Fatalf("FieldsFor: %v", err)
	}
	field, _ := set.Lookup("name")
	if text := field.(*fields.Text); !text.Multiline() {
		t.Fatalf("expected name to be multiline")
	}
}

func TestFieldsForNilTemplate(t *testing.T) {
	if _, err := FieldsFor(nil); err == nil {
		t.Fatalf("expected error for nil template")
	}
}

func TestApplyValuesReportsUnknownPaths(t *testing.T) {
	set, err := FieldsFor(repoTemplate())
	if err != nil {
		t.Fatalf("FieldsFor: %v", err)
	}

	unknown := ApplyValues(set, map[string]any{
		"name":      "central",
		"proxy.url": "http://mirror",
		"format":    "maven2",
		"proxy":     "x",
	})
	if diff := cmp.Diff([]string{"format", "proxy"}, unknown); diff != "" {
		t.Fatalf("unknown paths mismatch (-want +got):\n%s", diff)
	}

	want := map[string]any{
		"members":             []any{},
		"name":                "central",
		"online":              true,
		"proxy.auth.username": "",
		"proxy.url":           "http://mirror",
	}
	if diff := cmp.Diff(want, set.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldsForKeepsLeafTypes(t *testing.T) {
	tpl := model.Template{
		"name":    "",
		"port":    0,
		"ratio":   0.0,
		"exposed": false,
		"aliases": []any{},
		"remote":  map[string]any{"retries": 0},
	}
	set, err := FieldsFor(tpl)
	if err != nil {
		t.Fatalf("FieldsFor: %v", err)
	}
	port, _ := set.Lookup("port")
	if _, ok := port.(*fields.Number); !ok {
		t.Fatalf("expected number field for numeric placeholder, got %T", port)
	}

	data := map[string]any{
		"name":    "central",
		"port":    float64(8081),
		"ratio":   0.75,
		"exposed": true,
		"aliases": []any{"c"},
		"remote":  map[string]any{"retries": float64(3)},
	}
	b := binding.New()
	b.Deserialize(data, set)
	got, err := b.Serialize(tpl, set)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if diff := cmp.Diff(any(data), got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	ApplyValues(set, map[string]any{"port": "80.5"})
	if errs := set.Validate(); !errors.Is(errs["port"], fields.ErrNotInteger) {
		t.Fatalf("expected integer placeholder to reject decimals, got %v", errs)
	}
}
