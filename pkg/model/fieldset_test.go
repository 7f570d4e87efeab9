package model_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/model"
)

type valueField struct {
	value    any
	disabled bool
	invalid  string
	reset    int
}

func (f *valueField) Value() any             { return f.value }
func (f *valueField) SetValue(v any)         { f.value = v }
func (f *valueField) Disabled() bool         { return f.disabled }
func (f *valueField) MarkInvalid(msg string) { f.invalid = msg }
func (f *valueField) ClearInvalid()          { f.invalid = "" }
func (f *valueField) Reset()                 { f.value = nil; f.reset++ }

type section struct{ collapsed bool }

func (s *section) Collapsed() bool { return s.collapsed }
func (s *section) Expand()         { s.collapsed = false }

func TestNewFieldSet_ValidatesPaths(t *testing.T) {
	_, err := model.NewFieldSet(
		model.BindField("", &valueField{}),
		model.BindField("a..b", &valueField{}),
		model.BindField("*", &valueField{}),
		model.BindField(model.PathWholeObject, &valueField{}),
		model.BindField("ok", nil),
		model.BindSection("s", &section{}),
		model.BindSection("s", &section{}),
	)
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	for _, target := range []error{model.ErrInvalidPath, model.ErrReservedPath, model.ErrNilHandle, model.ErrDuplicateSection} {
		if !errors.Is(err, target) {
			t.Fatalf("expected %v in %v", target, err)
		}
	}
}

func TestNewFieldSetFor_ChecksTemplateShape(t *testing.T) {
	tpl := model.Template{
		"name":  "",
		"proxy": map[string]any{"host": "", "port": ""},
	}
	if _, err := model.NewFieldSetFor(tpl,
		model.BindField("name", &valueField{}),
		model.BindField("proxy.host", &valueField{}),
		model.BindSection("proxy", &section{}),
	); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := model.NewFieldSetFor(tpl,
		model.BindField("proxy", &valueField{}),
		model.BindSection("name", &section{}),
		model.BindField("unknown", &valueField{}),
	)
	if !errors.Is(err, model.ErrUnknownPath) {
		t.Fatalf("expected ErrUnknownPath, got %v", err)
	}
}

func TestFieldSet_LookupPrefersEnabled(t *testing.T) {
	first := &valueField{value: "first", disabled: true}
	second := &valueField{value: "second"}
	set, err := model.NewFieldSet(model.BindField("x", first), model.BindField("x", second))
	if err != nil {
		t.Fatalf("new field set: %v", err)
	}
	got, ok := set.Lookup("x")
	if !ok || got != second {
		t.Fatalf("expected enabled field, got %v", got)
	}

	second.disabled = true
	got, _ = set.Lookup("x")
	if got != first {
		t.Fatalf("expected fallback to first registered field")
	}

	if _, ok := set.Lookup("missing"); ok {
		t.Fatalf("missing path must not resolve")
	}
}

func TestFieldSet_ClearInvalidAndReset(t *testing.T) {
	a := &valueField{value: "a", invalid: "bad"}
	b := &valueField{value: "b", invalid: "bad"}
	set, err := model.NewFieldSet(model.BindField("a", a), model.BindField("b", b))
	if err != nil {
		t.Fatalf("new field set: %v", err)
	}

	if diff := cmp.Diff(map[string]any{"a": "a", "b": "b"}, set.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	set.ClearInvalid()
	set.Reset()
	if a.invalid != "" || b.invalid != "" {
		t.Fatalf("expected invalid markers cleared")
	}
	if a.reset != 1 || b.reset != 1 {
		t.Fatalf("expected reset to visit each field once")
	}
}

func TestTemplate_Walk(t *testing.T) {
	tpl := model.Template{
		"id": "",
		"remote": map[string]any{
			"url":  "",
			"auth": map[string]any{"user": ""},
		},
		"tags": []any{},
	}

	if diff := cmp.Diff([]string{"id", "remote.auth.user", "remote.url", "tags"}, tpl.Leaves()); diff != "" {
		t.Fatalf("leaves mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"remote", "remote.auth"}, tpl.Nodes()); diff != "" {
		t.Fatalf("nodes mismatch (-want +got):\n%s", diff)
	}
	if !tpl.IsLeaf("tags") || tpl.IsLeaf("remote") || !tpl.Has("remote") {
		t.Fatalf("leaf/node classification wrong")
	}
}

func TestAssignAndLookup(t *testing.T) {
	root := map[string]any{"a": "scalar"}
	model.Assign(root, "a.b.c", 1)
	model.Assign(root, "d", "x")

	v, ok := model.Lookup(root, "a.b.c")
	if !ok || v != 1 {
		t.Fatalf("expected nested value, got %v (%v)", v, ok)
	}
	if _, ok := model.Lookup(root, "d.e"); ok {
		t.Fatalf("lookup through a leaf must fail")
	}
}

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		value any
		want  bool
	}{
		{nil, true},
		{"", true},
		{" ", false},
		{[]any{}, true},
		{[]string{}, true},
		{map[string]any{}, true},
		{0, false},
		{false, false},
		{[]any{"x"}, false},
	}
	for _, tc := range cases {
		if got := model.IsEmpty(tc.value); got != tc.want {
			t.Fatalf("IsEmpty(%#v) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestPathHelpers(t *testing.T) {
	if got := model.JoinPath("", "name"); got != "name" {
		t.Fatalf("JoinPath root = %q", got)
	}
	if got := model.JoinPath("a.b", "c"); got != "a.b.c" {
		t.Fatalf("JoinPath nested = %q", got)
	}
	if got := model.ParentPath("a.b.c"); got != "a.b" {
		t.Fatalf("ParentPath = %q", got)
	}
	if got := model.ParentPath("a"); got != "" {
		t.Fatalf("ParentPath top = %q", got)
	}
}
