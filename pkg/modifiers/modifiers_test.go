package modifiers_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/fields"
	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/modifiers"
)

func TestPasswordToString(t *testing.T) {
	cases := map[string]struct {
		in   any
		want any
	}{
		"placeholder": {in: modifiers.PasswordPlaceholder, want: nil},
		"value":       {in: "secret", want: "secret"},
		"nil":         {in: nil, want: ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := modifiers.PasswordToString(tc.in, binding.Panel{}); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestStringContextToBool(t *testing.T) {
	if got := modifiers.StringContextToBool("True", nil, binding.Panel{}); got != true {
		t.Fatalf("expected true, got %v", got)
	}
	if got := modifiers.StringContextToBool("no", nil, binding.Panel{}); got != false {
		t.Fatalf("expected false, got %v", got)
	}
	if got := modifiers.StringContextToBool(3, nil, binding.Panel{}); got != 3 {
		t.Fatalf("non-strings pass through, got %v", got)
	}
}

func TestPairsRoundTrip(t *testing.T) {
	text := fields.NewText(nil)
	set, err := model.NewFieldSet(model.BindField("propertiesText", text))
	if err != nil {
		t.Fatalf("new field set: %v", err)
	}

	tpl := model.Template{"properties": []any{}}
	load := binding.New(binding.WithLoadModifier("properties", modifiers.ChainLoad(
		modifiers.JoinPairs("="),
		modifiers.CopyTo("propertiesText"),
	)))
	load.Deserialize(map[string]any{"properties": []any{
		map[string]any{"key": "a", "value": "1"},
		map[string]any{"key": "b", "value": "2"},
	}}, set)
	if text.Value() != "a=1\nb=2" {
		t.Fatalf("expected joined pairs, got %q", text.Value())
	}

	text.SetValue("a=1\n\n c = 3 \nflag")
	save := binding.New(binding.WithSubmitModifier("properties", modifiers.PairsFrom("propertiesText", "=")))
	got, err := save.Serialize(tpl, set)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	want := map[string]any{"properties": []any{
		map[string]any{"key": "a", "value": "1"},
		map[string]any{"key": "c", "value": "3"},
		map[string]any{"key": "flag", "value": ""},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("pairs mismatch (-want +got):\n%s", diff)
	}
}

func TestLines(t *testing.T) {
	text := fields.NewText(nil)
	text.SetValue("one\n two\n\n")
	set, err := model.NewFieldSet(model.BindField("routes", text))
	if err != nil {
		t.Fatalf("new field set: %v", err)
	}
	got := modifiers.LinesFrom("routes")(nil, binding.Panel{Fields: set})
	if diff := cmp.Diff([]any{"one", "two"}, got); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
	if joined := modifiers.JoinLines([]any{"one", "two"}, nil, binding.Panel{}); joined != "one\ntwo" {
		t.Fatalf("joined = %v", joined)
	}
	if empty := modifiers.LinesFrom("missing")(nil, binding.Panel{Fields: set}); len(empty.([]any)) != 0 {
		t.Fatalf("missing source should produce an empty list")
	}
}

func TestChainAndConstant(t *testing.T) {
	fn := modifiers.Chain(modifiers.Passthrough, modifiers.Constant("fixed"))
	if got := fn("x", binding.Panel{}); got != "fixed" {
		t.Fatalf("chain = %v", got)
	}
}

func TestValidators(t *testing.T) {
	if err := modifiers.ValidateID("repo-1.releases_x"); err != nil {
		t.Fatalf("valid id rejected: %v", err)
	}
	if err := modifiers.ValidateID("bad/id"); err != modifiers.ErrIDCharacters {
		t.Fatalf("expected ErrIDCharacters, got %v", err)
	}
	if err := modifiers.ValidateNoSpaces("a b"); err != modifiers.ErrIDSpaces {
		t.Fatalf("expected ErrIDSpaces, got %v", err)
	}
}
