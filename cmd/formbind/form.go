package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	formbind "github.com/goliatone/go-formbind"
	"github.com/goliatone/go-formbind/internal/logging"
	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/modifiers"
	"github.com/goliatone/go-formbind/pkg/templates"
)

// formFlags describe where the Reference Template comes from and how the
// scaffolded form is shaped.
type formFlags struct {
	template  string
	openapi   string
	operation string
	collapsed []string
	required  []string
	multiline []string
	rawSecret bool
}

func (f *formFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.template, "template", "", "Reference Template document (JSON or YAML file, or URL)")
	flags.StringVar(&f.openapi, "openapi", "", "OpenAPI document to derive the template from")
	flags.StringVar(&f.operation, "operation", "", "OpenAPI operation id (or method:path) whose request body is the template")
	flags.StringSliceVar(&f.collapsed, "collapsed", nil, "section paths that start collapsed")
	flags.StringSliceVar(&f.required, "required", nil, "field paths that must not be blank")
	flags.StringSliceVar(&f.multiline, "multiline", nil, "field paths edited as text areas")
	flags.BoolVar(&f.rawSecret, "raw-passwords", false, "send password placeholders instead of dropping them")
}

type form struct {
	tpl    model.Template
	fields *model.FieldSet
	binder *binding.Binder
}

func (f *formFlags) build(ctx context.Context) (*form, error) {
	tpl, err := f.loadTemplate(ctx)
	if err != nil {
		return nil, err
	}
	set, err := formbind.FieldsFor(tpl,
		formbind.WithCollapsed(f.collapsed...),
		formbind.WithRequired(f.required...),
		formbind.WithMultiline(f.multiline...),
	)
	if err != nil {
		return nil, err
	}

	logger := logging.Component(logging.FromContext(ctx), "binding")
	opts := []binding.Option{binding.WithLogger(logger)}
	if !f.rawSecret {
		for _, path := range tpl.Leaves() {
			if logging.IsSensitiveField(lastSegment(path)) {
				opts = append(opts, binding.WithSubmitModifier(path, modifiers.PasswordToString))
			}
		}
	}
	return &form{tpl: tpl, fields: set, binder: binding.New(opts...)}, nil
}

func (f *formFlags) loadTemplate(ctx context.Context) (model.Template, error) {
	switch {
	case f.openapi != "":
		if f.operation == "" {
			return nil, fmt.Errorf("--operation is required with --openapi")
		}
		raw, err := readSource(ctx, f.openapi)
		if err != nil {
			return nil, err
		}
		return templates.FromOpenAPI(ctx, raw, f.operation)
	case f.template != "":
		src, err := templates.ParseSource(f.template)
		if err != nil {
			return nil, err
		}
		return formbind.NewTemplateLoader(templates.WithHTTPFallback(0)).Load(ctx, src)
	default:
		return nil, fmt.Errorf("one of --template or --openapi is required")
	}
}

func readSource(ctx context.Context, location string) ([]byte, error) {
	src, err := templates.ParseSource(location)
	if err != nil {
		return nil, err
	}
	return formbind.NewTemplateLoader(templates.WithHTTPFallback(0)).Read(ctx, src)
}

// valueFlags collect the values to put into the form before saving.
type valueFlags struct {
	data   string
	values string
	set    []string
}

func (v *valueFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&v.data, "data", "", "nested data object (optionally wrapped in {\"data\": ...}) to load first; - for stdin")
	flags.StringVar(&v.values, "values", "", "flat path to value object; - for stdin")
	flags.StringArrayVar(&v.set, "set", nil, "path=value assignment, repeatable")
}

// apply loads --data through the binder, then --values and --set.
func (v *valueFlags) apply(cmd *cobra.Command, f *form) error {
	if v.data != "" {
		data, err := readObject(cmd.InOrStdin(), v.data)
		if err != nil {
			return err
		}
		f.binder.Deserialize(unwrapData(data, f.tpl), f.fields)
	}
	if v.values != "" {
		values, err := readObject(cmd.InOrStdin(), v.values)
		if err != nil {
			return err
		}
		if unknown := formbind.ApplyValues(f.fields, values); len(unknown) > 0 {
			return fmt.Errorf("no field for %s", strings.Join(unknown, ", "))
		}
	}
	assigned := make(map[string]any, len(v.set))
	for _, pair := range v.set {
		path, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(path) == "" {
			return fmt.Errorf("invalid --set %q, want path=value", pair)
		}
		assigned[strings.TrimSpace(path)] = parseScalar(value)
	}
	if unknown := formbind.ApplyValues(f.fields, assigned); len(unknown) > 0 {
		return fmt.Errorf("no field for %s", strings.Join(unknown, ", "))
	}
	return nil
}

func readObject(stdin io.Reader, location string) (map[string]any, error) {
	var (
		raw []byte
		err error
	)
	if location == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(location)
	}
	if err != nil {
		return nil, err
	}
	tpl, err := templates.Decode(raw, templates.FormatFor(location))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	return map[string]any(tpl), nil
}

// unwrapData strips the {"data": ...} envelope when present. When the
// template has a top-level data key itself, only a doubled data key counts as
// an envelope.
func unwrapData(obj map[string]any, tpl model.Template) map[string]any {
	if len(obj) != 1 {
		return obj
	}
	inner, ok := obj["data"].(map[string]any)
	if !ok {
		return obj
	}
	if _, own := tpl["data"]; own {
		if _, doubled := inner["data"]; !doubled {
			return obj
		}
	}
	return inner
}

// parseScalar reads JSON literals (true, 12, ["a"]) and falls back to the raw
// string.
func parseScalar(raw string) any {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err == nil {
		return value
	}
	return raw
}

func lastSegment(path string) string {
	segments := model.SplitPath(path)
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
