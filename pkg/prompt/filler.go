// Package prompt fills a Flat Field Set interactively from a terminal. Each
// bound field is asked for in path order using a prompt matching its kind;
// collapsed sections are offered for expansion before their fields.
package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formbind/pkg/fields"
	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/modifiers"
)

// maxAttempts bounds re-prompting for a value that fails validation.
const maxAttempts = 3

// Filler prompts for field values.
type Filler struct {
	driver Driver
	labels map[string]string
	logger zerolog.Logger
}

// Option configures a Filler.
type Option func(*Filler)

// WithLabels sets display labels keyed by field or section path.
func WithLabels(labels map[string]string) Option {
	return func(f *Filler) {
		for path, label := range labels {
			f.labels[path] = label
		}
	}
}

// WithLogger enables debug logging.
func WithLogger(logger zerolog.Logger) Option {
	return func(f *Filler) {
		f.logger = logger
	}
}

// New constructs a Filler. A nil driver selects the survey terminal driver.
func New(driver Driver, options ...Option) *Filler {
	if driver == nil {
		driver = NewSurveyDriver()
	}
	f := &Filler{
		driver: driver,
		labels: make(map[string]string),
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

func (f *Filler) label(path string) string {
	if label, ok := f.labels[path]; ok && label != "" {
		return label
	}
	return path
}

// Fill prompts for every enabled field of set. Fields below a collapsed
// section are skipped unless the user chooses to expand it.
func (f *Filler) Fill(ctx context.Context, set *model.FieldSet) error {
	if set == nil {
		return model.ErrNilHandle
	}
	decided := make(map[string]bool)
	for _, path := range set.FieldPaths() {
		open, err := f.openSections(ctx, set, path, decided)
		if err != nil {
			return err
		}
		if !open {
			f.logger.Debug().Str("path", path).Msg("skipping field in collapsed section")
			continue
		}
		field, _ := set.Lookup(path)
		if d, ok := field.(model.Disableable); ok && d.Disabled() {
			continue
		}
		if err := f.fillField(ctx, path, field); err != nil {
			return fmt.Errorf("prompt: %s: %w", path, err)
		}
	}
	return nil
}

// openSections walks the ancestors of path from the root and reports whether
// all of them are expanded, asking once per collapsed section.
func (f *Filler) openSections(ctx context.Context, set *model.FieldSet, path string, decided map[string]bool) (bool, error) {
	segments := model.SplitPath(path)
	prefix := ""
	for _, segment := range segments[:len(segments)-1] {
		prefix = model.JoinPath(prefix, segment)
		if open, seen := decided[prefix]; seen {
			if !open {
				return false, nil
			}
			continue
		}
		section, ok := set.Section(prefix)
		if !ok || !section.Collapsed() {
			decided[prefix] = true
			continue
		}
		expand, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Configure %s?", f.label(prefix)),
		})
		if err != nil {
			return false, err
		}
		decided[prefix] = expand
		if !expand {
			return false, nil
		}
		section.Expand()
	}
	return true, nil
}

func (f *Filler) fillField(ctx context.Context, path string, field model.Field) error {
	message := f.label(path)
	switch typed := field.(type) {
	case *fields.Hidden:
		return nil
	case *fields.Display:
		return f.driver.Info(ctx, fmt.Sprintf("%s: %v", message, typed.Value()))
	case *fields.Checkbox:
		current, _ := typed.Value().(bool)
		answer, err := f.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: current})
		if err != nil {
			return err
		}
		typed.SetValue(answer)
		return nil
	case *fields.Combo:
		return f.fillCombo(ctx, message, typed)
	case *fields.Text:
		return f.fillText(ctx, path, message, typed)
	case *fields.Number:
		return f.fillNumber(ctx, message, typed)
	default:
		answer, err := f.driver.Input(ctx, InputConfig{Message: message, Default: stringValue(field.Value())})
		if err != nil {
			return err
		}
		field.SetValue(answer)
		return nil
	}
}

func (f *Filler) fillCombo(ctx context.Context, message string, combo *fields.Combo) error {
	records := combo.Records()
	if len(records) == 0 {
		return nil
	}
	options := make([]string, len(records))
	current := -1
	for i, record := range records {
		options[i] = record.Name
		if record.ID == combo.Value() {
			current = i
		}
	}
	idx, err := f.driver.Select(ctx, SelectConfig{Message: message, Options: options, DefaultIndex: current})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(records) {
		return fmt.Errorf("selection %d out of range", idx)
	}
	combo.SetValue(records[idx].ID)
	return nil
}

func (f *Filler) fillText(ctx context.Context, path, message string, text *fields.Text) error {
	secret := isSecret(path)
	for attempt := 1; ; attempt++ {
		answer, err := f.askText(ctx, message, text, secret)
		if err != nil {
			return err
		}
		if secret && answer == "" && text.Raw() == modifiers.PasswordPlaceholder {
			return nil
		}
		previous := text.Raw()
		text.SetValue(answer)
		verr := text.Validate()
		if verr == nil {
			return nil
		}
		text.SetValue(previous)
		if attempt >= maxAttempts {
			return verr
		}
		if err := f.driver.Info(ctx, fmt.Sprintf("%s: %v", message, verr)); err != nil {
			return err
		}
	}
}

func (f *Filler) fillNumber(ctx context.Context, message string, number *fields.Number) error {
	for attempt := 1; ; attempt++ {
		previous := number.Value()
		answer, err := f.driver.Input(ctx, InputConfig{Message: message, Default: stringValue(previous)})
		if err != nil {
			return err
		}
		number.SetValue(answer)
		verr := number.Validate()
		if verr == nil {
			return nil
		}
		number.SetValue(previous)
		if attempt >= maxAttempts {
			return verr
		}
		if err := f.driver.Info(ctx, fmt.Sprintf("%s: %v", message, verr)); err != nil {
			return err
		}
	}
}

func (f *Filler) askText(ctx context.Context, message string, text *fields.Text, secret bool) (string, error) {
	switch {
	case secret:
		return f.driver.Password(ctx, InputConfig{Message: message})
	case text.Multiline():
		return f.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: text.Raw()})
	default:
		return f.driver.Input(ctx, InputConfig{Message: message, Default: text.Raw()})
	}
}

func isSecret(path string) bool {
	segments := model.SplitPath(path)
	last := strings.ToLower(segments[len(segments)-1])
	return strings.Contains(last, "password")
}

func stringValue(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}
