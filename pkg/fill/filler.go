// Package fill captures document data interactively. A Filler walks a form
// definition and prompts for each field through a PromptDriver, producing a
// data map ready for document validation.
package fill

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/goliatone/go-docflow/pkg/schema"
)

// skipOption is offered on optional single-select prompts so the field can
// be left unset.
const skipOption = "(none)"

// Filler prompts for form field values.
type Filler struct {
	driver PromptDriver
}

// New creates a Filler on top of a prompt driver.
func New(driver PromptDriver) *Filler {
	return &Filler{driver: driver}
}

// Fill walks the form's fields in order and prompts for each one. Optional
// fields left empty are omitted from the result, so the produced map
// validates cleanly against the form.
func (f *Filler) Fill(ctx context.Context, form schema.FormDefinition) (map[string]any, error) {
	data := make(map[string]any)
	for _, field := range form.Fields() {
		value, set, err := f.prompt(ctx, field)
		if err != nil {
			return nil, err
		}
		if set {
			data[field.ID()] = value
		}
	}
	return data, nil
}

func (f *Filler) prompt(ctx context.Context, field schema.FieldDefinition) (any, bool, error) {
	fieldType := field.Type()
	switch fieldType.Kind {
	case schema.KindText:
		return f.promptText(ctx, field)
	case schema.KindTextArea:
		out, err := f.driver.TextArea(ctx, TextAreaConfig{
			Message: message(field),
			Help:    field.Description(),
		})
		if err != nil {
			return nil, false, err
		}
		if out == "" && !field.Required() {
			return nil, false, nil
		}
		return out, true, nil
	case schema.KindNumber:
		return f.promptNumber(ctx, field, fieldType.Number)
	case schema.KindBoolean:
		out, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: message(field),
			Help:    field.Description(),
		})
		if err != nil {
			return nil, false, err
		}
		return out, true, nil
	case schema.KindDateTime:
		return f.promptDateTime(ctx, field)
	case schema.KindSelect:
		return f.promptSelect(ctx, field, fieldType.Select)
	default:
		return nil, false, fmt.Errorf("fill: unsupported field kind %q", fieldType.Kind)
	}
}

func (f *Filler) promptText(ctx context.Context, field schema.FieldDefinition) (any, bool, error) {
	var validator func(string) error
	if field.Required() {
		validator = requireValue(field.ID())
	}
	out, err := f.driver.Input(ctx, InputConfig{
		Message:   message(field),
		Help:      field.Description(),
		Validator: validator,
	})
	if err != nil {
		return nil, false, err
	}
	if out == "" && !field.Required() {
		return nil, false, nil
	}
	return out, true, nil
}

func (f *Filler) promptNumber(ctx context.Context, field schema.FieldDefinition, cfg *schema.NumberConfig) (any, bool, error) {
	out, err := f.driver.Input(ctx, InputConfig{
		Message:   message(field),
		Help:      numberHelp(field, cfg),
		Validator: numberValidator(field, cfg),
	})
	if err != nil {
		return nil, false, err
	}
	if out == "" && !field.Required() {
		return nil, false, nil
	}
	value, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return nil, false, fmt.Errorf("fill: %s: %w", field.ID(), err)
	}
	return value, true, nil
}

func (f *Filler) promptDateTime(ctx context.Context, field schema.FieldDefinition) (any, bool, error) {
	out, err := f.driver.Input(ctx, InputConfig{
		Message:   message(field),
		Help:      "RFC 3339 timestamp, e.g. 2026-01-15T09:30:00Z",
		Validator: dateTimeValidator(field),
	})
	if err != nil {
		return nil, false, err
	}
	if out == "" && !field.Required() {
		return nil, false, nil
	}
	return out, true, nil
}

func (f *Filler) promptSelect(ctx context.Context, field schema.FieldDefinition, cfg *schema.SelectConfig) (any, bool, error) {
	if cfg == nil {
		cfg = &schema.SelectConfig{}
	}
	if cfg.AllowMultiple {
		indices, err := f.driver.MultiSelect(ctx, SelectConfig{
			Message: message(field),
			Options: cfg.Options,
			Help:    field.Description(),
		})
		if err != nil {
			return nil, false, err
		}
		if len(indices) == 0 && !field.Required() {
			return nil, false, nil
		}
		values := make([]any, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(cfg.Options) {
				values = append(values, cfg.Options[idx])
			}
		}
		return values, true, nil
	}

	options := cfg.Options
	if !field.Required() {
		options = append([]string{skipOption}, options...)
	}
	idx, err := f.driver.Select(ctx, SelectConfig{
		Message: message(field),
		Options: options,
		Help:    field.Description(),
	})
	if err != nil {
		return nil, false, err
	}
	if idx < 0 || idx >= len(options) {
		return nil, false, fmt.Errorf("fill: %s: selection out of range", field.ID())
	}
	choice := options[idx]
	if choice == skipOption && !field.Required() {
		return nil, false, nil
	}
	return choice, true, nil
}

func message(field schema.FieldDefinition) string {
	if field.Required() {
		return field.Label()
	}
	return field.Label() + " (optional)"
}

func requireValue(fieldID string) func(string) error {
	return func(value string) error {
		if value == "" {
			return fmt.Errorf("%s is required", fieldID)
		}
		return nil
	}
}

func numberValidator(field schema.FieldDefinition, cfg *schema.NumberConfig) func(string) error {
	return func(value string) error {
		if value == "" {
			if field.Required() {
				return fmt.Errorf("%s is required", field.ID())
			}
			return nil
		}
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%q is not a number", value)
		}
		if cfg != nil {
			if cfg.Min != nil && parsed < *cfg.Min {
				return fmt.Errorf("must be at least %v", *cfg.Min)
			}
			if cfg.Max != nil && parsed > *cfg.Max {
				return fmt.Errorf("must be at most %v", *cfg.Max)
			}
		}
		return nil
	}
}

func dateTimeValidator(field schema.FieldDefinition) func(string) error {
	return func(value string) error {
		if value == "" {
			if field.Required() {
				return fmt.Errorf("%s is required", field.ID())
			}
			return nil
		}
		if _, err := time.Parse(time.RFC3339, value); err != nil {
			return fmt.Errorf("%q is not an RFC 3339 timestamp", value)
		}
		return nil
	}
}

func numberHelp(field schema.FieldDefinition, cfg *schema.NumberConfig) string {
	if cfg == nil || (cfg.Min == nil && cfg.Max == nil) {
		return field.Description()
	}
	switch {
	case cfg.Min != nil && cfg.Max != nil:
		return fmt.Sprintf("between %v and %v", *cfg.Min, *cfg.Max)
	case cfg.Min != nil:
		return fmt.Sprintf("at least %v", *cfg.Min)
	default:
		return fmt.Sprintf("at most %v", *cfg.Max)
	}
}
