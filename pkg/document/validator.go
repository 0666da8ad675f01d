package document

import (
	"encoding/json"
	"time"

	"github.com/goliatone/go-docflow/pkg/schema"
)

// Validate checks a document's data against a form definition and returns
// every violation found, or nil when the document is valid.
//
// The one fail-fast case is a form id mismatch: comparing data against the
// wrong schema is meaningless, so a single CodeFormIDMismatch error is
// returned and nothing else runs. Otherwise the form's fields are iterated
// (keys present in Data but undeclared in the form are silently ignored) and
// all findings across all fields are collected.
//
// Validate is pure: it reads doc and form, mutates nothing, and returns the
// same result for the same inputs.
func Validate(doc *Document, form *schema.FormDefinition) []ValidationError {
	if doc.FormID != form.ID() {
		return []ValidationError{{
			Code:      CodeFormIDMismatch,
			DocFormID: doc.FormID,
			FormID:    form.ID(),
		}}
	}

	var errs []ValidationError
	for _, field := range form.Fields() {
		value, present := doc.Data[field.ID()]

		if field.Required() && (!present || value == nil) {
			errs = append(errs, ValidationError{
				Code:  CodeMissingRequiredField,
				Field: field.ID(),
			})
			continue
		}
		if !present || value == nil {
			continue
		}
		if err := validateValue(value, field); err != nil {
			errs = append(errs, *err)
		}
	}
	return errs
}

func validateValue(value any, field schema.FieldDefinition) *ValidationError {
	fieldType := field.Type()
	switch fieldType.Kind {
	case schema.KindText, schema.KindTextArea:
		if _, ok := value.(string); !ok {
			return invalidType(field.ID(), "String", value)
		}
	case schema.KindNumber:
		num, ok := numeric(value)
		if !ok {
			return invalidType(field.ID(), "Number", value)
		}
		if cfg := fieldType.Number; cfg != nil {
			if cfg.Min != nil && num < *cfg.Min {
				return &ValidationError{
					Code:  CodeValueTooLow,
					Field: field.ID(),
					Value: num,
					Min:   cfg.Min,
				}
			}
			if cfg.Max != nil && num > *cfg.Max {
				return &ValidationError{
					Code:  CodeValueTooHigh,
					Field: field.ID(),
					Value: num,
					Max:   cfg.Max,
				}
			}
		}
	case schema.KindBoolean:
		if _, ok := value.(bool); !ok {
			return invalidType(field.ID(), "Boolean", value)
		}
	case schema.KindSelect:
		return validateSelection(value, field)
	case schema.KindDateTime:
		str, ok := value.(string)
		if !ok {
			return invalidType(field.ID(), "String (RFC 3339)", value)
		}
		if _, err := time.Parse(time.RFC3339, str); err != nil {
			return &ValidationError{
				Code:  CodeInvalidDateFormat,
				Field: field.ID(),
				Value: str,
			}
		}
	default:
		// Builders reject unknown kinds, so a definition cannot normally
		// carry one. A value checked against such a field must not pass.
		return invalidType(field.ID(), "Unknown", value)
	}
	return nil
}

func validateSelection(value any, field schema.FieldDefinition) *ValidationError {
	cfg := field.Type().Select
	if cfg == nil {
		cfg = &schema.SelectConfig{}
	}

	if cfg.AllowMultiple {
		items, ok := anySlice(value)
		if !ok {
			return invalidType(field.ID(), "Array", value)
		}
		for _, item := range items {
			str, ok := item.(string)
			if !ok {
				return invalidType(field.ID(), "String", item)
			}
			if !contains(cfg.Options, str) {
				return invalidSelection(field.ID(), str, cfg.Options)
			}
		}
		return nil
	}

	str, ok := value.(string)
	if !ok {
		return invalidType(field.ID(), "String", value)
	}
	if !contains(cfg.Options, str) {
		return invalidSelection(field.ID(), str, cfg.Options)
	}
	return nil
}

func invalidType(fieldID, expected string, got any) *ValidationError {
	return &ValidationError{
		Code:     CodeInvalidType,
		Field:    fieldID,
		Expected: expected,
		Got:      jsonTypeName(got),
	}
}

func invalidSelection(fieldID, value string, allowed []string) *ValidationError {
	return &ValidationError{
		Code:    CodeInvalidSelection,
		Field:   fieldID,
		Value:   value,
		Allowed: append([]string(nil), allowed...),
	}
}

// numeric widens the value types that count as a number. Generic JSON
// decoding yields float64, but callers constructing Data in Go code commonly
// use ints, and json.Number shows up when decoders enable UseNumber.
func numeric(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func anySlice(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return items, true
	default:
		return nil, false
	}
}

func contains(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}

// jsonTypeName reports the JSON type of a decoded value for error messages.
func jsonTypeName(value any) string {
	switch value.(type) {
	case nil:
		return "Null"
	case bool:
		return "Boolean"
	case string:
		return "String"
	case map[string]any:
		return "Object"
	case []any, []string:
		return "Array"
	default:
		if _, ok := numeric(value); ok {
			return "Number"
		}
		return "Unknown"
	}
}
