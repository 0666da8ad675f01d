package schema

import (
	"encoding/json"
	"fmt"
)

// FieldKind discriminates the closed set of field type variants. The wire
// values are snake_case and must stay stable for schema interchange.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextArea FieldKind = "text_area"
	KindNumber   FieldKind = "number"
	KindBoolean  FieldKind = "boolean"
	KindDateTime FieldKind = "date_time"
	KindSelect   FieldKind = "select"
)

// Known reports whether k is one of the declared variants. The zero value
// (an absent or unset kind) is not known.
func (k FieldKind) Known() bool {
	switch k {
	case KindText, KindTextArea, KindNumber, KindBoolean, KindDateTime, KindSelect:
		return true
	}
	return false
}

// NumberConfig carries the optional inclusive bounds of a number field.
type NumberConfig struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// SelectConfig carries the option list of a select field and whether more
// than one option may be chosen.
type SelectConfig struct {
	Options       []string `json:"options"`
	AllowMultiple bool     `json:"allow_multiple"`
}

// FieldType is the data type of a field. It determines how document values
// are validated and how the value is stored in the document payload.
//
// The JSON encoding is adjacently tagged: a "kind" discriminator plus a
// sibling "config" object for the variants that carry configuration.
//
//	{"kind":"number","config":{"min":1,"max":5}}
//	{"kind":"text"}
//
// Unit variants (text, text_area, boolean, date_time) carry no "config" key.
// Use the constructors below; only Number and Select populate a config.
type FieldType struct {
	Kind   FieldKind
	Number *NumberConfig
	Select *SelectConfig
}

// Text returns the single-line text variant.
func Text() FieldType { return FieldType{Kind: KindText} }

// TextArea returns the multi-line text variant.
func TextArea() FieldType { return FieldType{Kind: KindTextArea} }

// Boolean returns the true/false variant.
func Boolean() FieldType { return FieldType{Kind: KindBoolean} }

// DateTime returns the RFC 3339 timestamp variant.
func DateTime() FieldType { return FieldType{Kind: KindDateTime} }

// Number returns the numeric variant with optional inclusive bounds. Pass nil
// to leave a bound open.
func Number(min, max *float64) FieldType {
	return FieldType{Kind: KindNumber, Number: &NumberConfig{Min: min, Max: max}}
}

// Select returns the selection variant restricted to the given options.
func Select(options []string, allowMultiple bool) FieldType {
	return FieldType{Kind: KindSelect, Select: &SelectConfig{
		Options:       append([]string(nil), options...),
		AllowMultiple: allowMultiple,
	}}
}

type taggedUnit struct {
	Kind FieldKind `json:"kind"`
}

type taggedNumber struct {
	Kind   FieldKind     `json:"kind"`
	Config *NumberConfig `json:"config"`
}

type taggedSelect struct {
	Kind   FieldKind     `json:"kind"`
	Config *SelectConfig `json:"config"`
}

// MarshalJSON emits the adjacently tagged shape described on FieldType.
func (t FieldType) MarshalJSON() ([]byte, error) {
	switch t.Kind {
	case KindText, KindTextArea, KindBoolean, KindDateTime:
		return json.Marshal(taggedUnit{Kind: t.Kind})
	case KindNumber:
		cfg := t.Number
		if cfg == nil {
			cfg = &NumberConfig{}
		}
		return json.Marshal(taggedNumber{Kind: t.Kind, Config: cfg})
	case KindSelect:
		cfg := t.Select
		if cfg == nil {
			cfg = &SelectConfig{}
		}
		return json.Marshal(taggedSelect{Kind: t.Kind, Config: cfg})
	case "":
		return nil, fmt.Errorf("schema: field type has no kind")
	default:
		return nil, fmt.Errorf("schema: unknown field kind %q", t.Kind)
	}
}

// UnmarshalJSON parses the adjacently tagged shape. Unknown kinds are
// rejected; a missing config on number/select variants yields the variant's
// defaults, matching how missing optional bounds behave.
func (t *FieldType) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Kind   FieldKind       `json:"kind"`
		Config json.RawMessage `json:"config"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("schema: parse field type: %w", err)
	}

	switch envelope.Kind {
	case KindText, KindTextArea, KindBoolean, KindDateTime:
		*t = FieldType{Kind: envelope.Kind}
	case KindNumber:
		cfg := &NumberConfig{}
		if len(envelope.Config) > 0 {
			if err := json.Unmarshal(envelope.Config, cfg); err != nil {
				return fmt.Errorf("schema: parse number config: %w", err)
			}
		}
		*t = FieldType{Kind: envelope.Kind, Number: cfg}
	case KindSelect:
		cfg := &SelectConfig{}
		if len(envelope.Config) > 0 {
			if err := json.Unmarshal(envelope.Config, cfg); err != nil {
				return fmt.Errorf("schema: parse select config: %w", err)
			}
		}
		*t = FieldType{Kind: envelope.Kind, Select: cfg}
	case "":
		return fmt.Errorf("schema: field type is missing a kind")
	default:
		return fmt.Errorf("schema: unknown field kind %q", envelope.Kind)
	}
	return nil
}
