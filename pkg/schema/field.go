package schema

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-docflow/pkg/validation"
)

// FieldDefinition describes one typed, constrained slot within a form. It
// does not hold data itself; it describes what a document value for this
// field must look like.
//
// A FieldDefinition can only be obtained through FieldBuilder.Build (or by
// unmarshalling, which routes through the same builder), so a value in hand
// is always schema-valid and safe to share read-only.
type FieldDefinition struct {
	id          string
	label       string
	fieldType   FieldType
	required    bool
	description string
}

// ID returns the unique key used to store this field's value in a document.
func (f FieldDefinition) ID() string { return f.id }

// Label returns the human-readable label.
func (f FieldDefinition) Label() string { return f.label }

// Type returns the data type configuration.
func (f FieldDefinition) Type() FieldType { return f.fieldType }

// Required reports whether document validation fails when the field is
// missing or null.
func (f FieldDefinition) Required() bool { return f.required }

// Description returns the optional help text, empty when unset.
func (f FieldDefinition) Description() string { return f.description }

type fieldWire struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	FieldType   FieldType `json:"field_type"`
	Required    bool      `json:"required"`
	Description string    `json:"description,omitempty"`
}

// MarshalJSON emits the builder-compatible wire shape so definitions round
// trip through storage and the API unchanged.
func (f FieldDefinition) MarshalJSON() ([]byte, error) {
	return json.Marshal(fieldWire{
		ID:          f.id,
		Label:       f.label,
		FieldType:   f.fieldType,
		Required:    f.required,
		Description: f.description,
	})
}

// UnmarshalJSON decodes the wire shape and validates it through the builder;
// there is no path to an invalid FieldDefinition.
func (f *FieldDefinition) UnmarshalJSON(data []byte) error {
	var builder FieldBuilder
	if err := json.Unmarshal(data, &builder); err != nil {
		return err
	}
	def, err := builder.Build()
	if err != nil {
		return err
	}
	*f = def
	return nil
}

// FieldBuilder accumulates the raw parts of a field without validating them.
// Build performs the full validation pass and returns either an immutable
// FieldDefinition or the aggregated validation.Findings.
//
//	field, err := schema.NewField("age", "User Age", schema.Number(min, max)).
//		Required(true).
//		WithDescription("Age in years.").
//		Build()
type FieldBuilder struct {
	id          string
	label       string
	fieldType   FieldType
	required    bool
	description string
}

// NewField starts a builder for a field with default settings (optional, no
// description).
func NewField(id, label string, fieldType FieldType) *FieldBuilder {
	return &FieldBuilder{id: id, label: label, fieldType: fieldType}
}

// Required sets the required flag.
func (b *FieldBuilder) Required(required bool) *FieldBuilder {
	b.required = required
	return b
}

// WithDescription adds help text shown alongside the field.
func (b *FieldBuilder) WithDescription(description string) *FieldBuilder {
	b.description = description
	return b
}

// Build validates the accumulated parts and returns the immutable
// definition. The returned error, when non-nil, is a validation.Findings
// carrying every violation.
func (b *FieldBuilder) Build() (FieldDefinition, error) {
	findings := b.appendFindings(nil, "")
	if err := findings.AsError(); err != nil {
		return FieldDefinition{}, err
	}
	return FieldDefinition{
		id:          b.id,
		label:       b.label,
		fieldType:   b.fieldType,
		required:    b.required,
		description: b.description,
	}, nil
}

// appendFindings collects this field's violations under the given path
// prefix. FormBuilder uses it to surface nested findings in one combined set.
func (b *FieldBuilder) appendFindings(findings validation.Findings, prefix string) validation.Findings {
	findings = validation.CheckLength(findings, joinPath(prefix, "id"), b.id, 1, 64)
	findings = validation.CheckIDCharset(findings, joinPath(prefix, "id"), b.id)
	findings = validation.CheckLength(findings, joinPath(prefix, "label"), b.label, 1, 100)
	if !b.fieldType.Kind.Known() {
		findings = append(findings, validation.Finding{
			Path:   joinPath(prefix, "field_type"),
			Rule:   validation.RuleUnknownKind,
			Params: map[string]string{"kind": string(b.fieldType.Kind)},
		})
	}
	return findings
}

func (b *FieldBuilder) definition() FieldDefinition {
	return FieldDefinition{
		id:          b.id,
		label:       b.label,
		fieldType:   b.fieldType,
		required:    b.required,
		description: b.description,
	}
}

// MarshalJSON lets raw builders travel as API payloads.
func (b FieldBuilder) MarshalJSON() ([]byte, error) {
	return json.Marshal(fieldWire{
		ID:          b.id,
		Label:       b.label,
		FieldType:   b.fieldType,
		Required:    b.required,
		Description: b.description,
	})
}

// UnmarshalJSON decodes the wire shape without validating; validation happens
// in Build.
func (b *FieldBuilder) UnmarshalJSON(data []byte) error {
	var wire fieldWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("schema: parse field: %w", err)
	}
	b.id = wire.ID
	b.label = wire.Label
	b.fieldType = wire.FieldType
	b.required = wire.Required
	b.description = wire.Description
	return nil
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}
