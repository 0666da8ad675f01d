package schema

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-docflow/pkg/validation"
)

// FormDefinition is the validated, immutable schema for a set of typed
// fields, the "table schema" that documents are validated against. Field
// order is preserved for display but carries no other meaning.
type FormDefinition struct {
	id      string
	name    string
	version uint32
	fields  []FieldDefinition
}

// ID returns the unique identifier for this form (for example
// "incident_report").
func (f FormDefinition) ID() string { return f.id }

// Name returns the human-readable name.
func (f FormDefinition) Name() string { return f.name }

// Version returns the schema version, used to keep old documents compatible
// when a form evolves.
func (f FormDefinition) Version() uint32 { return f.version }

// Fields returns the fields in insertion order. The slice is a copy; the
// definition itself stays immutable.
func (f FormDefinition) Fields() []FieldDefinition {
	return append([]FieldDefinition(nil), f.fields...)
}

// Field looks up a field definition by id.
func (f FormDefinition) Field(id string) (FieldDefinition, bool) {
	for _, field := range f.fields {
		if field.id == id {
			return field, true
		}
	}
	return FieldDefinition{}, false
}

type formWire struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Version uint32         `json:"version"`
	Fields  []FieldBuilder `json:"fields"`
}

// MarshalJSON emits the builder-compatible wire shape.
func (f FormDefinition) MarshalJSON() ([]byte, error) {
	fields := make([]FieldBuilder, 0, len(f.fields))
	for _, field := range f.fields {
		fields = append(fields, FieldBuilder{
			id:          field.id,
			label:       field.label,
			fieldType:   field.fieldType,
			required:    field.required,
			description: field.description,
		})
	}
	return json.Marshal(formWire{
		ID:      f.id,
		Name:    f.name,
		Version: f.version,
		Fields:  fields,
	})
}

// UnmarshalJSON decodes the wire shape and validates through the builder.
func (f *FormDefinition) UnmarshalJSON(data []byte) error {
	var builder FormBuilder
	if err := builder.UnmarshalJSON(data); err != nil {
		return err
	}
	def, err := builder.Build()
	if err != nil {
		return err
	}
	*f = def
	return nil
}

// FormBuilder accumulates raw fields for a form without validating them.
// Build validates the form-level rules and every field in one pass and
// returns the combined finding set on failure: a form with three bad fields
// reports all three alongside any duplicate-id findings.
type FormBuilder struct {
	id      string
	name    string
	version uint32
	fields  []*FieldBuilder
}

// NewForm starts a builder with version 1 and no fields.
func NewForm(id, name string) *FormBuilder {
	return &FormBuilder{id: id, name: name, version: 1}
}

// Version sets the schema version.
func (b *FormBuilder) Version(version uint32) *FormBuilder {
	b.version = version
	return b
}

// AddField appends a raw field to the form.
func (b *FormBuilder) AddField(field *FieldBuilder) *FormBuilder {
	b.fields = append(b.fields, field)
	return b
}

// WithFields replaces the current field list.
func (b *FormBuilder) WithFields(fields ...*FieldBuilder) *FormBuilder {
	b.fields = append([]*FieldBuilder(nil), fields...)
	return b
}

// Build validates the form and all of its fields, returning the immutable
// FormDefinition or the aggregated validation.Findings. Validation is
// exhaustive, never fail-fast.
func (b *FormBuilder) Build() (FormDefinition, error) {
	var findings validation.Findings
	findings = validation.CheckLength(findings, "id", b.id, 1, 64)
	findings = validation.CheckIDCharset(findings, "id", b.id)
	findings = validation.CheckLength(findings, "name", b.name, 1, 100)

	seen := make(map[string]struct{}, len(b.fields))
	for i, field := range b.fields {
		prefix := fmt.Sprintf("fields[%d]", i)
		findings = field.appendFindings(findings, prefix)
		if _, dup := seen[field.id]; dup {
			findings = append(findings, validation.Finding{
				Path:   "fields",
				Rule:   validation.RuleDuplicateFieldID,
				Params: map[string]string{"duplicate_id": field.id},
			})
			continue
		}
		seen[field.id] = struct{}{}
	}

	if err := findings.AsError(); err != nil {
		return FormDefinition{}, err
	}

	version := b.version
	if version == 0 {
		version = 1
	}
	fields := make([]FieldDefinition, 0, len(b.fields))
	for _, field := range b.fields {
		fields = append(fields, field.definition())
	}
	return FormDefinition{id: b.id, name: b.name, version: version, fields: fields}, nil
}

// MarshalJSON lets raw builders travel as API payloads.
func (b FormBuilder) MarshalJSON() ([]byte, error) {
	fields := make([]FieldBuilder, 0, len(b.fields))
	for _, field := range b.fields {
		fields = append(fields, *field)
	}
	version := b.version
	if version == 0 {
		version = 1
	}
	return json.Marshal(formWire{ID: b.id, Name: b.name, Version: version, Fields: fields})
}

// UnmarshalJSON decodes the wire shape without validating. A missing version
// defaults to 1.
func (b *FormBuilder) UnmarshalJSON(data []byte) error {
	var wire formWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("schema: parse form: %w", err)
	}
	b.id = wire.ID
	b.name = wire.Name
	b.version = wire.Version
	b.fields = b.fields[:0]
	for i := range wire.Fields {
		field := wire.Fields[i]
		b.fields = append(b.fields, &field)
	}
	return nil
}
