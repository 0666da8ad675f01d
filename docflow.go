// Package docflow re-exports the core form, workflow, and document types so
// callers get the common surface from a single import.
package docflow

import (
	"github.com/goliatone/go-docflow/pkg/document"
	"github.com/goliatone/go-docflow/pkg/schema"
	"github.com/goliatone/go-docflow/pkg/workflow"
)

// FieldType is the closed set of field value types.
type FieldType = schema.FieldType

// FieldDefinition describes a single validated form field.
type FieldDefinition = schema.FieldDefinition

// FormDefinition is an immutable, validated form.
type FormDefinition = schema.FormDefinition

// Phase is a named workflow state.
type Phase = workflow.Phase

// Transition is a directed edge between two phases.
type Transition = workflow.Transition

// WorkflowDefinition is an immutable, validated workflow graph.
type WorkflowDefinition = workflow.WorkflowDefinition

// Document is a form instance moving through a workflow.
type Document = document.Document

// ValidationError describes one document validation failure.
type ValidationError = document.ValidationError

// NewField starts a field builder.
func NewField(id, label string, fieldType FieldType) *schema.FieldBuilder {
	return schema.NewField(id, label, fieldType)
}

// NewForm starts a form builder.
func NewForm(id, name string) *schema.FormBuilder {
	return schema.NewForm(id, name)
}

// NewWorkflow starts a workflow builder.
func NewWorkflow(id, name string) *workflow.WorkflowBuilder {
	return workflow.NewWorkflow(id, name)
}

// NewDocument creates an empty document bound to a form and workflow.
func NewDocument(id, formID, workflowID string) *Document {
	return document.New(id, formID, workflowID)
}

// ValidateDocument checks a document's data against a form definition.
func ValidateDocument(doc *Document, form *FormDefinition) []ValidationError {
	return document.Validate(doc, form)
}
