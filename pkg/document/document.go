package document

import "time"

// Document is a single instance of a form: a free-form data bag plus the
// workflow phase the instance currently sits in. The schema of Data is not
// enforced here; it is checked by Validate against a specific
// schema.FormDefinition.
//
// A Document is a plain mutable value owned by the caller. The core packages
// borrow it for the duration of one call and never retain a reference, so
// callers that share an instance across goroutines must serialize access
// themselves (typically at the storage boundary).
type Document struct {
	// ID uniquely identifies this document, usually a UUID.
	ID string `json:"id"`

	// FormID links the document to the form definition its data follows.
	FormID string `json:"form_id"`

	// WorkflowID links the document to the workflow governing its lifecycle.
	WorkflowID string `json:"workflow_id"`

	// Data holds the user-supplied values keyed by field id. Values are the
	// decoded-JSON domain: string, bool, float64, []any, map[string]any, nil.
	Data map[string]any `json:"data"`

	// CurrentPhase is the id of the workflow phase the document sits in.
	// The empty string marks a brand-new document that has not yet entered
	// its workflow's start phase.
	CurrentPhase string `json:"current_phase"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates an empty document bound to a form and a workflow. The document
// starts with no data and an uninitialized phase.
func New(id, formID, workflowID string) *Document {
	now := time.Now().UTC()
	return &Document{
		ID:         id,
		FormID:     formID,
		WorkflowID: workflowID,
		Data:       make(map[string]any),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Value returns the stored value for a field id.
func (d *Document) Value(fieldID string) (any, bool) {
	value, ok := d.Data[fieldID]
	return value, ok
}

// SetValue stores a value for a field id and touches UpdatedAt.
func (d *Document) SetValue(fieldID string, value any) {
	if d.Data == nil {
		d.Data = make(map[string]any)
	}
	d.Data[fieldID] = value
	d.UpdatedAt = time.Now().UTC()
}
