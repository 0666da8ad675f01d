package service

import (
	"fmt"

	"github.com/goliatone/go-docflow/pkg/document"
	"github.com/goliatone/go-docflow/pkg/validation"
)

// NotFoundError reports a missing entity by kind ("form", "workflow",
// "document") and id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("service: %s %q not found", e.Kind, e.ID)
}

// DefinitionInvalidError reports a form or workflow definition rejected by
// its builder. Findings carries every violation.
type DefinitionInvalidError struct {
	Kind     string
	Findings validation.Findings
}

func (e DefinitionInvalidError) Error() string {
	return fmt.Sprintf("service: invalid %s definition: %v", e.Kind, e.Findings)
}

func (e DefinitionInvalidError) Unwrap() error { return e.Findings }

// DocumentInvalidError reports document data rejected against its form.
type DocumentInvalidError struct {
	Violations []document.ValidationError
}

func (e DocumentInvalidError) Error() string {
	return fmt.Sprintf("service: document failed validation with %d violation(s)", len(e.Violations))
}

// WorkflowViolationError wraps a transition engine rejection.
type WorkflowViolationError struct {
	Err error
}

func (e WorkflowViolationError) Error() string {
	return fmt.Sprintf("service: workflow violation: %v", e.Err)
}

func (e WorkflowViolationError) Unwrap() error { return e.Err }
