package workflow

import (
	"errors"
	"fmt"
)

// ErrNoCurrentPhase is returned by operations that need a document to
// already sit in a workflow phase, such as listing its available
// transitions. New documents enter their start phase via Transition first.
var ErrNoCurrentPhase = errors.New("workflow: document has no current phase (is it a new document?)")

// MismatchError reports a document handed to a workflow it does not belong
// to. The document is never mutated in this case.
type MismatchError struct {
	// DocWorkflowID is the workflow id the document carries.
	DocWorkflowID string
	// WorkflowID is the id of the workflow it was checked against.
	WorkflowID string
}

func (e MismatchError) Error() string {
	return fmt.Sprintf("workflow: document belongs to %q but provided workflow is %q", e.DocWorkflowID, e.WorkflowID)
}

// UnknownPhaseError reports a phase id that does not exist in the workflow
// definition.
type UnknownPhaseError struct {
	PhaseID string
}

func (e UnknownPhaseError) Error() string {
	return fmt.Sprintf("workflow: phase %q does not exist in this workflow", e.PhaseID)
}

// InvalidTransitionError reports a move the workflow's transition set does
// not allow. Current carries the sentinel "WAITING_TO_START" when the
// document had not yet entered the workflow.
type InvalidTransitionError struct {
	Current string
	Target  string
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("workflow: cannot move from %q to %q", e.Current, e.Target)
}
