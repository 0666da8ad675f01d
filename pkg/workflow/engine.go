package workflow

import "github.com/goliatone/go-docflow/pkg/document"

// waitingToStart is the synthetic "current phase" reported when rejecting a
// move out of the uninitialized state.
const waitingToStart = "WAITING_TO_START"

// Transition attempts to move a document from its current phase to the
// target phase under the rules this workflow declares. On success the
// document's CurrentPhase is updated in place; on any failure the document
// is left untouched.
//
// Checks, in order:
//  1. The document must belong to this workflow (MismatchError otherwise).
//  2. The target must name a phase in the workflow (UnknownPhaseError).
//  3. A document with an empty CurrentPhase may only move to the workflow's
//     declared start phase; a workflow with no start phase cannot accept new
//     documents at all.
//  4. Otherwise an edge (current → target) must exist in the transition set.
//
// No transition history is kept at this layer, and phases typed PhaseEnd are
// not special-cased: a state is terminal when it has no outgoing edges.
func (w WorkflowDefinition) Transition(doc *document.Document, targetPhaseID string) error {
	if doc.WorkflowID != w.id {
		return MismatchError{DocWorkflowID: doc.WorkflowID, WorkflowID: w.id}
	}

	if _, ok := w.PhaseByID(targetPhaseID); !ok {
		return UnknownPhaseError{PhaseID: targetPhaseID}
	}

	if doc.CurrentPhase == "" {
		start, ok := w.StartPhase()
		if !ok {
			return UnknownPhaseError{PhaseID: "No start phase defined"}
		}
		if start.ID != targetPhaseID {
			return InvalidTransitionError{Current: waitingToStart, Target: targetPhaseID}
		}
		doc.CurrentPhase = targetPhaseID
		return nil
	}

	if !w.CanTransition(doc.CurrentPhase, targetPhaseID) {
		return InvalidTransitionError{Current: doc.CurrentPhase, Target: targetPhaseID}
	}

	doc.CurrentPhase = targetPhaseID
	return nil
}

// AvailableTransitions lists the edges leading out of the document's current
// phase, in declaration order. It returns ErrNoCurrentPhase for a document
// that has not entered the workflow yet and MismatchError when the document
// belongs to a different workflow. The document is never mutated.
func (w WorkflowDefinition) AvailableTransitions(doc *document.Document) ([]Transition, error) {
	if doc.WorkflowID != w.id {
		return nil, MismatchError{DocWorkflowID: doc.WorkflowID, WorkflowID: w.id}
	}
	if doc.CurrentPhase == "" {
		return nil, ErrNoCurrentPhase
	}

	var out []Transition
	for _, t := range w.transitions {
		if t.From == doc.CurrentPhase {
			out = append(out, t)
		}
	}
	return out, nil
}
