package workflow

import (
	"encoding/json"
	"fmt"
)

// PhaseType describes how a phase behaves within its workflow.
type PhaseType string

const (
	// PhaseStart marks the entry point of the workflow. There should
	// typically be exactly one per workflow.
	PhaseStart PhaseType = "start"
	// PhaseNormal is a standard working state (for example "Under Review").
	PhaseNormal PhaseType = "normal"
	// PhaseEnd is a conventionally terminal state. The engine does not
	// special-case it: a phase is terminal when it has no outgoing edges.
	PhaseEnd PhaseType = "end"
)

// UnmarshalJSON keeps the variant set closed on the wire.
func (p *PhaseType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("workflow: parse phase type: %w", err)
	}
	switch PhaseType(raw) {
	case PhaseStart, PhaseNormal, PhaseEnd:
		*p = PhaseType(raw)
		return nil
	default:
		return fmt.Errorf("workflow: unknown phase type %q", raw)
	}
}

// Phase is a single named state within a workflow.
type Phase struct {
	// ID uniquely identifies the phase within its workflow (for example
	// "draft").
	ID string `json:"id"`
	// Label is the human-readable name (for example "Draft Mode").
	Label string `json:"label"`
	// PhaseType tags the phase as start, normal, or end.
	PhaseType PhaseType `json:"type"`
}

// NewPhase constructs a phase value; validation happens when the owning
// workflow is built.
func NewPhase(id, label string, phaseType PhaseType) Phase {
	return Phase{ID: id, Label: label, PhaseType: phaseType}
}

// Transition is a named directed edge between two phases: a legal movement
// from the phase named by From to the phase named by To.
type Transition struct {
	// Name describes the action (for example "Submit for Review").
	Name string `json:"name"`
	// From is the id of the source phase.
	From string `json:"from"`
	// To is the id of the target phase.
	To string `json:"to"`
}

// NewTransition constructs a transition value; graph integrity is checked
// when the owning workflow is built.
func NewTransition(name, from, to string) Transition {
	return Transition{Name: name, From: from, To: to}
}
