package workflow

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-docflow/pkg/validation"
)

// WorkflowDefinition is a validated, immutable directed graph of phases and
// the legal transitions between them. Cycles are allowed: a "reject" edge
// sending a document backward is a normal workflow shape.
type WorkflowDefinition struct {
	id          string
	name        string
	phases      []Phase
	transitions []Transition
}

// ID returns the unique identifier of the workflow.
func (w WorkflowDefinition) ID() string { return w.id }

// Name returns the human-readable name.
func (w WorkflowDefinition) Name() string { return w.name }

// Phases returns the phases in declaration order. The slice is a copy.
func (w WorkflowDefinition) Phases() []Phase {
	return append([]Phase(nil), w.phases...)
}

// Transitions returns the declared edges. The slice is a copy.
func (w WorkflowDefinition) Transitions() []Transition {
	return append([]Transition(nil), w.transitions...)
}

// CanTransition reports whether an edge exists from one phase to another.
func (w WorkflowDefinition) CanTransition(from, to string) bool {
	for _, t := range w.transitions {
		if t.From == from && t.To == to {
			return true
		}
	}
	return false
}

// PhaseByID looks up a phase definition.
func (w WorkflowDefinition) PhaseByID(id string) (Phase, bool) {
	for _, p := range w.phases {
		if p.ID == id {
			return p, true
		}
	}
	return Phase{}, false
}

// StartPhase returns the first phase declared with PhaseStart, which is where
// new documents enter the workflow.
func (w WorkflowDefinition) StartPhase() (Phase, bool) {
	for _, p := range w.phases {
		if p.PhaseType == PhaseStart {
			return p, true
		}
	}
	return Phase{}, false
}

type workflowWire struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Phases      []Phase      `json:"phases"`
	Transitions []Transition `json:"transitions"`
}

// MarshalJSON emits the builder-compatible wire shape.
func (w WorkflowDefinition) MarshalJSON() ([]byte, error) {
	return json.Marshal(workflowWire{
		ID:          w.id,
		Name:        w.name,
		Phases:      w.phases,
		Transitions: w.transitions,
	})
}

// UnmarshalJSON decodes the wire shape and validates through the builder.
func (w *WorkflowDefinition) UnmarshalJSON(data []byte) error {
	var builder WorkflowBuilder
	if err := builder.UnmarshalJSON(data); err != nil {
		return err
	}
	def, err := builder.Build()
	if err != nil {
		return err
	}
	*w = def
	return nil
}

// WorkflowBuilder accumulates phases and transitions without validating
// them. Build runs the structural pass (lengths, charsets) and the
// graph-integrity pass (every edge endpoint must name a declared phase) and
// merges both passes' findings into one result set.
type WorkflowBuilder struct {
	id          string
	name        string
	phases      []Phase
	transitions []Transition
}

// NewWorkflow starts a builder with no phases or transitions.
func NewWorkflow(id, name string) *WorkflowBuilder {
	return &WorkflowBuilder{id: id, name: name}
}

// AddPhase appends a phase.
func (b *WorkflowBuilder) AddPhase(phase Phase) *WorkflowBuilder {
	b.phases = append(b.phases, phase)
	return b
}

// AddTransition appends a directed edge.
func (b *WorkflowBuilder) AddTransition(transition Transition) *WorkflowBuilder {
	b.transitions = append(b.transitions, transition)
	return b
}

// Build validates the workflow and returns the immutable definition or the
// aggregated validation.Findings.
func (b *WorkflowBuilder) Build() (WorkflowDefinition, error) {
	var findings validation.Findings
	findings = validation.CheckLength(findings, "id", b.id, 1, 64)
	findings = validation.CheckIDCharset(findings, "id", b.id)
	findings = validation.CheckLength(findings, "name", b.name, 1, 100)

	phaseIDs := make(map[string]struct{}, len(b.phases))
	for i, phase := range b.phases {
		prefix := fmt.Sprintf("phases[%d]", i)
		findings = validation.CheckLength(findings, prefix+".id", phase.ID, 1, 64)
		findings = validation.CheckLength(findings, prefix+".label", phase.Label, 1, 100)
		switch phase.PhaseType {
		case PhaseStart, PhaseNormal, PhaseEnd:
		default:
			findings = append(findings, validation.Finding{
				Path:   prefix + ".type",
				Rule:   validation.RuleUnknownPhaseType,
				Params: map[string]string{"type": string(phase.PhaseType)},
			})
		}
		phaseIDs[phase.ID] = struct{}{}
	}

	for i, transition := range b.transitions {
		prefix := fmt.Sprintf("transitions[%d]", i)
		findings = validation.CheckLength(findings, prefix+".name", transition.Name, 1, 100)
		findings = validation.CheckLength(findings, prefix+".from", transition.From, 1, 64)
		findings = validation.CheckLength(findings, prefix+".to", transition.To, 1, 64)

		if _, ok := phaseIDs[transition.From]; !ok {
			findings = append(findings, validation.Finding{
				Path:   prefix,
				Rule:   validation.RuleInvalidTransitionSource,
				Params: map[string]string{"phase_id": transition.From},
			})
		}
		if _, ok := phaseIDs[transition.To]; !ok {
			findings = append(findings, validation.Finding{
				Path:   prefix,
				Rule:   validation.RuleInvalidTransitionTarget,
				Params: map[string]string{"phase_id": transition.To},
			})
		}
	}

	if err := findings.AsError(); err != nil {
		return WorkflowDefinition{}, err
	}
	return WorkflowDefinition{
		id:          b.id,
		name:        b.name,
		phases:      append([]Phase(nil), b.phases...),
		transitions: append([]Transition(nil), b.transitions...),
	}, nil
}

// MarshalJSON lets raw builders travel as API payloads.
func (b WorkflowBuilder) MarshalJSON() ([]byte, error) {
	return json.Marshal(workflowWire{
		ID:          b.id,
		Name:        b.name,
		Phases:      b.phases,
		Transitions: b.transitions,
	})
}

// UnmarshalJSON decodes the wire shape without validating; validation
// happens in Build.
func (b *WorkflowBuilder) UnmarshalJSON(data []byte) error {
	var wire workflowWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("workflow: parse workflow: %w", err)
	}
	b.id = wire.ID
	b.name = wire.Name
	b.phases = wire.Phases
	b.transitions = wire.Transitions
	return nil
}
