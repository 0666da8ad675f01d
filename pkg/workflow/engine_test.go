package workflow

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docflow/pkg/document"
)

func ticketWorkflow(t *testing.T) WorkflowDefinition {
	t.Helper()
	wf, err := NewWorkflow("wf_ticket", "Ticket Workflow").
		AddPhase(NewPhase("draft", "Draft", PhaseStart)).
		AddPhase(NewPhase("review", "Review", PhaseNormal)).
		AddPhase(NewPhase("closed", "Closed", PhaseEnd)).
		AddTransition(NewTransition("submit", "draft", "review")).
		AddTransition(NewTransition("approve", "review", "closed")).
		AddTransition(NewTransition("reject", "review", "draft")).
		Build()
	if err != nil {
		t.Fatalf("build workflow: %v", err)
	}
	return wf
}

func TestTransitionWalkthrough(t *testing.T) {
	wf := ticketWorkflow(t)
	doc := document.New("doc1", "form_ticket", "wf_ticket")

	// Uninitialized documents may only enter the start phase.
	if err := wf.Transition(doc, "draft"); err != nil {
		t.Fatalf("enter start phase: %v", err)
	}
	if doc.CurrentPhase != "draft" {
		t.Fatalf("phase mismatch: %q", doc.CurrentPhase)
	}

	if err := wf.Transition(doc, "review"); err != nil {
		t.Fatalf("draft→review: %v", err)
	}
	if err := wf.Transition(doc, "closed"); err != nil {
		t.Fatalf("review→closed: %v", err)
	}
	if doc.CurrentPhase != "closed" {
		t.Fatalf("phase mismatch: %q", doc.CurrentPhase)
	}
}

func TestTransitionRejectsIllegalJump(t *testing.T) {
	wf := ticketWorkflow(t)
	doc := document.New("doc1", "form_ticket", "wf_ticket")
	if err := wf.Transition(doc, "draft"); err != nil {
		t.Fatalf("enter start phase: %v", err)
	}

	before := *doc
	err := wf.Transition(doc, "closed")
	var invalid InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if invalid.Current != "draft" || invalid.Target != "closed" {
		t.Fatalf("error detail mismatch: %#v", invalid)
	}
	if diff := cmp.Diff(before, *doc); diff != "" {
		t.Fatalf("failed transition must not mutate the document (-before +after):\n%s", diff)
	}
}

func TestTransitionBackwardEdge(t *testing.T) {
	wf := ticketWorkflow(t)
	doc := document.New("doc1", "form_ticket", "wf_ticket")
	for _, target := range []string{"draft", "review", "draft"} {
		if err := wf.Transition(doc, target); err != nil {
			t.Fatalf("transition to %q: %v", target, err)
		}
	}
	if doc.CurrentPhase != "draft" {
		t.Fatalf("reject edge should land back on draft, got %q", doc.CurrentPhase)
	}
}

func TestTransitionWorkflowMismatch(t *testing.T) {
	wf := ticketWorkflow(t)
	doc := document.New("doc1", "form_ticket", "other")

	for _, target := range []string{"draft", "review", "nonexistent"} {
		before := *doc
		err := wf.Transition(doc, target)
		var mismatch MismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("target %q: expected MismatchError, got %v", target, err)
		}
		if mismatch.DocWorkflowID != "other" || mismatch.WorkflowID != "wf_ticket" {
			t.Fatalf("mismatch detail: %#v", mismatch)
		}
		if diff := cmp.Diff(before, *doc); diff != "" {
			t.Fatalf("mismatch must not mutate (-before +after):\n%s", diff)
		}
	}
}

func TestTransitionUnknownPhase(t *testing.T) {
	wf := ticketWorkflow(t)
	doc := document.New("doc1", "form_ticket", "wf_ticket")

	err := wf.Transition(doc, "archived")
	var unknown UnknownPhaseError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownPhaseError, got %v", err)
	}
	if unknown.PhaseID != "archived" {
		t.Fatalf("phase id mismatch: %q", unknown.PhaseID)
	}
}

func TestTransitionUninitializedMustEnterStart(t *testing.T) {
	wf := ticketWorkflow(t)
	doc := document.New("doc1", "form_ticket", "wf_ticket")

	err := wf.Transition(doc, "review")
	var invalid InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if invalid.Current != "WAITING_TO_START" || invalid.Target != "review" {
		t.Fatalf("error detail mismatch: %#v", invalid)
	}
	if doc.CurrentPhase != "" {
		t.Fatalf("document must stay uninitialized, got %q", doc.CurrentPhase)
	}
}

func TestTransitionNoStartPhaseDefined(t *testing.T) {
	wf, err := NewWorkflow("wf_endless", "No Entry").
		AddPhase(NewPhase("limbo", "Limbo", PhaseNormal)).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	doc := document.New("doc1", "form", "wf_endless")

	var unknown UnknownPhaseError
	if !errors.As(wf.Transition(doc, "limbo"), &unknown) {
		t.Fatal("expected UnknownPhaseError for a workflow without a start phase")
	}
	if unknown.PhaseID != "No start phase defined" {
		t.Fatalf("unexpected detail: %q", unknown.PhaseID)
	}
}

func TestAvailableTransitions(t *testing.T) {
	wf := ticketWorkflow(t)
	doc := document.New("doc1", "form_ticket", "wf_ticket")

	if _, err := wf.AvailableTransitions(doc); !errors.Is(err, ErrNoCurrentPhase) {
		t.Fatalf("expected ErrNoCurrentPhase, got %v", err)
	}

	if err := wf.Transition(doc, "draft"); err != nil {
		t.Fatalf("enter start phase: %v", err)
	}
	if err := wf.Transition(doc, "review"); err != nil {
		t.Fatalf("draft→review: %v", err)
	}

	out, err := wf.AvailableTransitions(doc)
	if err != nil {
		t.Fatalf("available transitions: %v", err)
	}
	want := []Transition{
		{Name: "approve", From: "review", To: "closed"},
		{Name: "reject", From: "review", To: "draft"},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("transitions mismatch (-want +got):\n%s", diff)
	}
}

func TestAvailableTransitionsMismatch(t *testing.T) {
	wf := ticketWorkflow(t)
	doc := document.New("doc1", "form_ticket", "someone_elses_workflow")
	var mismatch MismatchError
	if _, err := wf.AvailableTransitions(doc); !errors.As(err, &mismatch) {
		t.Fatalf("expected MismatchError, got %v", err)
	}
}

func TestTerminalPhaseByConstruction(t *testing.T) {
	wf := ticketWorkflow(t)
	doc := document.New("doc1", "form_ticket", "wf_ticket")
	for _, target := range []string{"draft", "review", "closed"} {
		if err := wf.Transition(doc, target); err != nil {
			t.Fatalf("transition to %q: %v", target, err)
		}
	}

	// "closed" has no outgoing edges, so every move out of it fails.
	// End phases are terminal by construction, not by special casing.
	out, err := wf.AvailableTransitions(doc)
	if err != nil {
		t.Fatalf("available transitions: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("closed should be terminal by construction, got %v", out)
	}
	var invalid InvalidTransitionError
	if !errors.As(wf.Transition(doc, "draft"), &invalid) {
		t.Fatal("expected InvalidTransitionError out of closed")
	}
}
