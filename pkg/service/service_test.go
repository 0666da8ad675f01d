package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docflow/pkg/schema"
	"github.com/goliatone/go-docflow/pkg/store/memory"
	"github.com/goliatone/go-docflow/pkg/validation"
	"github.com/goliatone/go-docflow/pkg/workflow"
)

func float(v float64) *float64 { return &v }

func ticketFormBuilder() *schema.FormBuilder {
	return schema.NewForm("form_ticket", "Support Ticket").
		AddField(schema.NewField("title", "Title", schema.Text()).Required(true)).
		AddField(schema.NewField("severity", "Severity", schema.Number(float(1), float(5))))
}

func ticketWorkflowBuilder() *workflow.WorkflowBuilder {
	return workflow.NewWorkflow("wf_ticket", "Ticket Workflow").
		AddPhase(workflow.NewPhase("draft", "Draft", workflow.PhaseStart)).
		AddPhase(workflow.NewPhase("review", "Review", workflow.PhaseNormal)).
		AddPhase(workflow.NewPhase("closed", "Closed", workflow.PhaseEnd)).
		AddTransition(workflow.NewTransition("submit", "draft", "review")).
		AddTransition(workflow.NewTransition("approve", "review", "closed"))
}

type fixture struct {
	store     *memory.Store
	forms     *FormService
	workflows *WorkflowService
	documents *DocumentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	f := &fixture{
		store:     st,
		forms:     NewFormService(st, nil),
		workflows: NewWorkflowService(st, nil),
		documents: NewDocumentService(st, nil),
	}
	ctx := context.Background()
	if _, err := f.forms.Create(ctx, ticketFormBuilder()); err != nil {
		t.Fatalf("seed form: %v", err)
	}
	if _, err := f.workflows.Create(ctx, ticketWorkflowBuilder()); err != nil {
		t.Fatalf("seed workflow: %v", err)
	}
	return f
}

func TestFormCreateRejectsInvalid(t *testing.T) {
	f := newFixture(t)

	_, err := f.forms.Create(context.Background(), schema.NewForm("bad id!", ""))
	var invalid DefinitionInvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected DefinitionInvalidError, got %v", err)
	}
	if invalid.Kind != "form" || len(invalid.Findings) == 0 {
		t.Fatalf("error detail mismatch: %#v", invalid)
	}
	if !invalid.Findings.HasRule(validation.RuleIDCharset) {
		t.Fatalf("expected id_charset finding, got %v", invalid.Findings)
	}

	// Nothing invalid reaches the store.
	if _, err := f.forms.Get(context.Background(), "bad id!"); err == nil {
		t.Fatal("invalid form was persisted")
	}
}

func TestWorkflowCreateRejectsBrokenGraph(t *testing.T) {
	f := newFixture(t)

	builder := workflow.NewWorkflow("wf_bad", "Bad").
		AddPhase(workflow.NewPhase("a", "A", workflow.PhaseStart)).
		AddTransition(workflow.NewTransition("jump", "a", "ghost"))
	_, err := f.workflows.Create(context.Background(), builder)
	var invalid DefinitionInvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected DefinitionInvalidError, got %v", err)
	}
	if !invalid.Findings.HasRule(validation.RuleInvalidTransitionTarget) {
		t.Fatalf("expected invalid_transition_target, got %v", invalid.Findings)
	}
}

func TestGetNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var notFound NotFoundError
	if _, err := f.forms.Get(ctx, "nope"); !errors.As(err, &notFound) || notFound.Kind != "form" {
		t.Fatalf("expected form NotFoundError, got %v", err)
	}
	if _, err := f.workflows.Get(ctx, "nope"); !errors.As(err, &notFound) || notFound.Kind != "workflow" {
		t.Fatalf("expected workflow NotFoundError, got %v", err)
	}
	if _, err := f.documents.Get(ctx, "nope"); !errors.As(err, &notFound) || notFound.Kind != "document" {
		t.Fatalf("expected document NotFoundError, got %v", err)
	}
}

func TestDocumentCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.documents.Create(ctx, "form_ticket", "wf_ticket", map[string]any{
		"title":    "Broken printer",
		"severity": 3.0,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if doc.ID == "" {
		t.Fatal("document id not assigned")
	}
	if doc.CurrentPhase != "draft" {
		t.Fatalf("new document must sit in the start phase, got %q", doc.CurrentPhase)
	}

	stored, err := f.documents.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(doc.Data, stored.Data); diff != "" {
		t.Fatalf("persisted data mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentCreateRejectsInvalidData(t *testing.T) {
	f := newFixture(t)

	_, err := f.documents.Create(context.Background(), "form_ticket", "wf_ticket", map[string]any{
		"severity": 10.0,
	})
	var invalid DocumentInvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected DocumentInvalidError, got %v", err)
	}
	if len(invalid.Violations) != 2 {
		t.Fatalf("expected missing title + severity bound, got %v", invalid.Violations)
	}
}

func TestDocumentCreateUnknownDefinitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var notFound NotFoundError
	if _, err := f.documents.Create(ctx, "nope", "wf_ticket", nil); !errors.As(err, &notFound) || notFound.Kind != "form" {
		t.Fatalf("expected form NotFoundError, got %v", err)
	}
	if _, err := f.documents.Create(ctx, "form_ticket", "nope", nil); !errors.As(err, &notFound) || notFound.Kind != "workflow" {
		t.Fatalf("expected workflow NotFoundError, got %v", err)
	}
}

func TestDocumentTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.documents.Create(ctx, "form_ticket", "wf_ticket", map[string]any{"title": "t"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	moved, err := f.documents.Transition(ctx, doc.ID, "review")
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if moved.CurrentPhase != "review" {
		t.Fatalf("phase = %q, want review", moved.CurrentPhase)
	}

	stored, err := f.documents.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.CurrentPhase != "review" {
		t.Fatalf("transition not persisted, phase %q", stored.CurrentPhase)
	}
}

func TestDocumentTransitionViolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.documents.Create(ctx, "form_ticket", "wf_ticket", map[string]any{"title": "t"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = f.documents.Transition(ctx, doc.ID, "closed")
	var violation WorkflowViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected WorkflowViolationError, got %v", err)
	}
	var invalid workflow.InvalidTransitionError
	if !errors.As(violation, &invalid) {
		t.Fatalf("expected wrapped InvalidTransitionError, got %v", violation.Err)
	}

	stored, err := f.documents.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.CurrentPhase != "draft" {
		t.Fatalf("rejected transition must not persist, phase %q", stored.CurrentPhase)
	}
}

func TestDocumentSetValue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.documents.Create(ctx, "form_ticket", "wf_ticket", map[string]any{"title": "t"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := f.documents.SetValue(ctx, doc.ID, "severity", 4.0)
	if err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if got, _ := updated.Value("severity"); got != 4.0 {
		t.Fatalf("value = %v, want 4", got)
	}

	// An out-of-bounds value is rejected and the stored data keeps its
	// previous shape.
	_, err = f.documents.SetValue(ctx, doc.ID, "severity", 99.0)
	var invalid DocumentInvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected DocumentInvalidError, got %v", err)
	}
	stored, err := f.documents.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got, _ := stored.Value("severity"); got != 4.0 {
		t.Fatalf("rejected value persisted: %v", got)
	}
}

func TestDocumentAvailableTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.documents.Create(ctx, "form_ticket", "wf_ticket", map[string]any{"title": "t"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	transitions, err := f.documents.AvailableTransitions(ctx, doc.ID)
	if err != nil {
		t.Fatalf("AvailableTransitions: %v", err)
	}
	want := []workflow.Transition{{Name: "submit", From: "draft", To: "review"}}
	if diff := cmp.Diff(want, transitions); diff != "" {
		t.Fatalf("transitions mismatch (-want +got):\n%s", diff)
	}
}
