package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-docflow/pkg/validation"
)

const formYAML = `
id: form_ticket
name: Support Ticket
version: 2
fields:
  - id: title
    label: Title
    field_type:
      kind: text
    required: true
  - id: severity
    label: Severity
    field_type:
      kind: number
      config:
        min: 1
        max: 5
`

const workflowJSON = `{
  "id": "wf_ticket",
  "name": "Ticket Workflow",
  "phases": [
    {"id": "draft", "label": "Draft", "type": "start"},
    {"id": "closed", "label": "Closed", "type": "end"}
  ],
  "transitions": [
    {"name": "close", "from": "draft", "to": "closed"}
  ]
}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFormYAML(t *testing.T) {
	path := writeTemp(t, "form.yaml", formYAML)

	form, err := New().LoadForm(path)
	if err != nil {
		t.Fatalf("LoadForm: %v", err)
	}
	if form.ID() != "form_ticket" || form.Version() != 2 {
		t.Fatalf("form mismatch: %s v%d", form.ID(), form.Version())
	}
	fields := form.Fields()
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if !fields[0].Required() {
		t.Fatal("title must be required")
	}
	severity := fields[1].Type()
	if severity.Number == nil || *severity.Number.Min != 1 || *severity.Number.Max != 5 {
		t.Fatalf("number config mismatch: %+v", severity.Number)
	}
}

func TestLoadWorkflowJSON(t *testing.T) {
	path := writeTemp(t, "workflow.json", workflowJSON)

	wf, err := New().LoadWorkflow(path)
	if err != nil {
		t.Fatalf("LoadWorkflow: %v", err)
	}
	if wf.ID() != "wf_ticket" || len(wf.Phases()) != 2 || len(wf.Transitions()) != 1 {
		t.Fatalf("workflow mismatch: %s", wf.ID())
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeTemp(t, "form.toml", "id = 1")
	if _, err := New().LoadForm(path); err == nil {
		t.Fatal("expected an error for unsupported extension")
	}
}

func TestLoadFormValidates(t *testing.T) {
	path := writeTemp(t, "form.yaml", `
id: "bad id!"
name: ""
fields: []
`)
	_, err := New().LoadForm(path)
	var findings validation.Findings
	if !errors.As(err, &findings) {
		t.Fatalf("expected validation findings, got %v", err)
	}
	if !findings.HasRule(validation.RuleIDCharset) {
		t.Fatalf("expected id_charset finding, got %v", findings)
	}
}

func TestLoadWorkflowValidatesGraph(t *testing.T) {
	path := writeTemp(t, "workflow.yaml", `
id: wf_bad
name: Bad
phases:
  - id: a
    label: A
    type: start
transitions:
  - name: jump
    from: a
    to: ghost
`)
	_, err := New().LoadWorkflow(path)
	var findings validation.Findings
	if !errors.As(err, &findings) {
		t.Fatalf("expected validation findings, got %v", err)
	}
	if !findings.HasRule(validation.RuleInvalidTransitionTarget) {
		t.Fatalf("expected invalid_transition_target, got %v", findings)
	}
}

func TestSanitizerStripsMarkup(t *testing.T) {
	path := writeTemp(t, "form.yaml", `
id: form_ticket
name: "Support <script>alert(1)</script>Ticket"
fields:
  - id: title
    label: "<b>Title</b>"
    field_type:
      kind: text
    description: "Short <img src=x onerror=alert(1)> summary"
`)
	form, err := New(WithSanitizer()).LoadForm(path)
	if err != nil {
		t.Fatalf("LoadForm: %v", err)
	}
	if form.Name() != "Support Ticket" {
		t.Fatalf("name not sanitized: %q", form.Name())
	}
	field := form.Fields()[0]
	if field.Label() != "Title" {
		t.Fatalf("label not sanitized: %q", field.Label())
	}
	if field.Description() != "Short  summary" {
		t.Fatalf("description not sanitized: %q", field.Description())
	}
}

func TestSanitizerOffByDefault(t *testing.T) {
	path := writeTemp(t, "form.json", `{
  "id": "form_ticket",
  "name": "Support <b>Ticket</b>",
  "fields": []
}`)
	form, err := New().LoadForm(path)
	if err != nil {
		t.Fatalf("LoadForm: %v", err)
	}
	if form.Name() != "Support <b>Ticket</b>" {
		t.Fatalf("payload altered without sanitizer: %q", form.Name())
	}
}
