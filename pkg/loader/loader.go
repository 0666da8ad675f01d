// Package loader reads form and workflow definitions from YAML or JSON
// files. Payloads decode into builders, so everything loaded from disk goes
// through the same validation as definitions built in code.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-docflow/pkg/schema"
	"github.com/goliatone/go-docflow/pkg/workflow"
)

// Format names a supported definition encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Loader parses definition payloads.
type Loader struct {
	sanitize bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithSanitizer strips markup from name, label, and description values
// before validation. Definitions often come from operator-edited files, and
// those strings end up verbatim in API responses.
func WithSanitizer() Option {
	return func(l *Loader) {
		l.sanitize = true
	}
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadForm reads and validates a form definition file. The format is chosen
// by file extension: .json, .yaml, or .yml.
func (l *Loader) LoadForm(path string) (schema.FormDefinition, error) {
	raw, format, err := readFile(path)
	if err != nil {
		return schema.FormDefinition{}, err
	}
	return l.ParseForm(raw, format)
}

// LoadWorkflow reads and validates a workflow definition file.
func (l *Loader) LoadWorkflow(path string) (workflow.WorkflowDefinition, error) {
	raw, format, err := readFile(path)
	if err != nil {
		return workflow.WorkflowDefinition{}, err
	}
	return l.ParseWorkflow(raw, format)
}

// ParseForm decodes a form definition payload and validates it through the
// form builder. The returned error is validation.Findings when the payload
// decodes but fails validation.
func (l *Loader) ParseForm(raw []byte, format Format) (schema.FormDefinition, error) {
	payload, err := l.normalize(raw, format)
	if err != nil {
		return schema.FormDefinition{}, err
	}
	var form schema.FormDefinition
	if err := json.Unmarshal(payload, &form); err != nil {
		return schema.FormDefinition{}, fmt.Errorf("loader: parse form: %w", err)
	}
	return form, nil
}

// ParseWorkflow decodes a workflow definition payload and validates it
// through the workflow builder.
func (l *Loader) ParseWorkflow(raw []byte, format Format) (workflow.WorkflowDefinition, error) {
	payload, err := l.normalize(raw, format)
	if err != nil {
		return workflow.WorkflowDefinition{}, err
	}
	var wf workflow.WorkflowDefinition
	if err := json.Unmarshal(payload, &wf); err != nil {
		return workflow.WorkflowDefinition{}, fmt.Errorf("loader: parse workflow: %w", err)
	}
	return wf, nil
}

func readFile(path string) ([]byte, Format, error) {
	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		format = FormatJSON
	case ".yaml", ".yml":
		format = FormatYAML
	default:
		return nil, "", fmt.Errorf("loader: unsupported definition file extension %q", filepath.Ext(path))
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("loader: read %s: %w", path, err)
	}
	return raw, format, nil
}

// normalize converts the payload to JSON and optionally sanitizes display
// strings in the generic representation, before the typed decode runs.
func (l *Loader) normalize(raw []byte, format Format) ([]byte, error) {
	var payload any
	switch format {
	case FormatJSON:
		if !l.sanitize {
			return raw, nil
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("loader: decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("loader: decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("loader: unsupported format %q", format)
	}

	if l.sanitize {
		payload = sanitizeStrings(payload)
	}
	out, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("loader: normalize payload: %w", err)
	}
	return out, nil
}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// displayKeys are the payload keys holding operator-authored display text.
// Identifiers are left alone; the charset rule rejects markup there anyway.
var displayKeys = map[string]bool{
	"name":        true,
	"label":       true,
	"description": true,
}

func sanitizeStrings(payload any) any {
	switch value := payload.(type) {
	case map[string]any:
		for key, item := range value {
			if displayKeys[key] {
				if str, ok := item.(string); ok {
					value[key] = strings.TrimSpace(textSanitizer().Sanitize(str))
					continue
				}
			}
			value[key] = sanitizeStrings(item)
		}
		return value
	case []any:
		for i, item := range value {
			value[i] = sanitizeStrings(item)
		}
		return value
	default:
		return payload
	}
}
