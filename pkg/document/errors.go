package document

import (
	"fmt"
	"strings"
)

// Code classifies a document validation failure. The values are stable and
// appear verbatim in API payloads.
type Code string

const (
	CodeMissingRequiredField Code = "missing_required_field"
	CodeInvalidType          Code = "invalid_type"
	CodeValueTooLow          Code = "value_too_low"
	CodeValueTooHigh         Code = "value_too_high"
	CodeInvalidSelection     Code = "invalid_selection"
	CodeInvalidDateFormat    Code = "invalid_date_format"
	CodeFormIDMismatch       Code = "form_id_mismatch"
)

// ValidationError describes one way a document's data failed to satisfy its
// form definition. Only the fields relevant to the code are populated.
type ValidationError struct {
	Code  Code   `json:"code"`
	Field string `json:"field,omitempty"`

	// Type mismatch details.
	Expected string `json:"expected,omitempty"`
	Got      string `json:"got,omitempty"`

	// Constraint details.
	Value   any      `json:"value,omitempty"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Allowed []string `json:"allowed,omitempty"`

	// Mismatch details, populated only for CodeFormIDMismatch.
	DocFormID string `json:"doc_form_id,omitempty"`
	FormID    string `json:"form_id,omitempty"`
}

func (e ValidationError) Error() string {
	switch e.Code {
	case CodeMissingRequiredField:
		return fmt.Sprintf("field %q is required but was missing or null", e.Field)
	case CodeInvalidType:
		return fmt.Sprintf("field %q expected type %q, but got %q", e.Field, e.Expected, e.Got)
	case CodeValueTooLow:
		return fmt.Sprintf("field %q value %v is less than minimum %v", e.Field, e.Value, deref(e.Min))
	case CodeValueTooHigh:
		return fmt.Sprintf("field %q value %v is greater than maximum %v", e.Field, e.Value, deref(e.Max))
	case CodeInvalidSelection:
		return fmt.Sprintf("field %q value %v is not a valid option, allowed: %s", e.Field, e.Value, strings.Join(e.Allowed, ", "))
	case CodeInvalidDateFormat:
		return fmt.Sprintf("field %q expected an RFC 3339 date string, but got %v", e.Field, e.Value)
	case CodeFormIDMismatch:
		return fmt.Sprintf("document form_id %q does not match definition id %q", e.DocFormID, e.FormID)
	default:
		return fmt.Sprintf("document validation error %q on field %q", e.Code, e.Field)
	}
}

func deref(v *float64) any {
	if v == nil {
		return "<unset>"
	}
	return *v
}
