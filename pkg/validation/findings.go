package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Rule identifiers attached to findings. Stored values are stable and safe to
// match on in callers and in serialized payloads.
const (
	RuleLength                  = "length"
	RuleIDCharset               = "id_charset"
	RuleUnknownKind             = "unknown_kind"
	RuleUnknownPhaseType        = "unknown_phase_type"
	RuleDuplicateFieldID        = "duplicate_field_id"
	RuleInvalidTransitionSource = "invalid_transition_source"
	RuleInvalidTransitionTarget = "invalid_transition_target"
)

// Finding records a single rule violation discovered while validating a
// definition. Path locates the offending value using dotted segments with
// bracketed indices (for example "fields[2].label").
type Finding struct {
	Path   string            `json:"path"`
	Rule   string            `json:"rule"`
	Params map[string]string `json:"params,omitempty"`
}

func (f Finding) String() string {
	if len(f.Params) == 0 {
		return fmt.Sprintf("%s: %s", f.Path, f.Rule)
	}
	keys := make([]string, 0, len(f.Params))
	for key := range f.Params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+f.Params[key])
	}
	return fmt.Sprintf("%s: %s (%s)", f.Path, f.Rule, strings.Join(pairs, ", "))
}

// Findings aggregates every violation discovered during one validation pass.
// Builders return the full set rather than stopping at the first problem, so
// callers can report all of them at once.
type Findings []Finding

// Error implements the error interface; a Findings value is only ever
// returned when it is non-empty.
func (f Findings) Error() string {
	if len(f) == 0 {
		return "validation: no findings"
	}
	parts := make([]string, 0, len(f))
	for _, finding := range f {
		parts = append(parts, finding.String())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasRule reports whether any finding carries the given rule identifier.
func (f Findings) HasRule(rule string) bool {
	for _, finding := range f {
		if finding.Rule == rule {
			return true
		}
	}
	return false
}

// AsError returns the findings as an error, or nil when the set is empty.
// Returning a typed nil slice through an error interface would read as
// non-nil to callers, so builders go through this helper.
func (f Findings) AsError() error {
	if len(f) == 0 {
		return nil
	}
	return f
}

var idCharset = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// CheckLength appends a length finding when value falls outside [min, max]
// runes and returns the (possibly extended) set.
func CheckLength(findings Findings, path, value string, min, max int) Findings {
	length := len([]rune(value))
	if length >= min && length <= max {
		return findings
	}
	return append(findings, Finding{
		Path: path,
		Rule: RuleLength,
		Params: map[string]string{
			"min":    fmt.Sprint(min),
			"max":    fmt.Sprint(max),
			"actual": fmt.Sprint(length),
		},
	})
}

// CheckIDCharset appends a charset finding when value contains characters
// outside letters, digits, hyphen, and underscore. Empty values are left to
// the length rule.
func CheckIDCharset(findings Findings, path, value string) Findings {
	if value == "" || idCharset.MatchString(value) {
		return findings
	}
	return append(findings, Finding{
		Path:   path,
		Rule:   RuleIDCharset,
		Params: map[string]string{"value": value},
	})
}
