package model

import (
	"fmt"
	"strings"
)

// ViolationKind classifies an integrity violation found by the validator.
type ViolationKind string

const (
	ViolationCellBalance         ViolationKind = "cell_balance"
	ViolationDuplicateIdentifier ViolationKind = "duplicate_identifier"
	ViolationDuplicateSource     ViolationKind = "duplicate_source"
	ViolationEligibility         ViolationKind = "eligibility"
	ViolationOrderCompleteness   ViolationKind = "order_completeness"
	ViolationConsistency         ViolationKind = "consistency"
	ViolationSchema              ViolationKind = "schema"
)

// Violation is one failed invariant with enough detail to fix the upstream
// data without inspecting internals.
type Violation struct {
	Kind   ViolationKind `json:"kind"`
	Detail string        `json:"detail"`
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s] %s", v.Kind, v.Detail)
}

// Report is the full outcome of a validation pass. Checks run to completion,
// so a single pass yields every violation, not only the first.
type Report struct {
	Violations []Violation `json:"violations"`
	Warnings   []string    `json:"warnings,omitempty"`
}

// Add records a violation.
func (r *Report) Add(kind ViolationKind, format string, args ...any) {
	r.Violations = append(r.Violations, Violation{Kind: kind, Detail: fmt.Sprintf(format, args...)})
}

// Warn records a non-fatal observation.
func (r *Report) Warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// OK reports whether the set passed every check.
func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

// Err returns nil on a clean report, otherwise an error enumerating every
// violation.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	lines := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		lines = append(lines, v.String())
	}
	return fmt.Errorf("validation failed with %d violation(s):\n  %s", len(r.Violations), strings.Join(lines, "\n  "))
}
