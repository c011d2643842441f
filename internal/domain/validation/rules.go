// Package validation decides whether a user candidate may be persisted.
// Rules form an explicit list evaluated in a fixed order, and a failing
// candidate reports every violated rule, not just the first.
package validation

import (
	"net/http"
	"strings"
)

// Rule identifies a single validation rule.
type Rule string

// The full rule set, in evaluation order.
const (
	RuleNameBlank            Rule = "name_blank"
	RuleNameTooLong          Rule = "name_too_long"
	RuleEmailBlank           Rule = "email_blank"
	RuleEmailInvalid         Rule = "email_invalid"
	RuleEmailTaken           Rule = "email_taken"
	RulePasswordBlank        Rule = "password_blank"
	RulePasswordTooShort     Rule = "password_too_short"
	RulePasswordTooLong      Rule = "password_too_long"
	RulePasswordConfirmation Rule = "password_confirmation"
)

// Violations is the set of rules a candidate violated.
type Violations []Rule

// Has reports whether the set contains the given rule.
func (v Violations) Has(rule Rule) bool {
	for _, r := range v {
		if r == rule {
			return true
		}
	}

	return false
}

// Strings returns the rule identifiers as plain strings.
func (v Violations) Strings() []string {
	out := make([]string, len(v))
	for i, r := range v {
		out[i] = string(r)
	}

	return out
}

// Error is a rejection carrying the set of violated rules. It implements
// the domain AppError interface so the delivery layer renders it as
// structured data.
type Error struct {
	violations Violations
}

func newError(violations Violations) *Error {
	return &Error{violations: violations}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return "validation failed: " + strings.Join(e.violations.Strings(), ", ")
}

// Violations returns the violated rule identifiers.
func (e *Error) Violations() Violations {
	return e.violations
}

// HTTPCode returns the HTTP status code.
func (e *Error) HTTPCode() int {
	return http.StatusBadRequest
}

// ErrorCode returns the business error code.
func (e *Error) ErrorCode() string {
	return "VALIDATION_FAILED"
}

// Message returns the user-friendly error message.
func (e *Error) Message() string {
	return "validation failed"
}

// Details returns the violated rule identifiers as a comma-separated list.
func (e *Error) Details() string {
	return strings.Join(e.violations.Strings(), ", ")
}
