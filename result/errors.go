package result

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// FieldViolation is one failed constraint on one field, as collected by
// smart constructors and transaction builders (spec §7: "CanonicalOrder.create
// collects all field violations before returning a single Err").
type FieldViolation struct {
	Path       string
	Constraint string
	Actual     string
}

func (v FieldViolation) String() string {
	return fmt.Sprintf("%s: %s (got %q)", v.Path, v.Constraint, v.Actual)
}

// ValidationError aggregates every FieldViolation found while validating a
// value, rather than failing on the first one.
type ValidationError struct {
	Violations []FieldViolation
}

func NewValidationError(violations ...FieldViolation) *ValidationError {
	return &ValidationError{Violations: violations}
}

// Field appends a single violation and returns the receiver, for fluent
// accumulation in smart constructors.
func (e *ValidationError) Field(path, constraint, actual string) *ValidationError {
	e.Violations = append(e.Violations, FieldViolation{Path: path, Constraint: constraint, Actual: actual})
	return e
}

// HasViolations reports whether any field failed.
func (e *ValidationError) HasViolations() bool {
	return e != nil && len(e.Violations) > 0
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Violations) == 0 {
		return "validation error: no violations recorded"
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// ConservationViolation is raised by the ledger engine when a conservation
// law (spec INV-L01/INV-L06) is found to be broken.
type ConservationViolation struct {
	LawName  string
	Expected string
	Actual   string
}

func (e *ConservationViolation) Error() string {
	return fmt.Sprintf("conservation violation [%s]: expected %s, got %s", e.LawName, e.Expected, e.Actual)
}

func NewConservationViolation(lawName, expected, actual string) *ConservationViolation {
	return &ConservationViolation{LawName: lawName, Expected: expected, Actual: actual}
}

// IllegalTransition is raised by the lifecycle state machines.
type IllegalTransition struct {
	FromState string
	ToState   string
}

func (e *IllegalTransition) Error() string {
	return fmt.Sprintf("illegal transition: %s -> %s", e.FromState, e.ToState)
}

func NewIllegalTransition(from, to string) *IllegalTransition {
	return &IllegalTransition{FromState: from, ToState: to}
}

// PricingError reports a pricing or calibration failure: inside this core
// it is returned when no SVI fit is valid, when implied vol meets a
// non-positive total variance, when a failed yield-curve calibration has
// no last-good attestation to fall back on, and when an option cash
// settlement has negative intrinsic value.
type PricingError struct {
	Reason string
}

func (e *PricingError) Error() string { return "pricing error: " + e.Reason }

func NewPricingError(reason string) *PricingError { return &PricingError{Reason: reason} }

// PersistenceError wraps a failure surfaced by an external store
// (attestation store, transaction log, state store, event bus).
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func NewPersistenceError(op string, cause error) *PersistenceError {
	return &PersistenceError{Op: op, Err: errors.Wrap(cause, op)}
}

// DomainError is the catch-all for numeric-kernel preconditions and other
// fail-stop-adjacent programmer-error conditions that are nonetheless
// surfaced as Err rather than a panic, per spec §7.
type DomainError struct {
	Code   string
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("domain error [%s]: %s", e.Code, e.Reason)
}

func NewDomainError(code, reason string) *DomainError {
	return &DomainError{Code: code, Reason: reason}
}
