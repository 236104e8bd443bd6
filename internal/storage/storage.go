// Package storage defines the contract between the HTTP layer and the
// resource stores, plus the error taxonomy every store operation reports.
//
// WHY A CONTRACT PACKAGE?
// ───────────────────────
// Handlers (HTTP layer) should not know or care how records are kept.
// By depending only on the constraints and errors defined here:
//
//   - Swapping the backing store = implement the same operations for the
//     new backend, change one line in main.go. Zero handler changes.
//
//   - Writing tests = construct records directly and assert on the typed
//     errors, no HTTP server needed.
//
// The four resource types (Person, Address, Tuition, Scholarship) all flow
// through ONE generic store implementation, so the contract is expressed
// with type parameters rather than one interface per resource.
package storage

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Record is the constraint every stored entity satisfies.
//
// The type parameter T is the entity's own type ("self-referential"
// generics): Person implements Record[Person], Tuition implements
// Record[Tuition], and so on. Methods return copies rather than mutating,
// so the store hands out values that callers cannot alias into its state.
type Record[T any] interface {
	// RecordID returns the unique identifier, or "" when the client left
	// the id for the store to generate.
	RecordID() string

	// WithID returns a copy of the record with the identifier set.
	WithID(id string) T

	// Stamp returns a copy with both bookkeeping timestamps set.
	// Create passes now twice; Replace and Patch preserve the original
	// creation time and refresh only the update time.
	Stamp(createdAt, updatedAt time.Time) T

	// Created reports the record's creation timestamp, so an overwrite
	// can carry it forward.
	Created() time.Time
}

// Patch is the constraint for partial-update payloads.
//
// A Patch carries only the fields the client supplied (pointer fields, nil
// meaning "leave alone") and knows how to merge itself onto the current
// record. Patch types deliberately have no identifier field, which makes
// the id immutable under PATCH by construction.
type Patch[T any] interface {
	// Apply merges the supplied fields onto cur and returns the result.
	Apply(cur T) T
}

// ─────────────────────────────────────────────────────────────────────────────
// Error taxonomy.
//
// Every store failure is one of three recoverable client errors. They are
// detected synchronously BEFORE any mutation is applied, so a failed write
// never leaves a half-updated record behind. Each error knows the HTTP
// status it maps to, keeping the translation out of the handlers.
// ─────────────────────────────────────────────────────────────────────────────

// NotFoundError reports an operation against an identifier that is not in
// the store (get, replace, patch, delete).
type NotFoundError struct {
	Resource string // plural resource name, e.g. "tuitions"
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found with id %q", singular(e.Resource), e.ID)
}

// StatusCode returns the HTTP status for this error.
func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

// ConflictError reports a create whose identifier is already taken.
type ConflictError struct {
	Resource string
	ID       string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with id %q already exists", singular(e.Resource), e.ID)
}

// StatusCode returns the HTTP status for this error.
func (e *ConflictError) StatusCode() int { return http.StatusConflict }

// ValidationError reports a record (or partial update) that violates the
// entity's declared schema. Fields holds one message per offending field so
// the client can correct the request.
type ValidationError struct {
	Resource string
	Fields   []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", singular(e.Resource), strings.Join(e.Fields, ", "))
}

// StatusCode returns the HTTP status for this error.
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// StatusCoder is satisfied by all three store errors. The response layer
// uses it to pick the HTTP status without a type switch per error.
type StatusCoder interface {
	error
	StatusCode() int
}

// NewValidationError converts the validator's field errors into our
// taxonomy. Each failing field becomes one human-readable message.
func NewValidationError(resource string, errs validator.ValidationErrors) *ValidationError {
	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fieldMessage(fe))
	}
	return &ValidationError{Resource: resource, Fields: fields}
}

// fieldMessage renders a single validator.FieldError as plain English.
func fieldMessage(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("field %s is required", fe.Field())
	case "email":
		return fmt.Sprintf("field %s must be a valid email address", fe.Field())
	case "uuid4":
		return fmt.Sprintf("field %s must be a valid UUID", fe.Field())
	case "oneof":
		return fmt.Sprintf("field %s must be one of [%s]", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("field %s must be a date in %s format", fe.Field(), fe.Param())
	case "uni":
		return fmt.Sprintf("field %s must be a valid UNI (2-3 lowercase letters followed by 1-4 digits)", fe.Field())
	case "gt":
		return fmt.Sprintf("field %s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("field %s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("field %s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("field %s is invalid", fe.Field())
	}
}

// singular trims the plural "s" off a resource name for error messages,
// so "tuitions" reads as "no tuition found ...". Resource names in this
// application are all regular plurals.
func singular(resource string) string {
	if resource == "" {
		return "record"
	}
	return strings.TrimSuffix(resource, "s")
}
