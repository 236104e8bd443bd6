// Package memory provides the in-memory implementation of a resource
// store: one validated collection per entity type, keyed by id.
//
// WHY A MAP PLUS AN ORDER SLICE?
// ──────────────────────────────
// Go's map iteration order is deliberately randomised, but list responses
// must be deterministic (records come back in the order they were created).
// So the store keeps two structures in lockstep:
//
//	items — id → record, for O(1) lookups
//	order — ids in insertion order, for deterministic listing
//
// Replace and Patch overwrite in place and keep the record's position;
// only Delete removes an id from the order slice.
//
// All writes are validated against the entity's declared schema (the
// validate:"..." struct tags) BEFORE the map is touched, so a rejected
// write never partially applies.
package memory

import (
	"errors"
	"sync"
	"time"

	"github.com/academic-finance/api/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Store holds every record of one entity type for the lifetime of the
// process. A single RWMutex serialises writes while letting reads proceed
// concurrently, which is all a non-clustered development server needs.
type Store[T storage.Record[T]] struct {
	mu       sync.RWMutex
	name     string // plural resource name, used in error messages
	validate *validator.Validate
	items    map[string]T
	order    []string
}

// New returns an empty store for one resource. The validator is shared
// across all four stores so custom tags (like "uni") are registered once.
func New[T storage.Record[T]](name string, v *validator.Validate) *Store[T] {
	return &Store[T]{
		name:     name,
		validate: v,
		items:    make(map[string]T),
	}
}

// Name returns the plural resource name this store was created with.
func (s *Store[T]) Name() string { return s.name }

// Len returns the number of records currently held.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Create validates and inserts a new record.
//
// If the client supplied an id it is kept (and must be unused); otherwise
// the store generates a UUID v4. Returns the stored record, with id and
// timestamps filled in.
func (s *Store[T]) Create(rec T) (T, error) {
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()

	id := rec.RecordID()
	if id == "" {
		id = uuid.NewString()
	}
	rec = rec.WithID(id)

	// Validate before the conflict check so a malformed record reports
	// its field errors even when the id also happens to collide.
	if err := s.check(rec); err != nil {
		return zero, err
	}

	if _, exists := s.items[id]; exists {
		return zero, &storage.ConflictError{Resource: s.name, ID: id}
	}

	now := time.Now().UTC()
	rec = rec.Stamp(now, now)

	s.items[id] = rec
	s.order = append(s.order, id)
	return rec, nil
}

// Get returns the record for id, or a NotFoundError.
func (s *Store[T]) Get(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.items[id]
	if !ok {
		var zero T
		return zero, &storage.NotFoundError{Resource: s.name, ID: id}
	}
	return rec, nil
}

// List returns every record matching ALL the supplied filters, in
// insertion order. No filters means every record. The returned slice is a
// snapshot: it stays valid while the store is mutated afterwards.
//
// Returns an empty (non-nil) slice when nothing matches, so JSON encoding
// produces [] rather than null.
func (s *Store[T]) List(filters ...func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.order))
next:
	for _, id := range s.order {
		rec := s.items[id]
		for _, match := range filters {
			if !match(rec) {
				continue next
			}
		}
		out = append(out, rec)
	}
	return out
}

// Replace validates rec as a complete record and overwrites the value
// stored under id. The record keeps its creation timestamp and its
// position in the listing order; only updated_at is refreshed.
//
// A body whose id disagrees with the target id is a validation error: PUT
// never moves a record to a new identifier.
func (s *Store[T]) Replace(id string, rec T) (T, error) {
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.items[id]
	if !ok {
		return zero, &storage.NotFoundError{Resource: s.name, ID: id}
	}

	if got := rec.RecordID(); got != "" && got != id {
		return zero, &storage.ValidationError{
			Resource: s.name,
			Fields:   []string{"field id must match the id in the URL path"},
		}
	}
	rec = rec.WithID(id)

	if err := s.check(rec); err != nil {
		return zero, err
	}

	rec = rec.Stamp(cur.Created(), time.Now().UTC())
	s.items[id] = rec
	return rec, nil
}

// Patch merges the supplied fields onto the existing record.
//
// Both the partial payload and the merged result are validated, so an
// invalid supplied field is rejected with field-level detail and the
// stored record is left untouched. Identifier and created_at cannot be
// altered: the patch types carry neither.
func (s *Store[T]) Patch(id string, p storage.Patch[T]) (T, error) {
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.items[id]
	if !ok {
		return zero, &storage.NotFoundError{Resource: s.name, ID: id}
	}

	// The patch struct's own omitempty tags check each supplied field.
	if err := s.checkValue(p); err != nil {
		return zero, err
	}

	merged := p.Apply(cur).WithID(id)
	if err := s.check(merged); err != nil {
		return zero, err
	}

	merged = merged.Stamp(cur.Created(), time.Now().UTC())
	s.items[id] = merged
	return merged, nil
}

// Delete removes the record for id, or reports NotFoundError.
func (s *Store[T]) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return &storage.NotFoundError{Resource: s.name, ID: id}
	}

	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// check validates a complete record against its schema tags.
func (s *Store[T]) check(rec T) error {
	return s.checkValue(rec)
}

// checkValue runs the shared validator and converts its field errors into
// the storage error taxonomy.
func (s *Store[T]) checkValue(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return storage.NewValidationError(s.name, verrs)
	}
	// validator.InvalidValidationError and friends: not a client problem.
	return err
}
