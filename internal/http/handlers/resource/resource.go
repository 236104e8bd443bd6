// Package resource contains the HTTP handlers for the four CRUD
// collections (persons, addresses, tuitions, scholarships).
//
// ONE GENERIC HANDLER INSTEAD OF FOUR COPIES:
// ───────────────────────────────────────────
// Every resource exposes the same six routes with the same decode →
// validate → store → respond flow; only the entity type, the patch type,
// and the query-string filters differ. Handler is parameterised on the
// record type T and its partial-update type P, and each resource supplies
// its filter builder (see filters.go). main.go instantiates it four times:
//
//	h := resource.NewHandler[types.Person, types.PersonUpdate](log, store, resource.PersonFilters)
//	h.Register(router)
//
// The handler methods close over the store the same way the factory
// functions in a single-resource application would; the generic struct
// just keeps the four instantiations from drifting apart.
package resource

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/academic-finance/api/internal/storage"
	"github.com/academic-finance/api/internal/storage/memory"
	"github.com/academic-finance/api/internal/utils/response"
)

// FilterFunc builds the list predicates for one resource from the
// request's query string. Unknown parameters are ignored; an empty query
// string means "no constraint".
type FilterFunc[T any] func(url.Values) []func(T) bool

// defaulter is implemented by record types whose create payloads have
// non-zero defaults (currently only Scholarship.is_active). The zero
// value's Defaults() runs BEFORE the body is decoded, so absent fields
// keep the default and explicit values win.
type defaulter[T any] interface {
	Defaults() T
}

// Handler serves the six CRUD routes for one resource collection.
type Handler[T storage.Record[T], P storage.Patch[T]] struct {
	log     *slog.Logger
	store   *memory.Store[T]
	path    string
	filters FilterFunc[T]
}

// NewHandler binds a handler to one store. The URL prefix is derived from
// the store's resource name ("/" + plural name).
func NewHandler[T storage.Record[T], P storage.Patch[T]](
	log *slog.Logger,
	store *memory.Store[T],
	filters FilterFunc[T],
) *Handler[T, P] {
	return &Handler[T, P]{
		log:     log.With(slog.String("resource", store.Name())),
		store:   store,
		path:    "/" + store.Name(),
		filters: filters,
	}
}

// Register wires the six routes onto the router:
//
//	POST   /<resource>        → create
//	GET    /<resource>        → list (optional query-string filters)
//	GET    /<resource>/{id}   → get
//	PUT    /<resource>/{id}   → replace
//	PATCH  /<resource>/{id}   → patch
//	DELETE /<resource>/{id}   → delete
func (h *Handler[T, P]) Register(router *http.ServeMux) {
	router.HandleFunc("POST "+h.path, h.Create)
	router.HandleFunc("GET "+h.path, h.List)
	router.HandleFunc("GET "+h.path+"/{id}", h.Get)
	router.HandleFunc("PUT "+h.path+"/{id}", h.Replace)
	router.HandleFunc("PATCH "+h.path+"/{id}", h.Patch)
	router.HandleFunc("DELETE "+h.path+"/{id}", h.Delete)
}

// Create handles POST /<resource>.
//
// Success response (201 Created): the stored record, with the id and
// timestamps filled in. A client-supplied id is honoured when unused;
// a duplicate id is a 409.
func (h *Handler[T, P]) Create(w http.ResponseWriter, r *http.Request) {
	h.log.Info("creating record")

	var rec T
	if d, ok := any(rec).(defaulter[T]); ok {
		rec = d.Defaults()
	}
	if !h.decode(w, r, &rec) {
		return
	}

	created, err := h.store.Create(rec)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	h.log.Info("record created", slog.String("id", created.RecordID()))
	_ = response.WriteJSON(w, http.StatusCreated, created)
}

// List handles GET /<resource>.
//
// Query-string parameters narrow the result (exact-match per field unless
// a resource documents otherwise); no parameters returns every record in
// insertion order. Always an array, [] when empty.
func (h *Handler[T, P]) List(w http.ResponseWriter, r *http.Request) {
	h.log.Info("listing records")

	var filters []func(T) bool
	if h.filters != nil {
		filters = h.filters(r.URL.Query())
	}

	_ = response.WriteJSON(w, http.StatusOK, h.store.List(filters...))
}

// Get handles GET /<resource>/{id}.
func (h *Handler[T, P]) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.log.Info("getting record", slog.String("id", id))

	rec, err := h.store.Get(id)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	_ = response.WriteJSON(w, http.StatusOK, rec)
}

// Replace handles PUT /<resource>/{id}.
//
// The body must be a complete record; it is validated with the same rules
// as creation. The identifier in the body, when present, must match the
// path. created_at survives the overwrite, updated_at is refreshed.
func (h *Handler[T, P]) Replace(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.log.Info("replacing record", slog.String("id", id))

	var rec T
	if d, ok := any(rec).(defaulter[T]); ok {
		rec = d.Defaults()
	}
	if !h.decode(w, r, &rec) {
		return
	}

	updated, err := h.store.Replace(id, rec)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	h.log.Info("record replaced", slog.String("id", id))
	_ = response.WriteJSON(w, http.StatusOK, updated)
}

// Patch handles PATCH /<resource>/{id}.
//
// The body carries only the fields to change; each supplied field is
// validated and the merge is all-or-nothing. The identifier cannot be
// changed through a patch.
func (h *Handler[T, P]) Patch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.log.Info("patching record", slog.String("id", id))

	var partial P
	if !h.decode(w, r, &partial) {
		return
	}

	updated, err := h.store.Patch(id, partial)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	h.log.Info("record patched", slog.String("id", id))
	_ = response.WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /<resource>/{id}.
//
// Success response (200 OK): { "status": "deleted" }
func (h *Handler[T, P]) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.log.Info("deleting record", slog.String("id", id))

	if err := h.store.Delete(id); err != nil {
		response.WriteError(w, err)
		return
	}

	h.log.Info("record deleted", slog.String("id", id))
	_ = response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// decode reads the JSON request body into dst. On failure it writes the
// 400 response itself and returns false, so callers can simply return.
func (h *Handler[T, P]) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)

	if errors.Is(err, io.EOF) {
		// io.EOF means the body was completely empty — nothing to decode.
		_ = response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return false
	}
	if err != nil {
		// Malformed JSON, wrong field types, etc.
		_ = response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return false
	}
	return true
}
