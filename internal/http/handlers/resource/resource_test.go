package resource

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/academic-finance/api/internal/storage/memory"
	"github.com/academic-finance/api/internal/types"
	"github.com/academic-finance/api/internal/utils/response"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRouter builds the same route table main.go registers, minus the
// middleware, so handlers are exercised through real ServeMux matching.
func newRouter(t *testing.T) *http.ServeMux {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	validate := types.NewValidator()
	router := http.NewServeMux()

	NewHandler[types.Person, types.PersonUpdate](log, memory.New[types.Person]("persons", validate), PersonFilters).Register(router)
	NewHandler[types.Address, types.AddressUpdate](log, memory.New[types.Address]("addresses", validate), AddressFilters).Register(router)
	NewHandler[types.Tuition, types.TuitionUpdate](log, memory.New[types.Tuition]("tuitions", validate), TuitionFilters).Register(router)
	NewHandler[types.Scholarship, types.ScholarshipUpdate](log, memory.New[types.Scholarship]("scholarships", validate), ScholarshipFilters).Register(router)

	return router
}

func do(t *testing.T, router *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

const tuitionBody = `{
	"student_uni": "vv2418",
	"tuition_type": "tuition",
	"semester": "Fall",
	"year": 2024,
	"amount": 25000.00,
	"due_date": "2024-08-15"
}`

func TestCreateTuition(t *testing.T) {
	router := newRouter(t)

	w := do(t, router, http.MethodPost, "/tuitions", tuitionBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	created := decodeBody[types.Tuition](t, w)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "vv2418", created.StudentUNI)
	assert.False(t, created.CreatedAt.IsZero())

	w = do(t, router, http.MethodGet, "/tuitions/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, decodeBody[types.Tuition](t, w))
}

func TestCreateValidationFailure(t *testing.T) {
	router := newRouter(t)

	w := do(t, router, http.MethodPost, "/tuitions", `{"student_uni": "vv2418"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeBody[response.Response](t, w)
	assert.Equal(t, response.StatusError, resp.Status)
	assert.Contains(t, resp.Error, "tuition_type")
}

func TestCreateEmptyBody(t *testing.T) {
	router := newRouter(t)

	w := do(t, router, http.MethodPost, "/tuitions", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeBody[response.Response](t, w)
	assert.Equal(t, "request body is empty", resp.Error)
}

func TestCreateDuplicateIDConflict(t *testing.T) {
	router := newRouter(t)
	id := uuid.NewString()

	body := `{"id": "` + id + `", "street": "1 Main St", "city": "New York", "country": "USA"}`
	w := do(t, router, http.MethodPost, "/addresses", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, router, http.MethodPost, "/addresses", body)
	require.Equal(t, http.StatusConflict, w.Code)

	resp := decodeBody[response.Response](t, w)
	assert.Equal(t, response.StatusError, resp.Status)
	assert.Contains(t, resp.Error, id)
}

func TestListEmptyIsArray(t *testing.T) {
	router := newRouter(t)

	w := do(t, router, http.MethodGet, "/scholarships", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestScholarshipDefaultsAndFilters(t *testing.T) {
	router := newRouter(t)

	// is_active omitted: defaults to true.
	w := do(t, router, http.MethodPost, "/scholarships", `{
		"name": "Dean's Academic Excellence Scholarship",
		"scholarship_type": "academic_merit",
		"sponsor_organization": "Columbia University Engineering School",
		"amount": 5000.00
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, decodeBody[types.Scholarship](t, w).IsActive)

	// Explicit false survives the default.
	w = do(t, router, http.MethodPost, "/scholarships", `{
		"name": "International Student Support Grant",
		"scholarship_type": "need_based",
		"sponsor_organization": "Columbia Global Programs",
		"amount": 3000.00,
		"is_active": false
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.False(t, decodeBody[types.Scholarship](t, w).IsActive)

	w = do(t, router, http.MethodPost, "/scholarships", `{
		"name": "Research Travel Grant",
		"scholarship_type": "research",
		"sponsor_organization": "Alumni Association",
		"amount": 1500.00
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"no filters returns all in insertion order", "",
			[]string{"Dean's Academic Excellence Scholarship", "International Student Support Grant", "Research Travel Grant"}},
		{"by type", "?scholarship_type=need_based",
			[]string{"International Student Support Grant"}},
		{"by active", "?is_active=true",
			[]string{"Dean's Academic Excellence Scholarship", "Research Travel Grant"}},
		{"sponsor substring is case-insensitive", "?sponsor_organization=columbia",
			[]string{"Dean's Academic Excellence Scholarship", "International Student Support Grant"}},
		{"conjunction", "?sponsor_organization=columbia&is_active=false",
			[]string{"International Student Support Grant"}},
		{"no match", "?scholarship_type=departmental", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, router, http.MethodGet, "/scholarships"+tc.query, "")
			require.Equal(t, http.StatusOK, w.Code)

			list := decodeBody[[]types.Scholarship](t, w)
			var names []string
			for _, s := range list {
				names = append(names, s.Name)
			}
			assert.Equal(t, tc.want, names)
		})
	}
}

func TestPersonNestedAddressFilters(t *testing.T) {
	router := newRouter(t)

	person := func(uni, first, city, country string) string {
		b, _ := json.Marshal(map[string]any{
			"uni":        uni,
			"first_name": first,
			"last_name":  "Tester",
			"email":      first + "@example.edu",
			"birth_date": "2000-01-01",
			"addresses": []map[string]string{
				{"street": "1 Main St", "city": city, "country": country},
			},
		})
		return string(b)
	}

	w := do(t, router, http.MethodPost, "/persons", person("aa1111", "alice", "New York", "USA"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = do(t, router, http.MethodPost, "/persons", person("bb2222", "bob", "Toronto", "Canada"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, router, http.MethodGet, "/persons?city=Toronto", "")
	list := decodeBody[[]types.Person](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "bb2222", list[0].UNI)

	w = do(t, router, http.MethodGet, "/persons?country=USA", "")
	list = decodeBody[[]types.Person](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "aa1111", list[0].UNI)

	w = do(t, router, http.MethodGet, "/persons?first_name=alice&country=Canada", "")
	assert.Empty(t, decodeBody[[]types.Person](t, w))
}

func TestReplace(t *testing.T) {
	router := newRouter(t)

	w := do(t, router, http.MethodPost, "/tuitions", tuitionBody)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody[types.Tuition](t, w)

	w = do(t, router, http.MethodPut, "/tuitions/"+created.ID, `{
		"student_uni": "xy123",
		"tuition_type": "gym_fee",
		"semester": "Spring",
		"year": 2025,
		"amount": 500.00,
		"due_date": "2025-01-20"
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	updated := decodeBody[types.Tuition](t, w)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "xy123", updated.StudentUNI)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestReplaceMismatchedIDRejected(t *testing.T) {
	router := newRouter(t)

	w := do(t, router, http.MethodPost, "/tuitions", tuitionBody)
	created := decodeBody[types.Tuition](t, w)

	body := `{
		"id": "` + uuid.NewString() + `",
		"student_uni": "xy123",
		"tuition_type": "gym_fee",
		"semester": "Spring",
		"year": 2025,
		"amount": 500.00,
		"due_date": "2025-01-20"
	}`
	w = do(t, router, http.MethodPut, "/tuitions/"+created.ID, body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeBody[response.Response](t, w)
	assert.Contains(t, resp.Error, "must match")
}

func TestPatch(t *testing.T) {
	router := newRouter(t)

	w := do(t, router, http.MethodPost, "/tuitions", tuitionBody)
	created := decodeBody[types.Tuition](t, w)

	w = do(t, router, http.MethodPatch, "/tuitions/"+created.ID, `{"amount": 36576.00, "tuition_type": "gym_fee"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	patched := decodeBody[types.Tuition](t, w)
	assert.Equal(t, 36576.0, patched.Amount)
	assert.Equal(t, types.TuitionTypeGymFee, patched.Type)
	assert.Equal(t, created.StudentUNI, patched.StudentUNI)
	assert.Equal(t, created.Semester, patched.Semester)
	assert.Equal(t, created.DueDate, patched.DueDate)
}

func TestPatchInvalidField(t *testing.T) {
	router := newRouter(t)

	w := do(t, router, http.MethodPost, "/tuitions", tuitionBody)
	created := decodeBody[types.Tuition](t, w)

	w = do(t, router, http.MethodPatch, "/tuitions/"+created.ID, `{"semester": "Winter"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// The stored record is untouched.
	w = do(t, router, http.MethodGet, "/tuitions/"+created.ID, "")
	assert.Equal(t, types.SemesterFall, decodeBody[types.Tuition](t, w).Semester)
}

func TestDelete(t *testing.T) {
	router := newRouter(t)

	w := do(t, router, http.MethodPost, "/tuitions", tuitionBody)
	created := decodeBody[types.Tuition](t, w)

	w = do(t, router, http.MethodDelete, "/tuitions/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"status": "deleted"}, decodeBody[map[string]string](t, w))

	w = do(t, router, http.MethodGet, "/tuitions/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodDelete, "/tuitions/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnknownIDIs404ForEveryVerb(t *testing.T) {
	router := newRouter(t)
	path := "/tuitions/" + uuid.NewString()

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, path, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodPut, path, tuitionBody).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodPatch, path, `{"amount": 1}`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodDelete, path, "").Code)
}

func TestMalformedJSONRejected(t *testing.T) {
	router := newRouter(t)

	w := do(t, router, http.MethodPost, "/tuitions", `{"amount": "lots"`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.StatusError, decodeBody[response.Response](t, w).Status)
}
