// Package openapi builds the machine-readable description of the API.
//
// The document is assembled programmatically from the same field sets the
// validator enforces, once at startup, and served as JSON at
// /openapi.json. /docs renders it with Swagger UI for interactive
// exploration, mirroring what framework-generated docs would offer.
package openapi

import (
	"net/http"

	"github.com/academic-finance/api/internal/utils/response"
	"github.com/getkin/kin-openapi/openapi3"
)

// API metadata reported in the document.
const (
	Title       = "Academic Financial Management API"
	Description = "CRUD API over Person, Address, Tuition, and Scholarship resources backed by an in-memory store"
	Version     = "0.2.0"
)

// Handler serves the document as JSON.
func Handler(doc *openapi3.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = response.WriteJSON(w, http.StatusOK, doc)
	}
}

// DocsHandler serves a minimal Swagger UI page that loads /openapi.json.
func DocsHandler() http.HandlerFunc {
	const page = `<!DOCTYPE html>
<html>
<head>
  <title>` + Title + `</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({ url: "/openapi.json", dom_id: "#swagger-ui" });
  </script>
</body>
</html>`
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}
}

// RootHandler serves the welcome message at /.
func RootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = response.WriteJSON(w, http.StatusOK, map[string]string{
			"message": "Welcome to the Person/Address/Tuition/Scholarship API. See /docs for the OpenAPI UI.",
		})
	}
}

// Document assembles the full OpenAPI 3 description: component schemas
// for every entity (and its PATCH payload), the six CRUD operations per
// resource, and the health endpoints.
func Document() *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       Title,
			Description: Description,
			Version:     Version,
		},
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				"Address":           schemaRef(addressSchema()),
				"AddressUpdate":     schemaRef(addressUpdateSchema()),
				"Person":            schemaRef(personSchema()),
				"PersonUpdate":      schemaRef(personUpdateSchema()),
				"Tuition":           schemaRef(tuitionSchema()),
				"TuitionUpdate":     schemaRef(tuitionUpdateSchema()),
				"Scholarship":       schemaRef(scholarshipSchema()),
				"ScholarshipUpdate": schemaRef(scholarshipUpdateSchema()),
				"Error":             schemaRef(errorSchema()),
				"Health":            schemaRef(healthSchema()),
			},
		},
		Paths: openapi3.NewPaths(),
	}

	addResource(doc, "persons", "Person", []string{
		"uni", "first_name", "last_name", "email", "phone", "birth_date", "city", "country",
	})
	addResource(doc, "addresses", "Address", []string{
		"street", "city", "state", "postal_code", "country",
	})
	addResource(doc, "tuitions", "Tuition", []string{
		"student_uni", "tuition_type", "semester", "year",
	})
	addResource(doc, "scholarships", "Scholarship", []string{
		"scholarship_type", "sponsor_organization", "is_active",
	})
	addHealth(doc)

	return doc
}

// ─────────────────────────────────────────────────────────────────────────────
// Entity schemas. These mirror the validate tags in internal/types; the
// two must be kept in sync by hand since the validator has no schema
// export.
// ─────────────────────────────────────────────────────────────────────────────

func addressSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewUUIDSchema()).
		WithProperty("street", openapi3.NewStringSchema()).
		WithProperty("city", openapi3.NewStringSchema()).
		WithProperty("state", openapi3.NewStringSchema()).
		WithProperty("postal_code", openapi3.NewStringSchema()).
		WithProperty("country", openapi3.NewStringSchema()).
		WithProperty("created_at", openapi3.NewDateTimeSchema()).
		WithProperty("updated_at", openapi3.NewDateTimeSchema())
	s.Required = []string{"street", "city", "country"}
	return s
}

func addressUpdateSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("street", openapi3.NewStringSchema()).
		WithProperty("city", openapi3.NewStringSchema()).
		WithProperty("state", openapi3.NewStringSchema()).
		WithProperty("postal_code", openapi3.NewStringSchema()).
		WithProperty("country", openapi3.NewStringSchema())
}

func personSchema() *openapi3.Schema {
	addresses := openapi3.NewArraySchema()
	addresses.Items = componentRef("Address")

	s := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewUUIDSchema()).
		WithProperty("uni", uniSchema()).
		WithProperty("first_name", openapi3.NewStringSchema()).
		WithProperty("last_name", openapi3.NewStringSchema()).
		WithProperty("email", openapi3.NewStringSchema().WithFormat("email")).
		WithProperty("phone", openapi3.NewStringSchema()).
		WithProperty("birth_date", openapi3.NewStringSchema().WithFormat("date")).
		WithProperty("created_at", openapi3.NewDateTimeSchema()).
		WithProperty("updated_at", openapi3.NewDateTimeSchema())
	s.Properties["addresses"] = openapi3.NewSchemaRef("", addresses)
	s.Required = []string{"uni", "first_name", "last_name", "email", "birth_date"}
	return s
}

func personUpdateSchema() *openapi3.Schema {
	addresses := openapi3.NewArraySchema()
	addresses.Items = componentRef("Address")

	s := openapi3.NewObjectSchema().
		WithProperty("uni", uniSchema()).
		WithProperty("first_name", openapi3.NewStringSchema()).
		WithProperty("last_name", openapi3.NewStringSchema()).
		WithProperty("email", openapi3.NewStringSchema().WithFormat("email")).
		WithProperty("phone", openapi3.NewStringSchema()).
		WithProperty("birth_date", openapi3.NewStringSchema().WithFormat("date"))
	s.Properties["addresses"] = openapi3.NewSchemaRef("", addresses)
	return s
}

func tuitionSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewUUIDSchema()).
		WithProperty("student_uni", uniSchema()).
		WithProperty("tuition_type", tuitionTypeSchema()).
		WithProperty("semester", semesterSchema()).
		WithProperty("year", openapi3.NewIntegerSchema().WithMin(1900).WithMax(2100)).
		WithProperty("amount", amountSchema()).
		WithProperty("due_date", openapi3.NewStringSchema().WithFormat("date")).
		WithProperty("created_at", openapi3.NewDateTimeSchema()).
		WithProperty("updated_at", openapi3.NewDateTimeSchema())
	s.Required = []string{"student_uni", "tuition_type", "semester", "year", "amount", "due_date"}
	return s
}

func tuitionUpdateSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("student_uni", uniSchema()).
		WithProperty("tuition_type", tuitionTypeSchema()).
		WithProperty("semester", semesterSchema()).
		WithProperty("year", openapi3.NewIntegerSchema().WithMin(1900).WithMax(2100)).
		WithProperty("amount", amountSchema()).
		WithProperty("due_date", openapi3.NewStringSchema().WithFormat("date"))
}

func scholarshipSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewUUIDSchema()).
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("scholarship_type", scholarshipTypeSchema()).
		WithProperty("sponsor_organization", openapi3.NewStringSchema()).
		WithProperty("amount", amountSchema()).
		WithProperty("is_active", openapi3.NewBoolSchema().WithDefault(true)).
		WithProperty("created_at", openapi3.NewDateTimeSchema()).
		WithProperty("updated_at", openapi3.NewDateTimeSchema())
	s.Required = []string{"name", "scholarship_type", "sponsor_organization", "amount"}
	return s
}

func scholarshipUpdateSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("scholarship_type", scholarshipTypeSchema()).
		WithProperty("sponsor_organization", openapi3.NewStringSchema()).
		WithProperty("amount", amountSchema()).
		WithProperty("is_active", openapi3.NewBoolSchema())
}

func errorSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewStringSchema()).
		WithProperty("error", openapi3.NewStringSchema())
}

func healthSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewIntegerSchema()).
		WithProperty("status_message", openapi3.NewStringSchema()).
		WithProperty("timestamp", openapi3.NewDateTimeSchema()).
		WithProperty("ip_address", openapi3.NewStringSchema()).
		WithProperty("echo", openapi3.NewStringSchema().WithNullable()).
		WithProperty("path_echo", openapi3.NewStringSchema().WithNullable())
}

func uniSchema() *openapi3.Schema {
	return openapi3.NewStringSchema().WithPattern("^[a-z]{2,3}[0-9]{1,4}$")
}

func amountSchema() *openapi3.Schema {
	s := openapi3.NewFloat64Schema()
	s.ExclusiveMin = true
	return s.WithMin(0)
}

func tuitionTypeSchema() *openapi3.Schema {
	return openapi3.NewStringSchema().WithEnum("tuition", "library_fee", "gym_fee")
}

func semesterSchema() *openapi3.Schema {
	return openapi3.NewStringSchema().WithEnum("Fall", "Spring", "Summer")
}

func scholarshipTypeSchema() *openapi3.Schema {
	return openapi3.NewStringSchema().WithEnum("academic_merit", "need_based", "research", "departmental")
}

// ─────────────────────────────────────────────────────────────────────────────
// Path assembly
// ─────────────────────────────────────────────────────────────────────────────

// addResource registers the collection and item path for one resource:
// list/create on /<plural>, get/replace/patch/delete on /<plural>/{id}.
func addResource(doc *openapi3.T, plural, schema string, filterParams []string) {
	list := openapi3.NewOperation()
	list.OperationID = "list_" + plural
	for _, name := range filterParams {
		list.AddParameter(openapi3.NewQueryParameter(name).
			WithDescription("Filter by " + name).
			WithSchema(openapi3.NewStringSchema()))
	}
	listOK := openapi3.NewArraySchema()
	listOK.Items = componentRef(schema)
	list.AddResponse(http.StatusOK, okResponse(openapi3.NewSchemaRef("", listOK)))

	create := openapi3.NewOperation()
	create.OperationID = "create_" + singular(plural)
	create.RequestBody = bodyRef(schema)
	create.AddResponse(http.StatusCreated, okResponse(componentRef(schema)))
	create.AddResponse(http.StatusBadRequest, errResponse("Validation failed"))
	create.AddResponse(http.StatusConflict, errResponse("Identifier already exists"))

	doc.Paths.Set("/"+plural, &openapi3.PathItem{Get: list, Post: create})

	idParam := openapi3.NewPathParameter("id").WithSchema(openapi3.NewUUIDSchema())

	get := openapi3.NewOperation()
	get.OperationID = "get_" + singular(plural)
	get.AddParameter(idParam)
	get.AddResponse(http.StatusOK, okResponse(componentRef(schema)))
	get.AddResponse(http.StatusNotFound, errResponse("Not found"))

	put := openapi3.NewOperation()
	put.OperationID = "replace_" + singular(plural)
	put.AddParameter(idParam)
	put.RequestBody = bodyRef(schema)
	put.AddResponse(http.StatusOK, okResponse(componentRef(schema)))
	put.AddResponse(http.StatusBadRequest, errResponse("Validation failed"))
	put.AddResponse(http.StatusNotFound, errResponse("Not found"))

	patch := openapi3.NewOperation()
	patch.OperationID = "update_" + singular(plural)
	patch.AddParameter(idParam)
	patch.RequestBody = bodyRef(schema + "Update")
	patch.AddResponse(http.StatusOK, okResponse(componentRef(schema)))
	patch.AddResponse(http.StatusBadRequest, errResponse("Validation failed"))
	patch.AddResponse(http.StatusNotFound, errResponse("Not found"))

	del := openapi3.NewOperation()
	del.OperationID = "delete_" + singular(plural)
	del.AddParameter(idParam)
	del.AddResponse(http.StatusOK, okResponse(openapi3.NewSchemaRef("",
		openapi3.NewObjectSchema().WithProperty("status", openapi3.NewStringSchema()))))
	del.AddResponse(http.StatusNotFound, errResponse("Not found"))

	doc.Paths.Set("/"+plural+"/{id}", &openapi3.PathItem{
		Get: get, Put: put, Patch: patch, Delete: del,
	})
}

func addHealth(doc *openapi3.T) {
	echoParam := openapi3.NewQueryParameter("echo").
		WithDescription("Optional echo string").
		WithSchema(openapi3.NewStringSchema())

	plain := openapi3.NewOperation()
	plain.OperationID = "get_health"
	plain.AddParameter(echoParam)
	plain.AddResponse(http.StatusOK, okResponse(componentRef("Health")))
	doc.Paths.Set("/health", &openapi3.PathItem{Get: plain})

	withPath := openapi3.NewOperation()
	withPath.OperationID = "get_health_with_path"
	withPath.AddParameter(openapi3.NewPathParameter("path_echo").
		WithDescription("Required echo in the URL path").
		WithSchema(openapi3.NewStringSchema()))
	withPath.AddParameter(echoParam)
	withPath.AddResponse(http.StatusOK, okResponse(componentRef("Health")))
	doc.Paths.Set("/health/{path_echo}", &openapi3.PathItem{Get: withPath})
}

// ─────────────────────────────────────────────────────────────────────────────
// Small builders
// ─────────────────────────────────────────────────────────────────────────────

func schemaRef(s *openapi3.Schema) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("", s)
}

func componentRef(name string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+name, nil)
}

func okResponse(schema *openapi3.SchemaRef) *openapi3.Response {
	return openapi3.NewResponse().
		WithDescription("Successful response").
		WithJSONSchemaRef(schema)
}

func errResponse(description string) *openapi3.Response {
	return openapi3.NewResponse().
		WithDescription(description).
		WithJSONSchemaRef(componentRef("Error"))
}

func bodyRef(schema string) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchemaRef(componentRef(schema)),
	}
}

func singular(plural string) string {
	return plural[:len(plural)-1] // all four resource names are regular plurals
}
