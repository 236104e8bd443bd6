// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and utils can all import types without depending
// on each other.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — controls how the field appears on the wire
//     (snake_case names match the REST API conventions).
//
//  2. validate:"..." — the declarative schema consulted on EVERY write
//     (create, replace, patch) by the go-playground/validator package.
//     "required" means non-zero, "oneof" restricts enum values,
//     "datetime" pins the date layout, and "uni" is our custom tag for
//     Columbia UNIs (registered in NewValidator).
//
// Each entity also carries a companion <Entity>Update struct for PATCH:
// every field is a pointer, nil meaning "leave this field alone". The
// Update structs have no id field, so the identifier cannot be changed
// through a partial update.
package types

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format for birth dates and due dates.
const DateLayout = "2006-01-02"

// uniPattern matches a Columbia UNI: 2-3 lowercase letters followed by
// 1-4 digits, e.g. "vv2418".
var uniPattern = regexp.MustCompile(`^[a-z]{2,3}[0-9]{1,4}$`)

// NewValidator returns the validator shared by all four stores, with the
// custom "uni" tag registered and field names taken from the json tags so
// validation messages use the names clients actually sent.
func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("uni", func(fl validator.FieldLevel) bool {
		return uniPattern.MatchString(fl.Field().String())
	})

	return v
}

// ─────────────────────────────────────────────────────────────────────────────
// Enumerations
// ─────────────────────────────────────────────────────────────────────────────

// TuitionType categorises a tuition charge.
type TuitionType string

const (
	TuitionTypeTuition    TuitionType = "tuition"
	TuitionTypeLibraryFee TuitionType = "library_fee"
	TuitionTypeGymFee     TuitionType = "gym_fee"
)

// Semester is an academic semester.
type Semester string

const (
	SemesterFall   Semester = "Fall"
	SemesterSpring Semester = "Spring"
	SemesterSummer Semester = "Summer"
)

// ScholarshipType categorises a scholarship.
type ScholarshipType string

const (
	ScholarshipTypeAcademicMerit ScholarshipType = "academic_merit"
	ScholarshipTypeNeedBased     ScholarshipType = "need_based"
	ScholarshipTypeResearch      ScholarshipType = "research"
	ScholarshipTypeDepartmental  ScholarshipType = "departmental"
)

// ─────────────────────────────────────────────────────────────────────────────
// Address
// ─────────────────────────────────────────────────────────────────────────────

// Address is a postal address, managed as its own collection and also
// embedded inside Person records. Embedded copies are plain values: no
// referential integrity is enforced between the two collections.
type Address struct {
	ID         string    `json:"id"          validate:"omitempty,uuid4"`
	Street     string    `json:"street"      validate:"required"`
	City       string    `json:"city"        validate:"required"`
	State      string    `json:"state"       validate:"omitempty"`
	PostalCode string    `json:"postal_code" validate:"omitempty"`
	Country    string    `json:"country"     validate:"required"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (a Address) RecordID() string { return a.ID }

func (a Address) WithID(id string) Address { a.ID = id; return a }

func (a Address) Stamp(createdAt, updatedAt time.Time) Address {
	a.CreatedAt = createdAt
	a.UpdatedAt = updatedAt
	return a
}

func (a Address) Created() time.Time { return a.CreatedAt }

// AddressUpdate is the PATCH payload for an Address.
type AddressUpdate struct {
	Street     *string `json:"street"      validate:"omitempty,min=1"`
	City       *string `json:"city"        validate:"omitempty,min=1"`
	State      *string `json:"state"`
	PostalCode *string `json:"postal_code"`
	Country    *string `json:"country"     validate:"omitempty,min=1"`
}

// Apply merges the supplied fields onto cur.
func (u AddressUpdate) Apply(cur Address) Address {
	if u.Street != nil {
		cur.Street = *u.Street
	}
	if u.City != nil {
		cur.City = *u.City
	}
	if u.State != nil {
		cur.State = *u.State
	}
	if u.PostalCode != nil {
		cur.PostalCode = *u.PostalCode
	}
	if u.Country != nil {
		cur.Country = *u.Country
	}
	return cur
}

// ─────────────────────────────────────────────────────────────────────────────
// Person
// ─────────────────────────────────────────────────────────────────────────────

// Person is a student or staff member identified by a Columbia UNI.
// Addresses is a list of embedded Address values validated field by field
// (the "dive" tag descends into each element).
type Person struct {
	ID        string    `json:"id"         validate:"omitempty,uuid4"`
	UNI       string    `json:"uni"        validate:"required,uni"`
	FirstName string    `json:"first_name" validate:"required"`
	LastName  string    `json:"last_name"  validate:"required"`
	Email     string    `json:"email"      validate:"required,email"`
	Phone     string    `json:"phone"      validate:"omitempty"`
	BirthDate string    `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Addresses []Address `json:"addresses"  validate:"omitempty,dive"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p Person) RecordID() string { return p.ID }

func (p Person) WithID(id string) Person { p.ID = id; return p }

func (p Person) Stamp(createdAt, updatedAt time.Time) Person {
	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt
	return p
}

func (p Person) Created() time.Time { return p.CreatedAt }

// PersonUpdate is the PATCH payload for a Person. Supplying addresses
// replaces the whole list: element-level merging is not supported.
type PersonUpdate struct {
	UNI       *string    `json:"uni"        validate:"omitempty,uni"`
	FirstName *string    `json:"first_name" validate:"omitempty,min=1"`
	LastName  *string    `json:"last_name"  validate:"omitempty,min=1"`
	Email     *string    `json:"email"      validate:"omitempty,email"`
	Phone     *string    `json:"phone"`
	BirthDate *string    `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Addresses *[]Address `json:"addresses"  validate:"omitempty,dive"`
}

// Apply merges the supplied fields onto cur.
func (u PersonUpdate) Apply(cur Person) Person {
	if u.UNI != nil {
		cur.UNI = *u.UNI
	}
	if u.FirstName != nil {
		cur.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		cur.LastName = *u.LastName
	}
	if u.Email != nil {
		cur.Email = *u.Email
	}
	if u.Phone != nil {
		cur.Phone = *u.Phone
	}
	if u.BirthDate != nil {
		cur.BirthDate = *u.BirthDate
	}
	if u.Addresses != nil {
		cur.Addresses = *u.Addresses
	}
	return cur
}

// ─────────────────────────────────────────────────────────────────────────────
// Tuition
// ─────────────────────────────────────────────────────────────────────────────

// Tuition is a single tuition or fee charge against a student.
type Tuition struct {
	ID         string      `json:"id"           validate:"omitempty,uuid4"`
	StudentUNI string      `json:"student_uni"  validate:"required,uni"`
	Type       TuitionType `json:"tuition_type" validate:"required,oneof=tuition library_fee gym_fee"`
	Semester   Semester    `json:"semester"     validate:"required,oneof=Fall Spring Summer"`
	Year       int         `json:"year"         validate:"required,gte=1900,lte=2100"`
	Amount     float64     `json:"amount"       validate:"required,gt=0"`
	DueDate    string      `json:"due_date"     validate:"required,datetime=2006-01-02"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func (t Tuition) RecordID() string { return t.ID }

func (t Tuition) WithID(id string) Tuition { t.ID = id; return t }

func (t Tuition) Stamp(createdAt, updatedAt time.Time) Tuition {
	t.CreatedAt = createdAt
	t.UpdatedAt = updatedAt
	return t
}

func (t Tuition) Created() time.Time { return t.CreatedAt }

// TuitionUpdate is the PATCH payload for a Tuition record.
type TuitionUpdate struct {
	StudentUNI *string      `json:"student_uni"  validate:"omitempty,uni"`
	Type       *TuitionType `json:"tuition_type" validate:"omitempty,oneof=tuition library_fee gym_fee"`
	Semester   *Semester    `json:"semester"     validate:"omitempty,oneof=Fall Spring Summer"`
	Year       *int         `json:"year"         validate:"omitempty,gte=1900,lte=2100"`
	Amount     *float64     `json:"amount"       validate:"omitempty,gt=0"`
	DueDate    *string      `json:"due_date"     validate:"omitempty,datetime=2006-01-02"`
}

// Apply merges the supplied fields onto cur.
func (u TuitionUpdate) Apply(cur Tuition) Tuition {
	if u.StudentUNI != nil {
		cur.StudentUNI = *u.StudentUNI
	}
	if u.Type != nil {
		cur.Type = *u.Type
	}
	if u.Semester != nil {
		cur.Semester = *u.Semester
	}
	if u.Year != nil {
		cur.Year = *u.Year
	}
	if u.Amount != nil {
		cur.Amount = *u.Amount
	}
	if u.DueDate != nil {
		cur.DueDate = *u.DueDate
	}
	return cur
}

// ─────────────────────────────────────────────────────────────────────────────
// Scholarship
// ─────────────────────────────────────────────────────────────────────────────

// Scholarship is an award offered by a sponsoring organisation.
type Scholarship struct {
	ID                  string          `json:"id"                   validate:"omitempty,uuid4"`
	Name                string          `json:"name"                 validate:"required"`
	Type                ScholarshipType `json:"scholarship_type"     validate:"required,oneof=academic_merit need_based research departmental"`
	SponsorOrganization string          `json:"sponsor_organization" validate:"required"`
	Amount              float64         `json:"amount"               validate:"required,gt=0"`
	IsActive            bool            `json:"is_active"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func (s Scholarship) RecordID() string { return s.ID }

func (s Scholarship) WithID(id string) Scholarship { s.ID = id; return s }

func (s Scholarship) Stamp(createdAt, updatedAt time.Time) Scholarship {
	s.CreatedAt = createdAt
	s.UpdatedAt = updatedAt
	return s
}

func (s Scholarship) Created() time.Time { return s.CreatedAt }

// Defaults returns the pre-decode state of a create payload: a
// scholarship is active unless the client says otherwise. The handler
// seeds the struct with this value BEFORE decoding the body, so an
// omitted is_active keeps the default while an explicit false survives.
func (s Scholarship) Defaults() Scholarship {
	s.IsActive = true
	return s
}

// ScholarshipUpdate is the PATCH payload for a Scholarship.
type ScholarshipUpdate struct {
	Name                *string          `json:"name"                 validate:"omitempty,min=1"`
	Type                *ScholarshipType `json:"scholarship_type"     validate:"omitempty,oneof=academic_merit need_based research departmental"`
	SponsorOrganization *string          `json:"sponsor_organization" validate:"omitempty,min=1"`
	Amount              *float64         `json:"amount"               validate:"omitempty,gt=0"`
	IsActive            *bool            `json:"is_active"`
}

// Apply merges the supplied fields onto cur.
func (u ScholarshipUpdate) Apply(cur Scholarship) Scholarship {
	if u.Name != nil {
		cur.Name = *u.Name
	}
	if u.Type != nil {
		cur.Type = *u.Type
	}
	if u.SponsorOrganization != nil {
		cur.SponsorOrganization = *u.SponsorOrganization
	}
	if u.Amount != nil {
		cur.Amount = *u.Amount
	}
	if u.IsActive != nil {
		cur.IsActive = *u.IsActive
	}
	return cur
}
