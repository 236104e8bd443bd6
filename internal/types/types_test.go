package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func validPerson() Person {
	return Person{
		UNI:       "ab1234",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.edu",
		BirthDate: "1815-12-10",
		Addresses: []Address{
			{Street: "116th & Broadway", City: "New York", Country: "USA"},
		},
	}
}

func TestUNITag(t *testing.T) {
	v := NewValidator()

	valid := []string{"ab1", "vv2418", "abc1234", "xy123"}
	for _, uni := range valid {
		p := validPerson()
		p.UNI = uni
		assert.NoError(t, v.Struct(p), "uni %q should be valid", uni)
	}

	invalid := []string{"", "AB1234", "a1234", "abcd12", "ab", "1234", "ab12345"}
	for _, uni := range invalid {
		p := validPerson()
		p.UNI = uni
		assert.Error(t, v.Struct(p), "uni %q should be rejected", uni)
	}
}

func TestPersonValidation(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.Struct(validPerson()))

	t.Run("missing email", func(t *testing.T) {
		p := validPerson()
		p.Email = ""
		assert.Error(t, v.Struct(p))
	})

	t.Run("malformed email", func(t *testing.T) {
		p := validPerson()
		p.Email = "not-an-email"
		assert.Error(t, v.Struct(p))
	})

	t.Run("malformed birth_date", func(t *testing.T) {
		p := validPerson()
		p.BirthDate = "12/10/1815"
		assert.Error(t, v.Struct(p))
	})

	t.Run("phone is optional", func(t *testing.T) {
		p := validPerson()
		p.Phone = ""
		assert.NoError(t, v.Struct(p))
	})

	t.Run("nested address is dive-validated", func(t *testing.T) {
		p := validPerson()
		p.Addresses = []Address{{Street: "", City: "New York", Country: "USA"}}
		assert.Error(t, v.Struct(p))
	})

	t.Run("no addresses is fine", func(t *testing.T) {
		p := validPerson()
		p.Addresses = nil
		assert.NoError(t, v.Struct(p))
	})
}

func TestValidatorUsesJSONFieldNames(t *testing.T) {
	v := NewValidator()

	p := validPerson()
	p.FirstName = ""
	err := v.Struct(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first_name")
}

func TestScholarshipDefaults(t *testing.T) {
	s := Scholarship{}.Defaults()
	assert.True(t, s.IsActive)
}

func TestPersonUpdateApply(t *testing.T) {
	cur := validPerson().WithID("11111111-2222-4333-8444-555555555555")

	merged := PersonUpdate{
		Email: ptr("ada.l@example.edu"),
		Phone: ptr("+1-212-555-0100"),
	}.Apply(cur)

	assert.Equal(t, "ada.l@example.edu", merged.Email)
	assert.Equal(t, "+1-212-555-0100", merged.Phone)

	// Everything not supplied stays as it was.
	assert.Equal(t, cur.ID, merged.ID)
	assert.Equal(t, cur.UNI, merged.UNI)
	assert.Equal(t, cur.FirstName, merged.FirstName)
	assert.Equal(t, cur.LastName, merged.LastName)
	assert.Equal(t, cur.BirthDate, merged.BirthDate)
	assert.Equal(t, cur.Addresses, merged.Addresses)
}

func TestPersonUpdateApplyReplacesAddressList(t *testing.T) {
	cur := validPerson()

	merged := PersonUpdate{
		Addresses: ptr([]Address{{Street: "1 Main St", City: "Boston", Country: "USA"}}),
	}.Apply(cur)

	require.Len(t, merged.Addresses, 1)
	assert.Equal(t, "Boston", merged.Addresses[0].City)
}

func TestTuitionUpdateApply(t *testing.T) {
	cur := Tuition{
		StudentUNI: "vv2418",
		Type:       TuitionTypeTuition,
		Semester:   SemesterFall,
		Year:       2024,
		Amount:     25000,
		DueDate:    "2024-08-15",
	}

	merged := TuitionUpdate{
		Type:   ptr(TuitionTypeGymFee),
		Amount: ptr(500.0),
	}.Apply(cur)

	assert.Equal(t, TuitionTypeGymFee, merged.Type)
	assert.Equal(t, 500.0, merged.Amount)
	assert.Equal(t, cur.StudentUNI, merged.StudentUNI)
	assert.Equal(t, cur.Semester, merged.Semester)
	assert.Equal(t, cur.Year, merged.Year)
	assert.Equal(t, cur.DueDate, merged.DueDate)
}

func TestScholarshipUpdateApplyExplicitFalse(t *testing.T) {
	cur := Scholarship{
		Name:                "Merit",
		Type:                ScholarshipTypeAcademicMerit,
		SponsorOrganization: "Engineering School",
		Amount:              5000,
		IsActive:            true,
	}

	merged := ScholarshipUpdate{IsActive: ptr(false)}.Apply(cur)
	assert.False(t, merged.IsActive)

	// A nil pointer means "leave alone", not "set to zero value".
	merged = ScholarshipUpdate{Amount: ptr(6000.0)}.Apply(cur)
	assert.True(t, merged.IsActive)
	assert.Equal(t, 6000.0, merged.Amount)
}

func TestUpdateStructValidation(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Struct(TuitionUpdate{}), "empty patch is valid")
	assert.NoError(t, v.Struct(TuitionUpdate{Amount: ptr(10.0)}))
	assert.Error(t, v.Struct(TuitionUpdate{Amount: ptr(-10.0)}))
	assert.Error(t, v.Struct(TuitionUpdate{Semester: ptr(Semester("Winter"))}))
	assert.Error(t, v.Struct(PersonUpdate{Email: ptr("nope")}))
	assert.NoError(t, v.Struct(ScholarshipUpdate{IsActive: ptr(false)}))
}

func TestRecordStamp(t *testing.T) {
	p := validPerson()
	assert.True(t, p.Created().IsZero())

	stamped := p.Stamp(p.CreatedAt, p.UpdatedAt)
	assert.Equal(t, p, stamped)

	withID := p.WithID("11111111-2222-4333-8444-555555555555")
	assert.Equal(t, "11111111-2222-4333-8444-555555555555", withID.RecordID())
	assert.Empty(t, p.RecordID(), "WithID must not mutate the receiver")
}
