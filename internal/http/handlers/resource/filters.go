package resource

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/academic-finance/api/internal/types"
)

// Filter builders, one per resource. Each inspects the query parameters
// its list endpoint supports and returns one predicate per parameter
// present; the store ANDs them together. Filters are exact-match equality
// except where noted.
//
// Unparsable values for typed parameters (year, is_active) are ignored
// rather than rejected, so a bad query degrades to an unfiltered listing
// instead of an error.

// PersonFilters supports uni, first_name, last_name, email, phone and
// birth_date (exact match), plus city and country, which match persons
// having AT LEAST ONE address in that city or country.
func PersonFilters(q url.Values) []func(types.Person) bool {
	var fs []func(types.Person) bool

	if v := q.Get("uni"); v != "" {
		fs = append(fs, func(p types.Person) bool { return p.UNI == v })
	}
	if v := q.Get("first_name"); v != "" {
		fs = append(fs, func(p types.Person) bool { return p.FirstName == v })
	}
	if v := q.Get("last_name"); v != "" {
		fs = append(fs, func(p types.Person) bool { return p.LastName == v })
	}
	if v := q.Get("email"); v != "" {
		fs = append(fs, func(p types.Person) bool { return p.Email == v })
	}
	if v := q.Get("phone"); v != "" {
		fs = append(fs, func(p types.Person) bool { return p.Phone == v })
	}
	if v := q.Get("birth_date"); v != "" {
		fs = append(fs, func(p types.Person) bool { return p.BirthDate == v })
	}
	if v := q.Get("city"); v != "" {
		fs = append(fs, func(p types.Person) bool {
			for _, a := range p.Addresses {
				if a.City == v {
					return true
				}
			}
			return false
		})
	}
	if v := q.Get("country"); v != "" {
		fs = append(fs, func(p types.Person) bool {
			for _, a := range p.Addresses {
				if a.Country == v {
					return true
				}
			}
			return false
		})
	}

	return fs
}

// AddressFilters supports street, city, state, postal_code and country.
func AddressFilters(q url.Values) []func(types.Address) bool {
	var fs []func(types.Address) bool

	if v := q.Get("street"); v != "" {
		fs = append(fs, func(a types.Address) bool { return a.Street == v })
	}
	if v := q.Get("city"); v != "" {
		fs = append(fs, func(a types.Address) bool { return a.City == v })
	}
	if v := q.Get("state"); v != "" {
		fs = append(fs, func(a types.Address) bool { return a.State == v })
	}
	if v := q.Get("postal_code"); v != "" {
		fs = append(fs, func(a types.Address) bool { return a.PostalCode == v })
	}
	if v := q.Get("country"); v != "" {
		fs = append(fs, func(a types.Address) bool { return a.Country == v })
	}

	return fs
}

// TuitionFilters supports student_uni, tuition_type, semester and year.
func TuitionFilters(q url.Values) []func(types.Tuition) bool {
	var fs []func(types.Tuition) bool

	if v := q.Get("student_uni"); v != "" {
		fs = append(fs, func(t types.Tuition) bool { return t.StudentUNI == v })
	}
	if v := q.Get("tuition_type"); v != "" {
		fs = append(fs, func(t types.Tuition) bool { return string(t.Type) == v })
	}
	if v := q.Get("semester"); v != "" {
		fs = append(fs, func(t types.Tuition) bool { return string(t.Semester) == v })
	}
	if v := q.Get("year"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			fs = append(fs, func(t types.Tuition) bool { return t.Year == year })
		}
	}

	return fs
}

// ScholarshipFilters supports scholarship_type and is_active (exact
// match) and sponsor_organization, which is a case-insensitive substring
// match so "columbia" finds every Columbia sponsor.
func ScholarshipFilters(q url.Values) []func(types.Scholarship) bool {
	var fs []func(types.Scholarship) bool

	if v := q.Get("scholarship_type"); v != "" {
		fs = append(fs, func(s types.Scholarship) bool { return string(s.Type) == v })
	}
	if v := q.Get("sponsor_organization"); v != "" {
		needle := strings.ToLower(v)
		fs = append(fs, func(s types.Scholarship) bool {
			return strings.Contains(strings.ToLower(s.SponsorOrganization), needle)
		})
	}
	if v := q.Get("is_active"); v != "" {
		if active, err := strconv.ParseBool(v); err == nil {
			fs = append(fs, func(s types.Scholarship) bool { return s.IsActive == active })
		}
	}

	return fs
}
