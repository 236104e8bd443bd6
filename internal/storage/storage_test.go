package storage

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorStatusCodes(t *testing.T) {
	cases := []struct {
		err  StatusCoder
		want int
	}{
		{&NotFoundError{Resource: "tuitions", ID: "abc"}, http.StatusNotFound},
		{&ConflictError{Resource: "persons", ID: "abc"}, http.StatusConflict},
		{&ValidationError{Resource: "addresses", Fields: []string{"field city is required"}}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.StatusCode(), tc.err.Error())
	}
}

func TestErrorMessagesUseSingularResource(t *testing.T) {
	nf := &NotFoundError{Resource: "tuitions", ID: "abc"}
	assert.Equal(t, `no tuition found with id "abc"`, nf.Error())

	cf := &ConflictError{Resource: "scholarships", ID: "abc"}
	assert.Equal(t, `scholarship with id "abc" already exists`, cf.Error())

	ve := &ValidationError{Resource: "persons", Fields: []string{"field uni is required", "field email must be a valid email address"}}
	assert.Equal(t, "invalid person: field uni is required, field email must be a valid email address", ve.Error())
}

func TestErrorsSatisfyStatusCoderViaErrorsAs(t *testing.T) {
	// The response layer unwraps with errors.As, so a wrapped store error
	// must still surface its status.
	wrapped := fmt.Errorf("store: %w", &NotFoundError{Resource: "persons", ID: "x"})

	var sc StatusCoder
	require.True(t, errors.As(wrapped, &sc))
	assert.Equal(t, http.StatusNotFound, sc.StatusCode())
}
