package apierror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string `validate:"required,email"`
	Stars int    `validate:"min=1,max=5"`
}

func TestFromValidationError(t *testing.T) {
	err := validator.New().Struct(&sample{Email: "nope", Stars: 9})
	require.Error(t, err)

	serr := FromValidationError(err)
	require.NotNil(t, serr)
	assert.Equal(t, http.StatusBadRequest, serr.Code())
	assert.Equal(t, []string{"Value must be a valid email address"}, serr.Errors["email"])
	assert.Equal(t, []string{"Value is too large, max: 5"}, serr.Errors["stars"])
}

func TestFromValidationErrorIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, FromValidationError(errors.New("boom")))
}

func TestNewSimpleFormatsArgs(t *testing.T) {
	e := NewSimple(http.StatusTeapot, "hello %s", "there")
	assert.Equal(t, "hello there", e.Message)
	assert.Equal(t, http.StatusTeapot, e.Code())
}

func TestStructuredErrorAdd(t *testing.T) {
	s := NewStructured(http.StatusBadRequest)
	s.Add("title", "This field is required")
	s.Add("title", "Value is too small, min: 2")
	assert.Len(t, s.Errors["title"], 2)
}
