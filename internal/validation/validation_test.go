package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	DisplayName     string `json:"displayName" validate:"min=2"`
	Email           string `json:"email" validate:"email"`
	Password        string `json:"password" validate:"min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type prefsBody struct {
	UserID      string `json:"userId" validate:"required"`
	Preferences struct {
		Language string `json:"language" validate:"oneof=en pt"`
	} `json:"preferences"`
}

func TestStruct_Valid(t *testing.T) {
	v := New()
	err := v.Struct(signup{DisplayName: "Jordan", Email: "jordan@x.com", Password: "longenough1", ConfirmPassword: "longenough1"})
	assert.NoError(t, err)
}

func TestStruct_FieldMessages(t *testing.T) {
	v := New()
	err := v.Struct(signup{DisplayName: "J", Email: "bad", Password: "short", ConfirmPassword: "other"})
	require.Error(t, err)

	assert.Equal(t, []FieldError{
		{Field: "displayName", Message: "Display name must be at least 2 characters."},
		{Field: "email", Message: "Please enter a valid email address."},
		{Field: "password", Message: "Password must be at least 8 characters."},
		{Field: "confirmPassword", Message: "Passwords do not match"},
	}, FieldErrors(err))
}

func TestStruct_MissingConfirmation(t *testing.T) {
	v := New()
	err := v.Struct(signup{DisplayName: "Jo", Email: "bad", Password: "short"})

	fields := FieldErrors(err)
	require.Len(t, fields, 3)
	assert.Equal(t, FieldError{Field: "confirmPassword", Message: "Required"}, fields[2])
}

func TestStruct_NestedFieldPath(t *testing.T) {
	v := New()
	body := prefsBody{}
	body.Preferences.Language = "fr"

	fields := FieldErrors(v.Struct(body))
	require.Len(t, fields, 2)
	assert.Equal(t, "userId", fields[0].Field)
	assert.Equal(t, FieldError{Field: "preferences.language", Message: "Invalid language. Expected one of: en pt"}, fields[1])
}

func TestFieldErrors_NonValidationError(t *testing.T) {
	assert.Nil(t, FieldErrors(errors.New("boom")))
	assert.Nil(t, FieldErrors(nil))
}

func TestErrors_Error(t *testing.T) {
	err := Errors{{Field: "email", Message: "bad"}, {Field: "password", Message: "short"}}
	assert.Equal(t, "email: bad; password: short", err.Error())
}
